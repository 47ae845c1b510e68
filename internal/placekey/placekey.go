// Package placekey implements the compact placement notation shared by the
// CLI, the API and the engine cache.
//
// A placement key names a (piece kind, rotation state, column) triple as
// <kind letter><rotation letter><column>: "T04" is a T piece in spawn
// rotation at column 4, "IR9" an I piece rotated clockwise at column 9.
// Rotation letters are 0 (spawn), R (right), 2 (two) and L (left). Columns
// are bounding box coordinates and may be negative for rotated pieces
// hugging the left wall ("TR-1").
//
// The package also packs full search queries into a QueryKey for cache
// indexing. Everything works on plain ints; kind and rotation indices follow
// the engine's fixed ordering (I O T S Z J L, spawn right two left).
package placekey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NumKinds and NumRotations bound the indices this package accepts.
const (
	NumKinds     = 7
	NumRotations = 4
)

// MinColumn and MaxColumn bound the columns a key can carry. The range
// covers every legal bounding box position on boards up to 20 wide.
const (
	MinColumn = -4
	MaxColumn = 23
)

const (
	kindLetters     = "IOTSZJL"
	rotationLetters = "0R2L"
)

// ErrInvalidPlaceKey is returned when a placement key cannot be decoded.
var ErrInvalidPlaceKey = errors.New("invalid placement key")

// Encode builds the textual key for a placement.
func Encode(kind, rotation, x int) (string, error) {
	if kind < 0 || kind >= NumKinds {
		return "", fmt.Errorf("%w: kind %d out of range", ErrInvalidPlaceKey, kind)
	}
	if rotation < 0 || rotation >= NumRotations {
		return "", fmt.Errorf("%w: rotation %d out of range", ErrInvalidPlaceKey, rotation)
	}
	if x < MinColumn || x > MaxColumn {
		return "", fmt.Errorf("%w: column %d out of range", ErrInvalidPlaceKey, x)
	}
	return fmt.Sprintf("%c%c%d", kindLetters[kind], rotationLetters[rotation], x), nil
}

// Decode parses a textual placement key. Letters are accepted in either
// case.
func Decode(s string) (kind, rotation, x int, err error) {
	if len(s) < 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q too short", ErrInvalidPlaceKey, s)
	}

	kind = strings.IndexByte(kindLetters, upper(s[0]))
	if kind < 0 {
		return 0, 0, 0, fmt.Errorf("%w: unknown piece %q", ErrInvalidPlaceKey, s[0])
	}

	rotation = strings.IndexByte(rotationLetters, upper(s[1]))
	if rotation < 0 {
		return 0, 0, 0, fmt.Errorf("%w: unknown rotation %q", ErrInvalidPlaceKey, s[1])
	}

	x, convErr := strconv.Atoi(s[2:])
	if convErr != nil {
		return 0, 0, 0, fmt.Errorf("%w: bad column in %q", ErrInvalidPlaceKey, s)
	}
	if x < MinColumn || x > MaxColumn {
		return 0, 0, 0, fmt.Errorf("%w: column %d out of range", ErrInvalidPlaceKey, x)
	}

	return kind, rotation, x, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// QueryKey is a packed search query: piece kind, start state and target
// state in one uint32. Columns are stored biased by -MinColumn so negative
// columns pack cleanly.
type QueryKey uint32

// Bit layout of a QueryKey.
const (
	kindBits = 3
	rotBits  = 2
	colBits  = 5

	colBias = -MinColumn
)

// MakeQueryKey packs a full query. Arguments outside the packable range are
// clamped; collisions from clamping are acceptable for cache keying because
// the engine validates real queries before reaching the cache.
func MakeQueryKey(kind, startRot, startX, targetRot, targetX int) QueryKey {
	k := QueryKey(clamp(kind, 0, NumKinds-1))
	k = k<<rotBits | QueryKey(clamp(startRot, 0, NumRotations-1))
	k = k<<colBits | QueryKey(clamp(startX+colBias, 0, 1<<colBits-1))
	k = k<<rotBits | QueryKey(clamp(targetRot, 0, NumRotations-1))
	k = k<<colBits | QueryKey(clamp(targetX+colBias, 0, 1<<colBits-1))
	return k
}

// Unpack splits a QueryKey back into its components.
func (k QueryKey) Unpack() (kind, startRot, startX, targetRot, targetX int) {
	targetX = int(k&(1<<colBits-1)) - colBias
	k >>= colBits
	targetRot = int(k & (1<<rotBits - 1))
	k >>= rotBits
	startX = int(k&(1<<colBits-1)) - colBias
	k >>= colBits
	startRot = int(k & (1<<rotBits - 1))
	k >>= rotBits
	kind = int(k & (1<<kindBits - 1))
	return
}

// EqualKeys reports whether two query keys are identical.
func EqualKeys(a, b QueryKey) bool {
	return a == b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
