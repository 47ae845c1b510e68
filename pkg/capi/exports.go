// Package main provides C-compatible functions for building a shared library.
// Build with: go build -buildmode=c-shared -o libfinesse.so ./pkg/capi
package main

/*
#include <stdlib.h>
#include <stdint.h>
*/
import "C"
import (
	"encoding/json"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/pkg/engine"
	"github.com/yourusername/finesse/pkg/replay"
)

var (
	globalEngine *engine.Engine
	engineMutex  sync.RWMutex
	lastError    string
	errorMutex   sync.Mutex
)

// setError stores an error message for later retrieval.
func setError(err error) {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

//export finesse_version
func finesse_version() *C.char {
	return C.CString("0.1.0")
}

//export finesse_last_error
func finesse_last_error() *C.char {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	if lastError == "" {
		return nil
	}
	return C.CString(lastError)
}

//export finesse_init
func finesse_init(width, height, cancelWindowMs, tapOnly C.int) C.int {
	engineMutex.Lock()
	defer engineMutex.Unlock()

	opts := engine.EngineOptions{
		Width:        int(width),
		Height:       int(height),
		CancelWindow: time.Duration(cancelWindowMs) * time.Millisecond,
		TapOnly:      tapOnly != 0,
	}

	eng, err := engine.NewEngine(opts)
	if err != nil {
		setError(err)
		return -1
	}

	globalEngine = eng
	setError(nil)
	return 0
}

//export finesse_shutdown
func finesse_shutdown() {
	engineMutex.Lock()
	defer engineMutex.Unlock()
	globalEngine = nil
}

//export finesse_optimal
func finesse_optimal(targetKey *C.char, resultJSON **C.char) C.int {
	engineMutex.RLock()
	eng := globalEngine
	engineMutex.RUnlock()

	if eng == nil {
		setError(nil)
		*resultJSON = C.CString(`{"error": "engine not initialized"}`)
		return -1
	}

	key := C.GoString(targetKey)
	kind, rot, x, err := placekey.Decode(key)
	if err != nil {
		setError(err)
		*resultJSON = C.CString(`{"error": "invalid placement key"}`)
		return -1
	}

	seqs := eng.CalculateOptimal(eng.Spawn(engine.PieceKind(kind)), x, engine.Rotation(rot))

	sequences := make([][]string, len(seqs))
	for i, seq := range seqs {
		codes := make([]string, len(seq))
		for j, a := range seq {
			codes[j] = a.Code()
		}
		sequences[i] = codes
	}
	result := map[string]interface{}{
		"target":     strings.ToUpper(key),
		"min_inputs": engine.MinSequenceLength(seqs),
		"sequences":  sequences,
	}

	jsonBytes, _ := json.Marshal(result)
	*resultJSON = C.CString(string(jsonBytes))
	setError(nil)
	return 0
}

//export finesse_evaluate
func finesse_evaluate(targetKey, eventTokens *C.char, resultJSON **C.char) C.int {
	engineMutex.RLock()
	eng := globalEngine
	engineMutex.RUnlock()

	if eng == nil {
		*resultJSON = C.CString(`{"error": "engine not initialized"}`)
		return -1
	}

	key := C.GoString(targetKey)
	kind, rot, x, err := placekey.Decode(key)
	if err != nil {
		setError(err)
		*resultJSON = C.CString(`{"error": "invalid placement key"}`)
		return -1
	}

	// Events arrive as a space-separated string of code@ms tokens.
	var events []engine.InputEvent
	for _, tok := range strings.Fields(C.GoString(eventTokens)) {
		ev, err := replay.ParseEvent(tok)
		if err != nil {
			setError(err)
			*resultJSON = C.CString(`{"error": "invalid event token"}`)
			return -1
		}
		events = append(events, ev)
	}

	analysis := eng.EvaluateLog(eng.Spawn(engine.PieceKind(kind)), x, engine.Rotation(rot), events)

	normalized := make([]string, len(analysis.Normalized))
	for i, a := range analysis.Normalized {
		normalized[i] = a.Code()
	}
	result := map[string]interface{}{
		"target":      strings.ToUpper(key),
		"normalized":  normalized,
		"optimal_len": engine.MinSequenceLength(analysis.Optimal),
		"is_optimal":  analysis.Verdict.IsOptimal,
		"fault_count": analysis.Verdict.FaultCount,
		"grade":       analysis.Grade.String(),
	}

	jsonBytes, _ := json.Marshal(result)
	*resultJSON = C.CString(string(jsonBytes))
	setError(nil)
	return 0
}

//export finesse_free_string
func finesse_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
