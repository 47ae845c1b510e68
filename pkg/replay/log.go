package replay

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/finesse/pkg/engine"
)

// The session log format is a plain text file:
//
//  ; [Player "hikari"]
//  ; [Date "2026-08-21"]
//  ; [CancelWindow "80ms"]
//
//  Session 1
//  1) T04: rcw@0 tapl@150 tapl@310 hd@500
//  2) IL0: dasl@0 hd@410
//
// Tag comments carry metadata; unknown tags are skipped. Each numbered
// line is one placement: the target placement key, then the raw input
// events as <code>@<ms offset from spawn>.

var (
	tagRE           = regexp.MustCompile(`\[(\w+)\s+"([^"]+)"\]`)
	sessionHeaderRE = regexp.MustCompile(`^Session\s+(\d+)`)
	placementRE     = regexp.MustCompile(`^\s*(\d+)\)\s*([A-Za-z0-9-]+):\s*(.*)$`)
)

// FormatEvent renders one input event as its log token.
func FormatEvent(ev engine.InputEvent) string {
	return fmt.Sprintf("%s@%d", ev.Type.Code(), ev.At.Milliseconds())
}

// ParseEvent parses a <code>@<ms> log token.
func ParseEvent(tok string) (engine.InputEvent, error) {
	at := strings.IndexByte(tok, '@')
	if at < 0 {
		return engine.InputEvent{}, fmt.Errorf("event %q missing timestamp", tok)
	}
	typ, err := engine.ParseEventCode(tok[:at])
	if err != nil {
		return engine.InputEvent{}, err
	}
	ms, err := strconv.Atoi(tok[at+1:])
	if err != nil || ms < 0 {
		return engine.InputEvent{}, fmt.Errorf("event %q has a bad timestamp", tok)
	}
	return engine.InputEvent{Type: typ, At: time.Duration(ms) * time.Millisecond}, nil
}

// ImportLog reads a session log. Unknown tags and stray lines are skipped;
// a malformed event token on a placement line is an error.
func ImportLog(r io.Reader) (*SessionLog, error) {
	scanner := bufio.NewScanner(r)
	log := &SessionLog{
		Placements: make([]Placement, 0),
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Metadata comments
		if strings.HasPrefix(line, ";") {
			if m := tagRE.FindStringSubmatch(line); m != nil {
				value := m[2]
				switch strings.ToLower(m[1]) {
				case "player":
					log.Player = value
				case "date":
					log.Date = value
				case "mode":
					log.Mode = value
				case "comment":
					log.Comment = value
				case "cancelwindow":
					if d, err := time.ParseDuration(value); err == nil {
						log.CancelWindow = d
					}
				}
			}
			continue
		}

		if sessionHeaderRE.MatchString(line) {
			continue
		}

		m := placementRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		number, _ := strconv.Atoi(m[1])
		placement := Placement{Number: number, Target: strings.ToUpper(m[2])}
		for _, tok := range strings.Fields(m[3]) {
			ev, err := ParseEvent(tok)
			if err != nil {
				return nil, fmt.Errorf("placement %d: %w", number, err)
			}
			placement.Events = append(placement.Events, ev)
		}
		log.Placements = append(log.Placements, placement)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session log: %w", err)
	}

	return log, nil
}

// ExportLog writes a session log in the text format ImportLog reads.
func ExportLog(w io.Writer, log *SessionLog) error {
	if log.Player != "" {
		fmt.Fprintf(w, "; [Player \"%s\"]\n", log.Player)
	}
	if log.Date != "" {
		fmt.Fprintf(w, "; [Date \"%s\"]\n", log.Date)
	}
	if log.Mode != "" {
		fmt.Fprintf(w, "; [Mode \"%s\"]\n", log.Mode)
	}
	if log.CancelWindow > 0 {
		fmt.Fprintf(w, "; [CancelWindow \"%s\"]\n", log.CancelWindow)
	}
	if log.Comment != "" {
		fmt.Fprintf(w, "; [Comment \"%s\"]\n", log.Comment)
	}
	fmt.Fprintf(w, "\nSession 1\n")

	for _, p := range log.Placements {
		toks := make([]string, len(p.Events))
		for i, ev := range p.Events {
			toks[i] = FormatEvent(ev)
		}
		if _, err := fmt.Fprintf(w, "%d) %s: %s\n", p.Number, p.Target, strings.Join(toks, " ")); err != nil {
			return err
		}
	}
	return nil
}
