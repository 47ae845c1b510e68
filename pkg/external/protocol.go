// Package external implements a line-oriented TCP protocol so other
// programs (game clients, overlay tools) can query the engine without
// linking it.
//
// Protocol overview:
//   - Server listens on a TCP port
//   - Client connects and sends one command per line
//   - Commands: optimal, evaluate, drills, set, version, help, exit
//   - Placements are sent as placement keys (e.g. "T04"), inputs as
//     code@ms tokens
package external

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/pkg/engine"
	"github.com/yourusername/finesse/pkg/replay"
	"github.com/yourusername/finesse/pkg/trainer"
)

// Server implements the external protocol server.
type Server struct {
	engine   *engine.Engine
	listener net.Listener
	mu       sync.Mutex
	running  bool
	options  ServerOptions
}

// ServerOptions configures the external protocol server.
type ServerOptions struct {
	Port          int           // TCP port to listen on
	CancelWindow  time.Duration // Opposite-tap window (0 = engine default)
	PromptEnabled bool          // Send prompts after responses
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port:          3456,
		PromptEnabled: true,
	}
}

// NewServer creates a new external protocol server.
func NewServer(eng *engine.Engine, opts ServerOptions) *Server {
	return &Server{
		engine:  eng,
		options: opts,
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf(":%d", s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true

	go s.acceptLoop()

	return nil
}

// Stop stops the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return // Server stopped
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single client connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	if s.options.PromptEnabled {
		conn.Write([]byte("> "))
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := s.processCommand(line)
		conn.Write([]byte(response))

		if s.options.PromptEnabled {
			conn.Write([]byte("> "))
		}

		cmd := strings.ToLower(line)
		if cmd == "exit" || cmd == "quit" {
			return
		}
	}
}

// processCommand processes a single command and returns the response.
func (s *Server) processCommand(cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	switch strings.ToLower(parts[0]) {
	case "version":
		return "finesse external protocol 1.0\n"

	case "help":
		return s.helpResponse()

	case "exit", "quit":
		return "Goodbye\n"

	case "set":
		return s.handleSet(parts[1:])

	case "optimal":
		return s.handleOptimal(parts[1:])

	case "evaluate", "eval":
		return s.handleEvaluate(parts[1:])

	case "drills":
		return s.handleDrills(parts[1:])

	default:
		return fmt.Sprintf("Error: unknown command '%s'\n", parts[0])
	}
}

// helpResponse returns help text.
func (s *Server) helpResponse() string {
	return `Available commands:
  version                      - Show version information
  help                         - Show this help
  set window <duration>        - Set the opposite-tap cancel window (e.g. 80ms)
  optimal <key> [start-key]    - List every minimal input sequence for a placement
  evaluate <key> <ev> [ev...]  - Grade recorded inputs (code@ms tokens) for a placement
  drills [count] [seed]        - Generate placement drills
  exit                         - Close connection
`
}

// handleSet handles the set command.
func (s *Server) handleSet(args []string) string {
	if len(args) < 2 {
		return "Error: set requires option and value\n"
	}

	switch strings.ToLower(args[0]) {
	case "window":
		d, err := time.ParseDuration(args[1])
		if err != nil || d < 0 {
			return "Error: window must be a non-negative duration\n"
		}
		s.mu.Lock()
		s.options.CancelWindow = d
		s.mu.Unlock()
		return fmt.Sprintf("window set to %s\n", d)

	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", args[0])
	}
}

// resolveQuery decodes a target key and an optional mid-flight start key.
func (s *Server) resolveQuery(target, start string) (engine.ActivePiece, int, engine.Rotation, error) {
	kind, rot, x, err := placekey.Decode(target)
	if err != nil {
		return engine.ActivePiece{}, 0, 0, err
	}

	piece := s.engine.Spawn(engine.PieceKind(kind))
	if start != "" {
		sk, sr, sx, err := placekey.Decode(start)
		if err != nil {
			return engine.ActivePiece{}, 0, 0, err
		}
		if sk != kind {
			return engine.ActivePiece{}, 0, 0, fmt.Errorf("start piece does not match target piece")
		}
		piece.Rotation = engine.Rotation(sr)
		piece.X = sx
	}
	return piece, x, engine.Rotation(rot), nil
}

// handleOptimal handles the optimal command.
// Response: "<min> <seq> | <seq> | ..." or "unreachable".
func (s *Server) handleOptimal(args []string) string {
	if len(args) < 1 {
		return "Error: optimal requires a placement key\n"
	}
	start := ""
	if len(args) > 1 {
		start = args[1]
	}

	piece, targetX, targetRot, err := s.resolveQuery(args[0], start)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	seqs := s.engine.CalculateOptimal(piece, targetX, targetRot)
	if len(seqs) == 0 {
		return "unreachable\n"
	}

	lines := make([]string, len(seqs))
	for i, seq := range seqs {
		codes := make([]string, len(seq))
		for j, a := range seq {
			codes[j] = a.Code()
		}
		lines[i] = strings.Join(codes, " ")
	}
	return fmt.Sprintf("%d %s\n", engine.MinSequenceLength(seqs), strings.Join(lines, " | "))
}

// handleEvaluate handles the evaluate command.
// Response: "optimal 0 Clean" or "suboptimal <faults> <grade>".
func (s *Server) handleEvaluate(args []string) string {
	if len(args) < 2 {
		return "Error: evaluate requires a placement key and at least one event\n"
	}

	piece, targetX, targetRot, err := s.resolveQuery(args[0], "")
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	events := make([]engine.InputEvent, 0, len(args)-1)
	for _, tok := range args[1:] {
		ev, err := replay.ParseEvent(tok)
		if err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		events = append(events, ev)
	}

	s.mu.Lock()
	window := s.options.CancelWindow
	s.mu.Unlock()
	if window == 0 {
		window = s.engine.Config().CancelWindow
	}

	optimal := s.engine.CalculateOptimal(piece, targetX, targetRot)
	if len(optimal) == 0 {
		return "unreachable\n"
	}

	analysis := engine.AnalyzePlacement(events, optimal, window)
	verdict := "suboptimal"
	if analysis.Verdict.IsOptimal {
		verdict = "optimal"
	}
	return fmt.Sprintf("%s %d %s\n", verdict, analysis.Verdict.FaultCount, analysis.Grade)
}

// handleDrills handles the drills command.
// Response: one placement key per line, terminated by ".".
func (s *Server) handleDrills(args []string) string {
	count := 10
	var seed int64
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 || n > 100 {
			return "Error: count must be 1-100\n"
		}
		count = n
	}
	if len(args) > 1 {
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return "Error: invalid seed\n"
		}
		seed = n
	}

	drills, err := trainer.GenerateDrills(s.engine, trainer.DrillOptions{Count: count, Seed: seed})
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	var b strings.Builder
	for _, d := range drills {
		b.WriteString(d.Key)
		b.WriteByte('\n')
	}
	b.WriteString(".\n")
	return b.String()
}
