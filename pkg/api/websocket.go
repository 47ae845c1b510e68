package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/finesse/pkg/engine"
	"github.com/yourusername/finesse/pkg/replay"
	"github.com/yourusername/finesse/pkg/trainer"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "optimal", "evaluate", "drill", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSDrillRequest is the payload for drill generation over the socket.
type WSDrillRequest struct {
	Count    int    `json:"count,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
	Category string `json:"category,omitempty"`
	Pieces   string `json:"pieces,omitempty"` // Comma-separated kinds, e.g. "T,I"
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for interactive training clients.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "optimal":
		c.handleOptimal(msg)
	case "evaluate":
		c.handleEvaluate(msg)
	case "drill":
		c.handleDrill(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *WSClient) handleOptimal(msg WSMessage) {
	var req OptimalRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	piece, targetX, targetRot, err := c.handlers.parseQuery(req.Target, req.Start)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	seqs := c.handlers.engine.CalculateOptimal(piece, targetX, targetRot)
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: OptimalResponse{
		Target:    strings.ToUpper(req.Target),
		MinInputs: engine.MinSequenceLength(seqs),
		Sequences: sequenceTokens(seqs),
	}}
}

func (c *WSClient) handleEvaluate(msg WSMessage) {
	var req EvaluateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	piece, targetX, targetRot, err := c.handlers.parseQuery(req.Target, "")
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}

	events := make([]engine.InputEvent, 0, len(req.Events))
	for _, tok := range req.Events {
		ev, err := replay.ParseEvent(tok)
		if err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
			return
		}
		events = append(events, ev)
	}

	window := c.handlers.engine.Config().CancelWindow
	if req.CancelWindowMs > 0 {
		window = time.Duration(req.CancelWindowMs) * time.Millisecond
	}

	optimal := c.handlers.engine.CalculateOptimal(piece, targetX, targetRot)
	analysis := engine.AnalyzePlacement(events, optimal, window)
	normalized := make([]string, len(analysis.Normalized))
	for i, a := range analysis.Normalized {
		normalized[i] = a.Code()
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: EvaluateResponse{
		Target:     strings.ToUpper(req.Target),
		Normalized: normalized,
		OptimalLen: engine.MinSequenceLength(optimal),
		IsOptimal:  analysis.Verdict.IsOptimal,
		FaultCount: analysis.Verdict.FaultCount,
		Grade:      analysis.Grade.String(),
		Optimal:    sequenceTokens(optimal),
	}}
}

func (c *WSClient) handleDrill(msg WSMessage) {
	var req WSDrillRequest
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
			return
		}
	}

	opts := trainer.DrillOptions{Count: req.Count, Seed: req.Seed}
	if opts.Count <= 0 {
		opts.Count = 10
	}
	if req.Category != "" {
		cat, err := parseCategory(req.Category)
		if err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
			return
		}
		opts.Categories = []engine.DrillCategory{cat}
	}
	if req.Pieces != "" {
		for _, part := range strings.Split(req.Pieces, ",") {
			kind, err := engine.ParsePieceKind(strings.TrimSpace(part))
			if err != nil {
				c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
				return
			}
			opts.Pieces = append(opts.Pieces, kind)
		}
	}

	drills, err := trainer.GenerateDrills(c.handlers.engine, opts)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: DrillsResponse{Seed: opts.Seed, Drills: drills}}
}
