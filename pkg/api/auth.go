package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/finesse/internal/history"
)

// tokenTTL is how long issued tokens stay valid.
const tokenTTL = 24 * time.Hour

type contextKey string

const playerKey contextKey = "player"

// authPlayer is the authenticated identity stored in the request context.
type authPlayer struct {
	ID   int64
	Name string
}

// Register handles POST /api/register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "history store disabled", "NO_STORE")
		return
	}

	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "name and a password of at least 6 characters are required", "INVALID_CREDENTIALS")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hashing failed", "HASH_ERROR")
		return
	}

	id, err := h.store.CreatePlayer(r.Context(), req.Name, string(hash))
	if err != nil {
		writeError(w, http.StatusConflict, "name already taken", "NAME_TAKEN")
		return
	}

	token, err := h.issueToken(id, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issue failed", "TOKEN_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, Player: req.Name})
}

// Login handles POST /api/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "history store disabled", "NO_STORE")
		return
	}

	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	player, err := h.store.PlayerByName(r.Context(), strings.TrimSpace(req.Name))
	if errors.Is(err, history.ErrPlayerNotFound) {
		writeError(w, http.StatusUnauthorized, "bad credentials", "BAD_CREDENTIALS")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "lookup failed", "STORE_ERROR")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(player.PassHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "bad credentials", "BAD_CREDENTIALS")
		return
	}

	token, err := h.issueToken(player.ID, player.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issue failed", "TOKEN_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, Player: player.Name})
}

// issueToken signs an HS256 token for the player.
func (h *Handlers) issueToken(id int64, name string) (string, error) {
	if len(h.jwtSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(id, 10),
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

// requireAuth wraps a handler with bearer-token authentication.
func (h *Handlers) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token", "NO_TOKEN")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return h.jwtSecret, nil
			})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token", "BAD_TOKEN")
			return
		}

		sub, _ := claims["sub"].(string)
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token subject", "BAD_TOKEN")
			return
		}
		name, _ := claims["name"].(string)

		ctx := context.WithValue(r.Context(), playerKey, authPlayer{ID: id, Name: name})
		next(w, r.WithContext(ctx))
	}
}

// playerFromContext returns the authenticated player, if any.
func playerFromContext(ctx context.Context) (authPlayer, bool) {
	p, ok := ctx.Value(playerKey).(authPlayer)
	return p, ok
}

// MySessions handles GET /api/me/sessions
func (h *Handlers) MySessions(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromContext(r.Context())
	if !ok || h.store == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated", "NO_AUTH")
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	sessions, err := h.store.RecentSessions(r.Context(), player.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed", "STORE_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, SessionsResponse{Sessions: sessions})
}

// RecordMySession handles POST /api/me/sessions
func (h *Handlers) RecordMySession(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFromContext(r.Context())
	if !ok || h.store == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated", "NO_AUTH")
		return
	}

	var req RecordSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Placed <= 0 || req.OptimalCount < 0 || req.OptimalCount > req.Placed {
		writeError(w, http.StatusBadRequest, "inconsistent session counts", "INVALID_SESSION")
		return
	}

	id, err := h.store.RecordSession(r.Context(), &history.SessionRecord{
		PlayerID:       player.ID,
		Mode:           req.Mode,
		Placed:         req.Placed,
		OptimalCount:   req.OptimalCount,
		TotalFaults:    req.TotalFaults,
		Accuracy:       req.Accuracy,
		FaultsPerPiece: req.FaultsPerPiece,
		Rating:         req.Rating,
		DurationMs:     req.DurationMs,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "insert failed", "STORE_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Leaderboard handles GET /api/leaderboard?days=&limit=
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "history store disabled", "NO_STORE")
		return
	}

	query := r.URL.Query()
	days := 7
	if s := query.Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	limit := 20
	if s := query.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.store.Leaderboard(r.Context(), days, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed", "STORE_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Days: days, Entries: entries})
}
