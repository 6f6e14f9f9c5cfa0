package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/scores"
)

// HeaderContentType is used to set the document type header on http responses.
const HeaderContentType = "Content-Type"

// defaultLeaderboardSize is the number of leaderboard rows returned when no limit is requested.
const defaultLeaderboardSize = 10

// handler builds the route table.
func (s *Server) handler() http.Handler {
	m := mux.NewRouter()
	m.HandleFunc("/health", s.handleHealth).Methods("GET")
	m.HandleFunc("/api/leaderboard", s.handleLeaderboard).Methods("GET")
	m.HandleFunc("/api/stats", s.handleStats).Methods("GET")
	m.HandleFunc("/ws/{lobby_id}/{player_id}", s.handleWebsocket).Methods("GET")
	if s.Monitor {
		m.HandleFunc("/api/monitor", s.handleMonitor).Methods("GET")
	}
	m.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	m.Use(s.corsMiddleware)
	return m
}

// corsMiddleware adds CORS headers to every response and short-circuits preflight requests.
func (s *Server) corsMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", HeaderContentType)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// handleHealth reports that the server is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleLeaderboard writes the top high-score records.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := defaultLeaderboardSize
	if v := r.URL.Query().Get("limit"); len(v) != 0 {
		i, err := strconv.Atoi(v)
		if err != nil || i <= 0 {
			httpError(w, http.StatusBadRequest)
			return
		}
		n = i
	}
	records, err := s.scores.Leaderboard(r.Context(), n)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	if records == nil {
		records = []scores.Record{}
	}
	s.writeJSON(w, records)
}

// handleStats writes the caller's own high-score standing, keyed by remote address.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.scores.Stats(r.Context(), clientAddr(r))
	switch {
	case errors.Is(err, scores.ErrNotFound):
		httpError(w, http.StatusNotFound)
	case err != nil:
		s.writeInternalError(w, err)
	default:
		s.writeJSON(w, stats)
	}
}

// handleWebsocket joins the request's connection to a lobby.
// Rejections after the upgrade arrive as websocket close frames, so errors are only logged here.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lobbyID := game.LobbyID(vars["lobby_id"])
	playerID := game.PlayerID(vars["player_id"])
	q := r.URL.Query()
	username := q.Get("username")
	if len(username) == 0 {
		httpError(w, http.StatusBadRequest)
		return
	}
	join := message.JoinData{
		Username:  username,
		Character: q.Get("character"),
		Addr:      clientAddr(r),
	}
	create := q.Get("mode") == "create"
	if err := s.lobby.AddPlayer(w, r, lobbyID, playerID, join, create); err != nil {
		s.log.Printf("adding player %v to lobby %v: %v", playerID, lobbyID, err)
	}
}

// clientAddr resolves the caller's address, preferring proxy headers over the peer address.
// Only the first hop of X-Forwarded-For counts.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); len(xff) != 0 {
		if i := strings.Index(xff, ","); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-Ip"); len(rip) != 0 {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeJSON writes v as a json response.
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set(HeaderContentType, "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("server error: writing json response: %v", err)
	}
}

// writeInternalError logs and writes the error as an internal server error (500).
func (s *Server) writeInternalError(w http.ResponseWriter, err error) {
	s.log.Printf("server error: %v", err)
	httpError(w, http.StatusInternalServerError)
}

// httpError writes the error status code.
func httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}
