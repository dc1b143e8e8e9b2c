package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/access/types"
)

const defaultHistoryLimit = 50

type Dependencies struct {
	Logger        *log.Logger
	Addr          string
	AccessService *service.AccessService

	// HistoryLimit caps GET /history when the client doesn't pass ?limit=.
	// Defaults to 50.
	HistoryLimit int
}

type Server struct {
	httpServer   *http.Server
	logger       *log.Logger
	mux          *http.ServeMux
	access       *service.AccessService
	historyLimit int
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	historyLimit := d.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	s := &Server{
		logger:       d.Logger,
		mux:          mux,
		access:       d.AccessService,
		historyLimit: historyLimit,
	}

	s.route("POST /users", "/users", s.handleCreateUser)
	s.route("GET /users/{card_id}", "/users/{card_id}", s.handleGetUser)
	s.route("POST /scan", "/scan", s.handleScan)
	s.route("GET /history", "/history", s.handleHistory)
	s.route("GET /{$}", "/", s.handleRoot)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := requestIDMiddleware(loggingMiddleware(d.Logger, mux))

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) route(pattern, metricsPath string, h http.HandlerFunc) {
	s.mux.Handle(pattern, instrument(metricsPath, h))
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	u, err := s.access.Register(r.Context(), req.CardID, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCardID):
			writeError(w, http.StatusBadRequest, "invalid_card_id", err.Error())
		case errors.Is(err, service.ErrInvalidName):
			writeError(w, http.StatusBadRequest, "invalid_full_name", err.Error())
		case errors.Is(err, service.ErrCardRegistered):
			writeError(w, http.StatusBadRequest, "card_registered", "Card ID already registered")
		default:
			s.logger.Printf("create user error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.access.GetUser(r.Context(), r.PathValue("card_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCard), errors.Is(err, service.ErrInvalidCardID):
			writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		default:
			s.logger.Printf("get user error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req types.ScanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	entry, err := s.access.Scan(r.Context(), req.CardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCardID):
			writeError(w, http.StatusBadRequest, "invalid_card_id", err.Error())
		case errors.Is(err, service.ErrUnknownCard):
			writeError(w, http.StatusNotFound, "unknown_card", "Card ID not recognized. Please register first.")
		default:
			s.logger.Printf("scan error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := s.historyLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		if n > 0 {
			limit = n
		}
	}

	logs, err := s.access.History(r.Context(), q.Get("card_id"), limit)
	if err != nil {
		s.logger.Printf("history error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if logs == nil {
		logs = []types.LogEntry{}
	}

	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Card Access System API",
	})
}
