package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandeepkv93/countdown/internal/commands"
)

const (
	CodeNotFound    = "not_found"
	CodeUnavailable = "unavailable"
)

var ErrUnavailable = errors.New("control: ui did not answer")

// Server exposes the running instance over HTTP. Every request is handed to
// the UI loop through the Sender and answered from there.
type Server struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
	srv     *http.Server
	ln      net.Listener
}

func NewServer(addr string, sender Sender, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{sender: sender, logger: logger, timeout: 5 * time.Second}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/timers", s.listTimers)
		r.With(middleware.AllowContentType("application/json")).Post("/commands", s.runCommand)
	})
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("control: listen %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control server stopped", "error", err)
		}
	}()
	s.logger.Info("control server listening", "addr", ln.Addr().String())
	return nil
}

func (s *Server) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return s.srv.Close()
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTimers(w http.ResponseWriter, r *http.Request) {
	ch := make(chan []TimerInfo, 1)
	s.sender.Send(ListRequest{Reply: ch})

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	select {
	case timers := <-ch:
		if timers == nil {
			timers = []TimerInfo{}
		}
		writeJSON(w, http.StatusOK, timers)
	case <-ctx.Done():
		s.logger.Warn("list timers timed out")
		writeJSON(w, http.StatusServiceUnavailable, Reply{Code: CodeUnavailable, Error: ErrUnavailable.Error()})
	}
}

func (s *Server) runCommand(w http.ResponseWriter, r *http.Request) {
	var body CommandBody
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Reply{Code: string(commands.ErrCodeInvalidArgument), Error: "invalid request payload: " + err.Error()})
		return
	}
	if strings.TrimSpace(body.Command) == "" {
		writeJSON(w, http.StatusBadRequest, Reply{Code: string(commands.ErrCodeEmptyInput), Error: "command is required"})
		return
	}

	ch := make(chan Reply, 1)
	s.sender.Send(CommandRequest{Command: body.Command, Target: body.Target, Reply: ch})

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	select {
	case reply := <-ch:
		s.logger.Info("control command", "command", body.Command, "target", body.Target, "code", reply.Code)
		writeJSON(w, statusFor(reply), reply)
	case <-ctx.Done():
		s.logger.Warn("control command timed out", "command", body.Command)
		writeJSON(w, http.StatusServiceUnavailable, Reply{Code: CodeUnavailable, Error: ErrUnavailable.Error()})
	}
}

func statusFor(reply Reply) int {
	if reply.Error == "" {
		return http.StatusOK
	}
	switch reply.Code {
	case string(commands.ErrCodeEmptyInput), string(commands.ErrCodeUnknownCommand), string(commands.ErrCodeInvalidArgument):
		return http.StatusBadRequest
	case string(commands.ErrCodeLocked):
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case string(commands.ErrCodeHandlerMissing):
		return http.StatusNotImplemented
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
