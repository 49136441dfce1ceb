package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Roelanb/organize/internal/actions"
	"github.com/Roelanb/organize/internal/rules"
	"github.com/Roelanb/organize/internal/store"
)

type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// Control is the daemon surface the API exposes.
type Control interface {
	// Rules returns all persisted rules, enabled or not.
	Rules() ([]rules.Rule, error)
	// SaveRule validates and persists a rule document.
	SaveRule(ctx context.Context, raw []byte) error
	// DeleteRule removes a rule by id.
	DeleteRule(ctx context.Context, id string) error
	// Runs returns the most recent run records, newest first.
	Runs(limit int) ([]store.Run, error)
	// Preview dry-runs a file against the enabled rules.
	Preview(ctx context.Context, path string) (*rules.Rule, []actions.ActionResult, error)
	// Reload re-reads rules from the store and restarts folder watchers.
	Reload(ctx context.Context) error
}

type Server struct {
	log   Logger
	ctrl  Control
	mux   *http.ServeMux
	srv   *http.Server
	addr  string
	ln    net.Listener
	mu    sync.Mutex
	start bool
}

func New(log Logger, ctrl Control, addr string) *Server {
	mux := http.NewServeMux()
	s := &Server{
		log:  log,
		ctrl: ctrl,
		mux:  mux,
		addr: addr,
	}
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rules", s.handleRules)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/preview", s.handlePreview)
	mux.HandleFunc("/reload", s.handleReload)
	s.mountUI()
	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.log.Infow("api server listening", "addr", s.addr)
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("api server error", "error", err)
		}
	}()
	s.start = true
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	s.start = false
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok"})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.ctrl.Rules()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []rules.Rule{}
		}
		writeJSON(w, list)
	case http.MethodPost:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := s.ctrl.SaveRule(ctx, raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id query parameter required", http.StatusBadRequest)
			return
		}
		if err := s.ctrl.DeleteRule(r.Context(), id); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	runs, err := s.ctrl.Runs(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, runs)
}

type previewRequest struct {
	Path string `json:"path"`
}

type previewResponse struct {
	Rule    *rules.Rule            `json:"rule"`
	Results []actions.ActionResult `json:"results,omitempty"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	rule, results, err := s.ctrl.Preview(r.Context(), req.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, previewResponse{Rule: rule, Results: results})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := s.ctrl.Reload(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
