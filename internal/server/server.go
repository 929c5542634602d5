package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/arrayd-io/arrayd/internal/config"
	"github.com/arrayd-io/arrayd/internal/parallel"
	"github.com/arrayd-io/arrayd/internal/symtab"
)

// Server is the arrayd HTTP server: one command endpoint over the symbol
// table, with bulk payloads riding the same envelope.
type Server struct {
	cfg     config.Config
	table   *symtab.Table
	handler *Handler
	log     *slog.Logger
}

// New creates a server from a configuration and a logger.
func New(cfg config.Config, log *slog.Logger) *Server {
	table := symtab.New()
	return &Server{
		cfg:   cfg,
		table: table,
		handler: NewHandler(table, laneConfig(cfg.Parallel),
			cfg.Transfer.CompressThreshold, log),
		log: log,
	}
}

// laneConfig overlays the configured parallelism on the CPU-derived
// defaults.
func laneConfig(pc config.ParallelConfig) parallel.Config {
	cfg := parallel.DefaultConfig()
	cfg.Enabled = pc.Enabled
	if pc.NumWorkers > 0 {
		cfg.NumWorkers = pc.NumWorkers
	}
	if pc.MinChunkSize > 0 {
		cfg.MinChunkSize = pc.MinChunkSize
	}
	return cfg
}

// Table exposes the symbol table, mainly to tests and embedders.
func (s *Server) Table() *symtab.Table {
	return s.table
}

// Handler exposes the command handler, mainly to tests and embedders.
func (s *Server) Handler() *Handler {
	return s.handler
}

// Start serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/cmd", methodHandler(http.MethodPost, s.handleCmd))
	mux.HandleFunc("/ping", methodHandler(http.MethodGet, s.handlePing))

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	s.log.Info("arrayd server listening", "addr", s.cfg.Addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleCmd decodes a request envelope, executes it, and writes the
// reply envelope.
func (s *Server) handleCmd(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReply(w, errorReply(fmt.Errorf("bad request envelope: %v", err)))
		return
	}
	writeReply(w, s.handler.Execute(req))
}

// handlePing responds for health checks.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Ok.")
}

// methodHandler restricts a handler to a single HTTP method, matching the
// behavior of Go 1.22+ ServeMux method-specific patterns (e.g. "POST /cmd")
// on the older mux this module's toolchain is pinned to.
func methodHandler(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}
}

func writeReply(w http.ResponseWriter, reply Reply) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}
