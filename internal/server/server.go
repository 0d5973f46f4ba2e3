// Package server exposes thin HTTP routes that proxy speech and payment
// verification for browser clients, keeping vendor secrets server-side.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prepdeck/prepctl/internal/speech"
)

// maxUpload bounds transcription uploads; it matches the vendor's limit.
const maxUpload = 25 << 20

// Options configures a Server. Nil speech backends disable their routes.
type Options struct {
	Transcriber   speech.Transcriber
	Synthesizer   speech.Synthesizer
	PaymentSecret string
}

// Server holds the route handlers and their collaborators.
type Server struct {
	log  *zap.Logger
	opts Options
}

// New returns a Server. A nil logger is replaced with a no-op logger.
func New(log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log, opts: opts}
}

// Handler returns the routed handler with request-id and access logging.
// The middleware wraps the router itself so unmatched requests are covered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK\n"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	r.HandleFunc("/api/speech", s.handleSpeech).Methods(http.MethodPost)
	r.HandleFunc("/api/payments/verify", s.handleVerifyPayment).Methods(http.MethodPost)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})
	return requestID(s.accessLog(r))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
