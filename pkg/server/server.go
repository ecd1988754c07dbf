/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/compiler"
	"github.com/dburkart/ninecc/pkg/vm"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultPort = 8080

	// MaxInputBytes bounds the size of a request body
	MaxInputBytes = 64 * 1024

	RequestIDHeader = "X-Request-Id"
)

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore
	totals  *Totals

	port    int
	codegen []codegen.Option
	expose  bool
}

type Option func(*Server)

func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithMetricsEndpoint controls whether /metrics is served. Metrics are
// still collected when it is off.
func WithMetricsEndpoint(enabled bool) Option {
	return func(s *Server) {
		s.expose = enabled
	}
}

func WithCodegenOptions(opts ...codegen.Option) Option {
	return func(s *Server) {
		s.codegen = append(s.codegen, opts...)
	}
}

func New(log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		log:     log,
		metrics: NewMetricsStore(),
		totals:  &Totals{},
		port:    DefaultPort,
		expose:  true,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.metrics.RegisterCollector(NewTotalsCollector(s.totals))

	return s
}

func (s *Server) Metrics() MetricsStore {
	return s.metrics
}

// Handler returns the routes of the service, with request IDs assigned.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/compile", s.handleCompile)
	mux.HandleFunc("/run", s.handleRun)
	if s.expose {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	return s.withRequestID(mux)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("error shutting down")
		}
	}()

	s.log.Info().Int("port", s.port).Msg("listening for compile requests")

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "error listening and serving")
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		log := s.log.With().Str("request_id", id).Str("path", r.URL.Path).Logger()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}

// readExpression pulls the expression out of a POST body.
func readExpression(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxInputBytes))
	if err != nil {
		http.Error(w, "unable to read expression", http.StatusRequestEntityTooLarge)
		return "", false
	}

	return strings.TrimRight(string(body), "\r\n"), true
}

func (s *Server) compile(endpoint string, w http.ResponseWriter, r *http.Request) (string, bool) {
	log := zerolog.Ctx(r.Context())

	input, ok := readExpression(w, r)
	if !ok {
		return "", false
	}

	t := time.Now()
	asm, stats, err := compiler.CompileString(input, s.codegen...)
	s.metrics.ObserveCompileNS(endpoint, time.Since(t).Nanoseconds())

	if err != nil {
		perr, ok := parse.AsError(err)
		if !ok {
			s.metrics.IncCompilations(endpoint, ResultInternal)
			log.Error().Err(err).Msg("compile failed")
			writeJSON(w, r, http.StatusInternalServerError, GenericErrResponse("InternalError", err))
			return "", false
		}

		s.metrics.IncCompilations(endpoint, ResultSyntaxError)
		log.Debug().Str("input", input).Int("offset", perr.Offset()).Msg(perr.Message)
		writeJSON(w, r, http.StatusUnprocessableEntity, SyntaxErrResponse(perr, input))
		return "", false
	}

	s.totals.Add(stats)
	s.metrics.ObserveOutputBytes(stats.Bytes)
	log.Debug().
		Str("input", input).
		Str("size", humanize.Bytes(uint64(stats.Bytes))).
		Int("instructions", stats.Instructions).
		Msg("compiled")

	return asm, true
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	asm, ok := s.compile("compile", w, r)
	if !ok {
		return
	}
	s.metrics.IncCompilations("compile", ResultOk)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, asm); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unable to write response")
	}
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	asm, ok := s.compile("run", w, r)
	if !ok {
		return
	}

	v, err := vm.Execute(asm)
	if err != nil {
		s.metrics.IncCompilations("run", ResultRunError)
		writeJSON(w, r, http.StatusUnprocessableEntity, GenericErrResponse("RuntimeError", err))
		return
	}
	s.metrics.IncCompilations("run", ResultOk)

	writeJSON(w, r, http.StatusOK, RunResponse{Value: v, Status: vm.ExitStatus(v), Assembly: asm})
}
