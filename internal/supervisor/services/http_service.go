// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
)

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server under suture.
//
// Serve binds the listener itself so that the bound address is known even
// for ":0", then blocks until the server fails or ctx is canceled, in which
// case the server is shut down within the configured timeout.
//
//	server := &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}
//	tree.AddHTTPService(services.NewHTTPServerService(":9090", server, 10*time.Second))
type HTTPServerService struct {
	addr            string
	server          HTTPServer
	shutdownTimeout time.Duration
	bound           atomic.Pointer[string]
	logger          zerolog.Logger
}

// NewHTTPServerService creates the service. A non-positive shutdownTimeout
// becomes 10s.
func NewHTTPServerService(addr string, server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		addr:            addr,
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logging.With().Str("service", "metrics-http").Logger(),
	}
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.addr)
	if err != nil {
		return fmt.Errorf("http server listen on %s: %w", h.addr, err)
	}
	addr := ln.Addr().String()
	h.bound.Store(&addr)
	h.logger.Info().Str("addr", addr).Msg("http server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		h.logger.Info().Str("addr", addr).Msg("http server stopped")
		return ctx.Err()
	}
}

// Addr returns the bound address once Serve is listening, or "".
func (h *HTTPServerService) Addr() string {
	if p := h.bound.Load(); p != nil {
		return *p
	}
	return ""
}

func (h *HTTPServerService) String() string {
	return "metrics-http"
}
