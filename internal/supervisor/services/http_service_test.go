// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

// stubServer blocks in Serve until Shutdown.
type stubServer struct {
	serveErr    error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	shutdowns   atomic.Int32
}

func newStubServer() *stubServer {
	return &stubServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (s *stubServer) Serve(l net.Listener) error {
	defer l.Close()
	s.started <- struct{}{}
	if s.serveErr != nil {
		return s.serveErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdowns.Add(1)
	close(s.stop)
	return s.shutdownErr
}

func waitStarted(t *testing.T, s *stubServer) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		if svc := NewHTTPServerService(":0", newStubServer(), timeout); svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v became %v, want 10s", timeout, svc.shutdownTimeout)
		}
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		server := newStubServer()
		svc := NewHTTPServerService("127.0.0.1:0", server, time.Second)
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		waitStarted(t, server)

		if svc.Addr() == "" || svc.Addr() == "127.0.0.1:0" {
			t.Errorf("Addr() = %q, want the bound port", svc.Addr())
		}
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if server.shutdowns.Load() != 1 {
			t.Errorf("Shutdown calls = %d", server.shutdowns.Load())
		}
	})

	t.Run("serve failure", func(t *testing.T) {
		want := errors.New("accept: too many open files")
		server := newStubServer()
		server.serveErr = want
		err := NewHTTPServerService("127.0.0.1:0", server, time.Second).Serve(context.Background())
		if !errors.Is(err, want) {
			t.Errorf("Serve() = %v, want %v", err, want)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		want := errors.New("shutdown deadline")
		server := newStubServer()
		server.shutdownErr = want
		svc := NewHTTPServerService("127.0.0.1:0", server, time.Second)
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		waitStarted(t, server)
		cancel()

		if err := <-errCh; !errors.Is(err, want) {
			t.Errorf("Serve() = %v, want %v", err, want)
		}
	})

	t.Run("listen failure", func(t *testing.T) {
		err := NewHTTPServerService("not-an-address", newStubServer(), time.Second).Serve(context.Background())
		if err == nil {
			t.Error("Serve() error = nil")
		}
	})
}

func TestHTTPServerService_RealServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	svc := NewHTTPServerService("127.0.0.1:0", &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, time.Second)

	sup := suture.New("test", suture.Spec{Timeout: 2 * time.Second})
	sup.Add(svc)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server never bound")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + svc.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}
