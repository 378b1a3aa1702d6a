// Package server runs an http.Handler on an ephemeral loopback port.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server serves a handler on 127.0.0.1 until stopped
type Server struct {
	listener net.Listener
	server   *http.Server
}

// Start finds a free loopback port and serves h on it in the background
func Start(h http.Handler) (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to find port: %w", err)
	}

	srv := &Server{
		listener: listener,
		server: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	go srv.server.Serve(listener) //nolint:errcheck // returns ErrServerClosed on Stop

	return srv, nil
}

// URL returns the absolute URL of a path on the server
func (s *Server) URL(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return fmt.Sprintf("http://%s%s", s.listener.Addr().String(), path)
}

// Stop shuts down the server
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
}
