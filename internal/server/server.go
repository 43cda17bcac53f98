// Package server exposes the reporter's HTTP surface: the chart page at /
// and the websocket push channel at /ws.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/san-kum/mdwatch/internal/hub"
)

type Server struct {
	addr string
	hub  *hub.Hub
	http *http.Server
}

func New(addr string, h *hub.Hub) *Server {
	s := &Server{addr: addr, hub: h}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can mount it
// on an httptest server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.hub.ServeWS(w, r)
	})
	return mux
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(chartPage))
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("server: listening on http://%s", s.addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}
