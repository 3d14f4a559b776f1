// Package web serves a read-only JSON view of the catalog.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/util"
)

// Server exposes the catalog over HTTP. It never writes to the store.
type Server struct {
	store *catalog.Store
	addr  string
}

func NewServer(store *catalog.Store, addr string) *Server {
	return &Server{store: store, addr: addr}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/libraries", s.getLibraries)
	r.Get("/api/artists", s.getArtists)
	r.Get("/api/artists/{id}", s.getArtist)
	r.Get("/api/albums", s.getAlbums)
	r.Get("/api/albums/{id}", s.getAlbum)
	r.Get("/api/search", s.getSearch)
	r.Get("/api/images/{id}", s.getImage)
	return r
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	errs := make(chan error, 1)
	go func() {
		util.InfoLog("Web browser listening on %s", s.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errs:
		return err
	}
}

// view runs fn in a rolled-back read-only session.
func (s *Server) view(fn func(*catalog.Session) error) error {
	sess, err := s.store.Begin()
	if err != nil {
		return err
	}
	defer sess.Rollback()
	return fn(sess)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		util.ErrorLog("Failed to encode response: %v", err)
	}
}
