package server

import (
	"net/http"

	"github.com/shouni/go-amazebook-kit/internal/route"
	"github.com/shouni/go-amazebook-kit/pkg/payment"
)

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	d := route.Resolve(r.URL.Query().Get("hash"), s.currentUser(r), s.Auth.Flags())
	JSON(w, http.StatusOK, d)
}

func (s *Server) handlePricing(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, payment.Plans())
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	list, err := s.Examples.ListExamples(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeSettings(w, r)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decode(r, &values); err != nil {
		fail(w, r, err)
		return
	}
	if err := s.Settings.SaveAll(r.Context(), values); err != nil {
		fail(w, r, err)
		return
	}
	s.writeSettings(w, r)
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.Settings.Reset(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	s.writeSettings(w, r)
}

func (s *Server) writeSettings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Settings.Snapshot(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, entries)
}
