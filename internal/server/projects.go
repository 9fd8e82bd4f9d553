package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/project"

	"github.com/go-chi/chi/v5"
)

func characterIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", project.ErrCharacterIndex, raw)
	}
	return i, nil
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.Projects.Create(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProjectPatch
	if err := decode(r, &patch); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.Projects.UpdateDetails(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

func (s *Server) handleAddCharacter(w http.ResponseWriter, r *http.Request) {
	p, err := s.Projects.AddCharacter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	index, err := characterIndex(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var patch domain.CharacterPatch
	if err := decode(r, &patch); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.Projects.UpdateCharacter(r.Context(), chi.URLParam(r, "id"), index, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

func (s *Server) handleRemoveCharacter(w http.ResponseWriter, r *http.Request) {
	index, err := characterIndex(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.Projects.RemoveCharacter(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}
