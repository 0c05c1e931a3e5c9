package server

import (
	"encoding/json"
	"net/http"

	"hubportal/internal/programs"
)

func (s *Server) decodeDraft(w http.ResponseWriter, r *http.Request) (programs.Draft, bool) {
	var draft programs.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return draft, false
	}
	return draft, true
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listed, err := s.store.List(r.Context())
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"programs": listed})
	case http.MethodPost:
		draft, ok := s.decodeDraft(w, r)
		if !ok {
			return
		}
		created, err := s.store.Create(r.Context(), draft)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, created)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleProgramItem(w http.ResponseWriter, r *http.Request) {
	id, ok := trimPathID(r.URL.Path, "/api/programs/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "program not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		program, err := s.store.Get(r.Context(), id)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, program)
	case http.MethodPut:
		draft, ok := s.decodeDraft(w, r)
		if !ok {
			return
		}
		updated, err := s.store.Update(r.Context(), id, draft)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.store.Delete(r.Context(), id); err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
