package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"hubportal/internal/firmware"
	"hubportal/internal/logging"
	"hubportal/internal/services"
)

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
	Output   string `json:"output,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeFailure maps a service error onto HTTP status and body. Classified
// flash failures keep their category and raw output so the frontend can
// render remediation next to the tool transcript.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var classified *firmware.ClassifiedError
	if errors.As(err, &classified) {
		s.writeJSON(w, statusForCategory(classified.Category), errorResponse{
			Error:    classified.Message,
			Category: string(classified.Category),
			Output:   classified.Output,
		})
		return
	}
	s.writeError(w, statusForError(err), services.Message(err))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrToolMissing):
		return http.StatusNotImplemented
	case errors.Is(err, services.ErrTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statusForCategory(category firmware.Category) int {
	switch category {
	case firmware.CategoryDeviceNotFound:
		return http.StatusBadRequest
	case firmware.CategoryPrerequisitesMissing, firmware.CategoryToolNotInstalled:
		return http.StatusNotImplemented
	case firmware.CategoryPermissionDenied:
		return http.StatusForbidden
	case firmware.CategoryTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
