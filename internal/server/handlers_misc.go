package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hubportal/internal/assist"
	"hubportal/internal/deps"
	"hubportal/internal/examples"
	"hubportal/internal/mailer"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"version":      Version,
		"dependencies": deps.CheckBinaries(deps.Toolchain(s.cfg)),
		"device":       s.monitor.Status(),
		"assist":       s.assist.Status(),
		"email":        map[string]bool{"configured": s.mailer.Enabled()},
		"relay":        map[string]int{"clients": s.relay.ClientCount()},
	})
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"examples": examples.List()})
}

func (s *Server) handleExampleItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := trimPathID(r.URL.Path, "/api/examples/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "example not found")
		return
	}
	example, err := examples.Get(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, example)
}

func (s *Server) handleAssistStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.assist.Status())
}

func (s *Server) handleAssistChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if ok, wait := s.assist.Limiter().Allow(clientKey(r)); !ok {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(wait.Seconds())+1))
		s.writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("assist is cooling down; retry in %s", wait.Round(time.Second)))
		return
	}

	var req assist.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	resp, err := s.assist.Chat(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEmailShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Recipient   string `json:"recipient"`
		ProgramName string `json:"program_name"`
		Code        string `json:"code"`
		SenderName  string `json:"sender_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	share := mailer.Share{
		Recipient:   req.Recipient,
		ProgramName: req.ProgramName,
		Code:        req.Code,
		SenderName:  req.SenderName,
	}
	if err := s.mailer.ShareProgram(r.Context(), share); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Program sent to " + share.Recipient,
	})
}

func (s *Server) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.monitor.Status())
}
