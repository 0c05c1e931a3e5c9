package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type sourceRequest struct {
	SourceCode string `json:"source_code"`
	Filename   string `json:"filename"`
}

type syntaxResponse struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

type compileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Size    int64  `json:"size,omitempty"`
}

func (s *Server) decodeSource(w http.ResponseWriter, r *http.Request) (sourceRequest, bool) {
	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	return req, true
}

func (s *Server) handleSyntaxCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := s.decodeSource(w, r)
	if !ok {
		return
	}

	result := s.compiler.CheckSyntax(req.SourceCode)
	s.writeJSON(w, http.StatusOK, syntaxResponse{
		Valid:  result.Valid,
		Error:  result.Error,
		Line:   result.Line,
		Column: result.Column,
	})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := s.decodeSource(w, r)
	if !ok {
		return
	}

	result, err := s.compiler.Compile(r.Context(), req.SourceCode, req.Filename)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, compileResponse{
		Success: result.Succeeded,
		Message: result.Message,
		Size:    result.Size,
	})
}

func (s *Server) handleCompileDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := s.decodeSource(w, r)
	if !ok {
		return
	}

	artifact, err := s.compiler.Retrieve(r.Context(), req.SourceCode, req.Filename)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}
