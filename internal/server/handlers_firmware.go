package server

import (
	"io"
	"net/http"

	"hubportal/internal/firmware"
)

// maxUploadBytes bounds firmware uploads. Full device images are ~1 MiB;
// 32 MiB leaves generous headroom for install archives.
const maxUploadBytes = 32 << 20

type flashResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Output  string `json:"output,omitempty"`
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return "", nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing upload field "+field)
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read upload")
		return "", nil, false
	}
	return header.Filename, data, true
}

func (s *Server) writeFlashResult(w http.ResponseWriter, result firmware.Result, err error) {
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, flashResponse{
		Success: result.Succeeded,
		Message: result.Message,
		Output:  result.Output,
	})
}

func (s *Server) handleFirmwareInstall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filename, data, ok := s.readUpload(w, r, "firmware")
	if !ok {
		return
	}
	result, err := s.flasher.InstallFromArchive(r.Context(), filename, data)
	s.writeFlashResult(w, result, err)
}

func (s *Server) handleFirmwareInstallStable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.flasher.InstallFromRemote(r.Context())
	s.writeFlashResult(w, result, err)
}

func (s *Server) handleRestoreInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Use the official vendor app or download page to restore or update firmware.",
		"restore_url": "https://education.lego.com/en-us/product-resources/spike-prime/downloads/",
		"note":        "The vendor does not publish a standalone firmware archive for manual flashing.",
	})
}

func (s *Server) handleRestoreUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filename, data, ok := s.readUpload(w, r, "backup")
	if !ok {
		return
	}
	result, err := s.flasher.RestoreFromUpload(r.Context(), filename, data)
	s.writeFlashResult(w, result, err)
}

func (s *Server) handleRestoreBundled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.flasher.RestoreFromBundled(r.Context())
	s.writeFlashResult(w, result, err)
}

func (s *Server) handleRestoreRemote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.flasher.RestoreFromRemote(r.Context())
	s.writeFlashResult(w, result, err)
}
