package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/logging"
	"github.com/andyalbarracin/condor-dashboard/internal/store"
)

// handleHealth reports service and store health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a multipart analytics export, parses it, and merges
// the result into the account snapshot. Parse failures come back with a
// 422 and a user-facing message; only store failures are a 500.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the upload size limit.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form data.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field in upload.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("reading upload body", "error", err)
		writeError(w, http.StatusBadRequest, "Could not read the uploaded file.")
		return
	}

	outcome, err := s.service.ProcessUpload(r.Context(), header.Filename, data)
	if err != nil {
		log.Error("processing upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not save the uploaded data.")
		return
	}

	if !outcome.Result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, outcome)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// handleGetDataset returns the current snapshot for the account, or 404
// when nothing has been uploaded yet.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no analytics data uploaded yet")
			return
		}
		logging.FromContext(r.Context()).Error("loading snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the analytics data.")
		return
	}

	if snap.Empty() {
		writeError(w, http.StatusNotFound, "no analytics data uploaded yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleResetDataset clears the stored snapshot for the account.
func (s *Server) handleResetDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reset(r.Context()); err != nil {
		logging.FromContext(r.Context()).Error("resetting snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not reset the analytics data.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleUploadHistory returns the uploads accepted this session, newest
// first.
func (s *Server) handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"uploads": s.service.History()})
}
