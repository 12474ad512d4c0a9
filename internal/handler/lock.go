package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"doccontrol/internal/domain/services"
	"doccontrol/internal/httputil"
)

// LockHandler exposes checkout, check-in and force-unlock
type LockHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewLockHandler creates a new lock handler
func NewLockHandler(docService services.DocumentService, logger *slog.Logger) *LockHandler {
	return &LockHandler{
		docService: docService,
		logger:     logger,
	}
}

// Checkout acquires the edit lock
// POST /api/documents/{id}/checkout
func (h *LockHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	lock, err := h.docService.Checkout(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lock)
}

// Checkin releases the lock. A multipart body with a file part stores a
// new version; a JSON body (or none) releases the lock only.
// POST /api/documents/{id}/checkin
func (h *LockHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	req := &services.CheckinRequest{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "file part is required for a new version")
			return
		}
		defer file.Close()

		req.CreateNewVersion = true
		req.FileName = header.Filename
		req.FileType = header.Header.Get("Content-Type")
		req.FileSize = header.Size
		req.Content = file
		req.ChangeNotes = r.FormValue("change_notes")
	} else if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.CreateNewVersion {
			httputil.RespondError(w, http.StatusBadRequest, "a new version requires multipart file content")
			return
		}
	}

	doc, err := h.docService.Checkin(r.Context(), userID, id, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ForceUnlock clears another user's lock
// POST /api/documents/{id}/force-unlock
func (h *LockHandler) ForceUnlock(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	if err := h.docService.ForceUnlock(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
