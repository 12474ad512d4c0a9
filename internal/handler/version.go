package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"doccontrol/internal/domain/services"
	"doccontrol/internal/httputil"
)

// VersionHandler exposes the version ledger and expiry settings
type VersionHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(docService services.DocumentService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{
		docService: docService,
		logger:     logger,
	}
}

// List returns the full version history, oldest first
// GET /api/documents/{id}/versions
func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	versions, err := h.docService.ListVersions(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// Revert restores the content of an earlier version as a new version
// POST /api/documents/{id}/versions/{n}/revert
func (h *VersionHandler) Revert(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		httputil.RespondError(w, http.StatusBadRequest, "version number must be a positive integer")
		return
	}

	doc, err := h.docService.RevertToVersion(r.Context(), userID, id, n)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// expiryBody is the PUT /expiry request payload
type expiryBody struct {
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	NotificationDays []int      `json:"notification_days,omitempty"`
}

// SetExpiry updates expiry date and reminder schedule
// PUT /api/documents/{id}/expiry
func (h *VersionHandler) SetExpiry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	var body expiryBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.SetExpirySettings(r.Context(), userID, id, &services.ExpirySettingsRequest{
		ExpiryDate:       body.ExpiryDate,
		NotificationDays: body.NotificationDays,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
