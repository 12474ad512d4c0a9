package handler

import (
	"log/slog"
	"net/http"

	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/httputil"
)

// AccessHandler manages per-document access grants
type AccessHandler struct {
	docService    services.DocumentService
	accessService services.AccessService
	logger        *slog.Logger
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(docService services.DocumentService, accessService services.AccessService, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		docService:    docService,
		accessService: accessService,
		logger:        logger,
	}
}

// grantBody is the PUT /access request payload
type grantBody struct {
	UserID          string `json:"user_id"`
	PermissionLevel string `json:"permission_level"`
}

// List returns all grants on a document
// GET /api/documents/{id}/access
func (h *AccessHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	grants, err := h.accessService.ListGrants(r.Context(), userID, doc)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, grants)
}

// Grant upserts an access grant; a re-grant updates the level in place
// PUT /api/documents/{id}/access
func (h *AccessHandler) Grant(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	var body grantBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.UserID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	level, err := models.ParsePermissionLevel(body.PermissionLevel)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	grant, err := h.accessService.Grant(r.Context(), userID, doc, body.UserID, level)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, grant)
}

// Revoke removes a user's grant
// DELETE /api/documents/{id}/access/{userId}
func (h *AccessHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	target := r.PathValue("userId")
	if target == "" {
		httputil.RespondError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	doc, err := h.docService.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.accessService.Revoke(r.Context(), userID, doc, target); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
