package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/httputil"
)

// maxUploadBytes caps multipart uploads at 100MB
const maxUploadBytes = 100 << 20

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload creates a new document from a multipart form
// POST /api/documents
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	req := &services.UploadRequest{
		CallerID:    userID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Tags:        splitCSV(r.FormValue("tags")),
		FileName:    header.Filename,
		FileType:    header.Header.Get("Content-Type"),
		FileSize:    header.Size,
		Content:     file,
	}

	if raw := r.FormValue("expiry_date"); raw != "" {
		expiry, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "expiry_date must be RFC 3339")
			return
		}
		req.ExpiryDate = &expiry
	}
	if raw := r.FormValue("notification_days"); raw != "" {
		days, err := parseIntCSV(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.NotificationDays = days
	}

	doc, err := h.docService.Upload(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// List retrieves documents matching the query filters
// GET /api/documents?category=&status=&tag=&limit=&offset=
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	filter := &models.DocumentFilter{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := lifecycle.ParseStatus(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	filter.Limit = queryInt(r, "limit", 100)
	filter.Offset = queryInt(r, "offset", 0)

	docs, err := h.docService.List(r.Context(), userID, filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// ListExpiring reports documents expiring within N days
// GET /api/documents/expiring?days=N
func (h *DocumentHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	// The cross-document report is platform-admin only; per-document
	// expiry is visible through Get.
	claims := httputil.GetClaims(r)
	if claims == nil || !claims.PlatformAdmin() {
		httputil.RespondError(w, http.StatusForbidden, "platform admin role required")
		return
	}

	docs, err := h.docService.ListExpiring(r.Context(), userID, queryInt(r, "days", 0))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// Get retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// EditMetadata patches document metadata
// PATCH /api/documents/{id}
func (h *DocumentHandler) EditMetadata(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	var req services.EditMetadataRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.EditMetadata(r.Context(), userID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Delete soft-deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	if err := h.docService.Delete(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadURL issues a signed URL for the current version's content
// GET /api/documents/{id}/download
func (h *DocumentHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	url, err := h.docService.DownloadURL(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// ListEvents returns the document's activity log
// GET /api/documents/{id}/events?limit=N
func (h *DocumentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	events, err := h.docService.ListEvents(r.Context(), userID, id, queryInt(r, "limit", 0))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, events)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntCSV(raw string) ([]int, error) {
	var out []int
	for _, p := range splitCSV(raw) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", domain.ErrValidation, p)
		}
		out = append(out, n)
	}
	return out, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
