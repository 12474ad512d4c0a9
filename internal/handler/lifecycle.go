package handler

import (
	"context"
	"log/slog"
	"net/http"

	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/httputil"
)

// LifecycleHandler exposes the workflow transitions
type LifecycleHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(docService services.DocumentService, logger *slog.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		docService: docService,
		logger:     logger,
	}
}

// commentBody carries the optional transition comment or mandatory
// rejection reason.
type commentBody struct {
	Comment string `json:"comment,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Submit moves a draft into approval
// POST /api/documents/{id}/submit
func (h *LifecycleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, userID, id string, _ commentBody) (*models.Document, error) {
		return h.docService.SubmitForApproval(ctx, userID, id)
	})
}

// Approve approves a pending document
// POST /api/documents/{id}/approve
func (h *LifecycleHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, userID, id string, body commentBody) (*models.Document, error) {
		return h.docService.Approve(ctx, userID, id, body.Comment)
	})
}

// Reject rejects a pending document; the reason is mandatory
// POST /api/documents/{id}/reject
func (h *LifecycleHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, userID, id string, body commentBody) (*models.Document, error) {
		return h.docService.Reject(ctx, userID, id, body.Reason)
	})
}

// ReturnToDraft moves a rejected document back for rework
// POST /api/documents/{id}/return-to-draft
func (h *LifecycleHandler) ReturnToDraft(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, userID, id string, _ commentBody) (*models.Document, error) {
		return h.docService.ReturnToDraft(ctx, userID, id)
	})
}

// Publish makes an approved document effective
// POST /api/documents/{id}/publish
func (h *LifecycleHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, userID, id string, _ commentBody) (*models.Document, error) {
		return h.docService.Publish(ctx, userID, id)
	})
}

// Archive retires a document
// POST /api/documents/{id}/archive
func (h *LifecycleHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, userID, id string, _ commentBody) (*models.Document, error) {
		return h.docService.Archive(ctx, userID, id)
	})
}

func (h *LifecycleHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, userID, id string, body commentBody) (*models.Document, error),
) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := requireDocumentID(w, r)
	if !ok {
		return
	}

	// Body is optional for most transitions
	var body commentBody
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &body); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	doc, err := apply(r.Context(), userID, id, body)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
