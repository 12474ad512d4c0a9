package handler

import (
	"errors"
	"net/http"

	"doccontrol/internal/domain"
	"doccontrol/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var lockErr *domain.LockConflictError
	var preErr *domain.PreconditionError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &lockErr):
		httputil.RespondErrorWithExtras(w, http.StatusLocked, lockErr.Error(), map[string]interface{}{
			"holder_id":   lockErr.HolderID,
			"acquired_at": lockErr.AcquiredAt,
		})
	case errors.Is(err, domain.ErrNotLockedByCaller):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &preErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, preErr.Error(), map[string]interface{}{
			"expected_status": preErr.ExpectedStatus,
			"actual_status":   preErr.ActualStatus,
		})
	case errors.Is(err, domain.ErrPreconditionFailed):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireCaller extracts the authenticated user ID or writes a 401
func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing caller identity")
		return "", false
	}
	return userID, true
}

// requireDocumentID extracts the {id} path value or writes a 400
func requireDocumentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return "", false
	}
	return id, true
}
