package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/frogcrew/internal/usecase"
)

const (
	msgFind         = "Find Success"
	msgAdd          = "Add Success"
	msgUpdate       = "Update Success"
	msgDelete       = "Delete Success"
	msgPublish      = "Publish Success"
	msgAssign       = "Assign Success"
	msgAvailability = "Availability submitted successfully"
	msgInvitations  = "Invitations sent successfully"
	msgRedeemed     = "Invitation redeemed successfully"
	msgInvalidArgs  = "Provided arguments are invalid, see data for details."
	msgInternal     = "Internal server error"
)

// envelope wraps every response body.
type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// writeError maps err to a status code. Errors without a sentinel are
// reported as an internal error so their text never reaches the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	var verr *validationError
	if errors.As(err, &verr) {
		writeJSON(ctx, w, http.StatusBadRequest, envelope{
			StatusCode: http.StatusBadRequest,
			Message:    msgInvalidArgs,
			Data:       verr.Fields,
		})
		return
	}

	status := mapError(ctx, err)
	message := usecase.PublicMessage(err)
	if status == http.StatusInternalServerError || message == "" {
		writeInternalError(ctx, w)
		return
	}

	writeJSON(ctx, w, status, envelope{
		StatusCode: status,
		Message:    message,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, envelope{
		StatusCode: http.StatusInternalServerError,
		Message:    msgInternal,
	})
}

func mapError(ctx context.Context, err error) int {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
