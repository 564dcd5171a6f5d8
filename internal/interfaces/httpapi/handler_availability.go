package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func (h *Handler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListAvailability")
	defer span.End()

	records, err := h.availabilityService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list availability failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if records == nil {
		records = []availability.Record{}
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, records)
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetAvailability")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, found, err := h.availabilityService.Get(ctx, userID, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get availability failed", "user_id", userID, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: Could not find availability for user %d and game %d", usecase.ErrNotFound, userID, gameID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, record)
}

func (h *Handler) SubmitAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SubmitAvailability")
	defer span.End()

	var req submitAvailabilityRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.availabilityService.Submit(ctx, usecase.SubmitAvailabilityInput{
		UserID:    req.UserID,
		GameID:    req.GameID,
		Available: *req.Available,
		Comment:   req.Comment,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit availability failed", "user_id", req.UserID, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgAvailability, record)
}
