package httpapi

import (
	"net/http"

	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListSchedules")
	defer span.End()

	items, err := h.scheduleService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list schedules failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if items == nil {
		items = []schedule.Schedule{}
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, items)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetSchedule")
	defer span.End()

	scheduleID, err := pathID(r, "scheduleID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.scheduleService.Get(ctx, scheduleID)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule failed", "schedule_id", scheduleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, item)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.CreateSchedule")
	defer span.End()

	var req createScheduleRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.scheduleService.Create(ctx, usecase.CreateScheduleInput{Sport: req.Sport, Season: req.Season})
	if err != nil {
		h.logger.WarnContext(ctx, "create schedule failed", "sport", req.Sport, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, msgAdd, item)
}
