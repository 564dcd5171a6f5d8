package httpapi

import (
	"net/http"

	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func (h *Handler) GetCrewList(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetCrewList")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	list, err := h.assignmentService.CrewList(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get crew list failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, list)
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListCandidates")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rawPosition := r.PathValue("position")

	members, err := h.assignmentService.EligibleCandidates(ctx, gameID, rawPosition)
	if err != nil {
		h.logger.WarnContext(ctx, "list candidates failed", "game_id", gameID, "position", rawPosition, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, crewMembersToDTO(members))
}

func (h *Handler) AssignCrewMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.AssignCrewMember")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req assignRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	a, err := h.assignmentService.Assign(ctx, usecase.AssignInput{
		GameID:         gameID,
		UserID:         req.UserID,
		Position:       req.Position,
		ReportTime:     req.ReportTime,
		ReportLocation: req.ReportLocation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign crew member failed",
			"game_id", gameID,
			"user_id", req.UserID,
			"position", req.Position,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgAssign, a)
}

func (h *Handler) AssignCrewSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.AssignCrewSchedule")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req bulkAssignRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.AssignInput, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		inputs = append(inputs, usecase.AssignInput{
			UserID:         item.UserID,
			Position:       item.Position,
			ReportTime:     item.ReportTime,
			ReportLocation: item.ReportLocation,
		})
	}

	g, err := h.assignmentService.AssignBulk(ctx, gameID, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "assign crew schedule failed", "game_id", gameID, "count", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgAssign, gameForResponse(g))
}

func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.RemoveAssignment")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	crewedUserID, err := pathID(r, "crewedUserID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.assignmentService.Remove(ctx, gameID, crewedUserID); err != nil {
		h.logger.WarnContext(ctx, "remove assignment failed", "game_id", gameID, "crewed_user_id", crewedUserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgDelete, nil)
}
