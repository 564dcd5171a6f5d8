package httpapi

import (
	"net/http"

	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func (h *Handler) ListCrewMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListCrewMembers")
	defer span.End()

	members, err := h.crewService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list crew members failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, crewMembersToDTO(members))
}

func (h *Handler) GetCrewMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetCrewMember")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.crewService.Get(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get crew member failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, crewMemberToDTO(member))
}

func (h *Handler) CreateCrewMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.CreateCrewMember")
	defer span.End()

	var req createCrewMemberRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.crewService.Create(ctx, usecase.CreateCrewMemberInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Positions:   req.Positions,
		Experience:  req.Experience,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create crew member failed", "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, msgAdd, crewMemberToDTO(member))
}

func (h *Handler) DeleteCrewMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeleteCrewMember")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.crewService.Delete(ctx, userID); err != nil {
		h.logger.WarnContext(ctx, "delete crew member failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgDelete, nil)
}
