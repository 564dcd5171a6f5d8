package httpapi

import (
	"net/http"

	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListInvitations")
	defer span.End()

	items, err := h.invitationService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list invitations failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]invitationDTO, 0, len(items))
	for _, inv := range items {
		out = append(out, invitationToDTO(inv, false))
	}
	writeSuccess(ctx, w, http.StatusOK, msgFind, out)
}

func (h *Handler) IssueInvitations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.IssueInvitations")
	defer span.End()

	var req issueInvitationsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	issued, err := h.invitationService.Issue(ctx, req.Emails)
	if err != nil {
		h.logger.WarnContext(ctx, "issue invitations failed", "count", len(req.Emails), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]invitationDTO, 0, len(issued))
	for _, inv := range issued {
		out = append(out, invitationToDTO(inv, true))
	}
	writeSuccess(ctx, w, http.StatusOK, msgInvitations, out)
}

// ValidateInvitation lets the registration page check a token before the
// invitee fills in the profile.
func (h *Handler) ValidateInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ValidateInvitation")
	defer span.End()

	inv, err := h.invitationService.Validate(ctx, r.PathValue("token"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, invitationToDTO(inv, false))
}

func (h *Handler) RedeemInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.RedeemInvitation")
	defer span.End()

	var req redeemInvitationRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.invitationService.Redeem(ctx, r.PathValue("token"), usecase.RedeemInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Positions:   req.Positions,
		Experience:  req.Experience,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "redeem invitation failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, msgRedeemed, crewMemberToDTO(member))
}
