package httpapi

import (
	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
)

type createCrewMemberRequest struct {
	FirstName   string   `json:"firstName" validate:"required,max=100"`
	LastName    string   `json:"lastName" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	PhoneNumber string   `json:"phoneNumber" validate:"omitempty,phone"`
	Password    string   `json:"password" validate:"required,min=8"`
	Role        string   `json:"role" validate:"omitempty,oneof=ADMIN CREW_MEMBER"`
	Positions   []string `json:"position" validate:"required,min=1,dive,position"`
	Experience  string   `json:"experience" validate:"omitempty,max=50"`
}

type createGameRequest struct {
	ScheduleID        int64    `json:"scheduleId" validate:"omitempty,gt=0"`
	Sport             string   `json:"sport" validate:"required"`
	GameDate          string   `json:"gameDate" validate:"required,datetime=2006-01-02"`
	GameStart         string   `json:"gameStart" validate:"required,datetime=15:04"`
	Venue             string   `json:"venue" validate:"required"`
	Opponent          string   `json:"opponent"`
	RequiredPositions []string `json:"requiredPositions" validate:"omitempty,dive,position"`
}

type updateGameRequest struct {
	ScheduleID        *int64    `json:"scheduleId" validate:"omitempty,gte=0"`
	Sport             *string   `json:"sport"`
	GameDate          *string   `json:"gameDate" validate:"omitempty,datetime=2006-01-02"`
	GameStart         *string   `json:"gameStart" validate:"omitempty,datetime=15:04"`
	Venue             *string   `json:"venue"`
	Opponent          *string   `json:"opponent"`
	RequiredPositions *[]string `json:"requiredPositions" validate:"omitempty,dive,position"`
}

type assignRequest struct {
	UserID         int64  `json:"userId" validate:"required,gt=0"`
	Position       string `json:"position" validate:"required,position"`
	ReportTime     string `json:"reportTime" validate:"omitempty,datetime=15:04"`
	ReportLocation string `json:"reportLocation" validate:"omitempty,max=100"`
}

type bulkAssignRequest struct {
	Assignments []assignRequest `json:"assignments" validate:"required,min=1,dive"`
}

type submitAvailabilityRequest struct {
	UserID    int64  `json:"userId" validate:"required,gt=0"`
	GameID    int64  `json:"gameId" validate:"required,gt=0"`
	Available *bool  `json:"availability" validate:"required"`
	Comment   string `json:"comment" validate:"max=500"`
}

type issueInvitationsRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,required"`
}

type redeemInvitationRequest struct {
	FirstName   string   `json:"firstName" validate:"required,max=100"`
	LastName    string   `json:"lastName" validate:"required,max=100"`
	PhoneNumber string   `json:"phoneNumber" validate:"omitempty,phone"`
	Password    string   `json:"password" validate:"required,min=8"`
	Positions   []string `json:"position" validate:"required,min=1,dive,position"`
	Experience  string   `json:"experience" validate:"omitempty,max=50"`
}

type createScheduleRequest struct {
	Sport  string `json:"sport" validate:"required"`
	Season string `json:"season" validate:"required"`
}

// crewMemberDTO is the public profile; credentials never leave the store.
type crewMemberDTO struct {
	UserID      int64    `json:"userId"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Positions   []string `json:"position"`
	Experience  string   `json:"experience,omitempty"`
}

type invitationDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Token     string `json:"token,omitempty"`
	CreatedAt string `json:"createdAt"`
	Used      bool   `json:"used"`
}

func crewMemberToDTO(m crewmember.Member) crewMemberDTO {
	positions := make([]string, 0, len(m.Positions))
	for _, p := range m.Positions {
		positions = append(positions, string(p))
	}
	return crewMemberDTO{
		UserID:      m.UserID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		FullName:    m.FullName(),
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Positions:   positions,
		Experience:  string(m.Experience),
	}
}

func crewMembersToDTO(members []crewmember.Member) []crewMemberDTO {
	out := make([]crewMemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, crewMemberToDTO(m))
	}
	return out
}

// invitationToDTO hides the token unless withToken is set; only the issuing
// admin sees it.
func invitationToDTO(inv invitation.Invitation, withToken bool) invitationDTO {
	out := invitationDTO{
		ID:        inv.ID,
		Email:     inv.Email,
		CreatedAt: inv.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Used:      inv.Used,
	}
	if withToken {
		out.Token = inv.Token
	}
	return out
}
