package crewmember

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

var ErrEmailTaken = errors.New("email already registered")

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleCrewMember Role = "CREW_MEMBER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCrewMember
}

type Experience string

const (
	ExperienceNew         Experience = "new"
	ExperienceExperienced Experience = "experienced"
	ExperienceSenior      Experience = "senior"
)

func ParseExperience(raw string) (Experience, error) {
	switch e := Experience(strings.ToLower(strings.TrimSpace(raw))); e {
	case ExperienceNew, ExperienceExperienced, ExperienceSenior:
		return e, nil
	case "":
		return ExperienceNew, nil
	default:
		return "", fmt.Errorf("invalid experience: %q", raw)
	}
}

// User is the login identity behind a crew member.
type User struct {
	ID           int64  `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	Role         Role   `json:"role"`
}

// Member is the crew profile, one-to-one with User by UserID.
type Member struct {
	UserID      int64               `json:"userId"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Email       string              `json:"email"`
	PhoneNumber string              `json:"phoneNumber,omitempty"`
	Positions   []position.Position `json:"positions"`
	Experience  Experience          `json:"experience"`
}

func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (m Member) Qualified(p position.Position) bool {
	return position.Contains(m.Positions, p)
}

func (m Member) Validate() error {
	if m.UserID <= 0 {
		return fmt.Errorf("member user id is required")
	}
	if strings.TrimSpace(m.FirstName) == "" {
		return fmt.Errorf("member first name is required")
	}
	if strings.TrimSpace(m.LastName) == "" {
		return fmt.Errorf("member last name is required")
	}
	if _, err := NormalizeEmail(m.Email); err != nil {
		return err
	}
	for _, p := range m.Positions {
		if !p.Valid() {
			return fmt.Errorf("%w: %s", position.ErrUnknownPosition, p)
		}
	}
	return nil
}

// NormalizeEmail trims, lowercases and checks the address shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email: %q", raw)
	}
	return email, nil
}
