package invitation

import (
	"errors"
	"net/url"
	"time"
)

var (
	ErrTokenUnknown = errors.New("invitation token is invalid")
	ErrTokenUsed    = errors.New("invitation token already used")
)

// Invitation is a single-use token permitting account creation.
type Invitation struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"createdAt"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}

func (i Invitation) Redeemable() error {
	if i.Used {
		return ErrTokenUsed
	}
	return nil
}

// Link builds the account-creation URL handed to the invitee.
func (i Invitation) Link(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", i.Token)
	u.RawQuery = q.Encode()
	return u.String()
}
