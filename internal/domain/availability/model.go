package availability

import (
	"errors"
	"fmt"
	"time"
)

var ErrAlreadySubmitted = errors.New("availability already submitted for this game")

// Record is a crew member's one-time answer for a game. Records are never
// updated in place.
type Record struct {
	UserID      int64     `json:"userId"`
	GameID      int64     `json:"gameId"`
	Available   bool      `json:"availability"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Key struct {
	UserID int64
	GameID int64
}

func (r Record) Key() Key {
	return Key{UserID: r.UserID, GameID: r.GameID}
}

func (r Record) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("availability user id is required")
	}
	if r.GameID <= 0 {
		return fmt.Errorf("availability game id is required")
	}
	return nil
}
