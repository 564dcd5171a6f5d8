package schedule

import (
	"context"
	"fmt"
	"strings"
)

// Schedule groups the games of one sport season, e.g. Football 2024-2025.
type Schedule struct {
	ID     int64  `json:"id"`
	Sport  string `json:"sport"`
	Season string `json:"season"`
}

func (s Schedule) Validate() error {
	if strings.TrimSpace(s.Sport) == "" {
		return fmt.Errorf("schedule sport is required")
	}
	if strings.TrimSpace(s.Season) == "" {
		return fmt.Errorf("schedule season is required")
	}
	return nil
}

type Repository interface {
	List(ctx context.Context) ([]Schedule, error)
	GetByID(ctx context.Context, id int64) (Schedule, bool, error)
	Create(ctx context.Context, s Schedule) error
}
