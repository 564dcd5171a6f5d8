package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	ListBySchedule(ctx context.Context, scheduleID int64) ([]Game, error)
	GetByID(ctx context.Context, gameID int64) (Game, bool, error)
	Create(ctx context.Context, g Game) error
	Update(ctx context.Context, g Game) error
	Delete(ctx context.Context, gameID int64) error
}
