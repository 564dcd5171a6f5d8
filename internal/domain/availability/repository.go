package availability

import "context"

// Repository describes the availability ledger. Insert returns
// ErrAlreadySubmitted when the (user, game) pair already has a record.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	ListByGame(ctx context.Context, gameID int64) ([]Record, error)
	ListByUser(ctx context.Context, userID int64) ([]Record, error)
	Get(ctx context.Context, userID, gameID int64) (Record, bool, error)
	Insert(ctx context.Context, r Record) error
	DeleteByGame(ctx context.Context, gameID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
