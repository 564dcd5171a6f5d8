package invitation

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Invitation, error)
	GetByToken(ctx context.Context, token string) (Invitation, bool, error)
	Create(ctx context.Context, inv Invitation) error
	MarkUsed(ctx context.Context, token string, at time.Time) error
}
