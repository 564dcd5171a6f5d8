package crewmember

import "context"

// Repository describes crew persistence needs from use cases.
type Repository interface {
	ListMembers(ctx context.Context) ([]Member, error)
	GetMember(ctx context.Context, userID int64) (Member, bool, error)
	GetUser(ctx context.Context, userID int64) (User, bool, error)
	GetUserByEmail(ctx context.Context, email string) (User, bool, error)
	Create(ctx context.Context, user User, member Member) error
	Delete(ctx context.Context, userID int64) error
}
