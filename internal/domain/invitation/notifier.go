package invitation

import "context"

// Notifier delivers an issued invitation to the invitee, e.g. by email
// webhook. link is empty when no base URL is configured.
type Notifier interface {
	NotifyInvitation(ctx context.Context, inv Invitation, link string) error
}
