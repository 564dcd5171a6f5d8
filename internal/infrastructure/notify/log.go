package notify

import (
	"context"

	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

// LogNotifier writes the invitation link to the log instead of sending it.
// It is used when NOTIFY_ENABLED=false so local setups can still redeem.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyInvitation(ctx context.Context, inv invitation.Invitation, link string) error {
	n.logger.InfoContext(ctx, "invitation ready",
		"invitation_id", inv.ID,
		"email", inv.Email,
		"link", link,
	)
	return nil
}
