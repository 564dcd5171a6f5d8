package usecase

import (
	"errors"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

// Events receives domain counters. observability.Metrics implements it.
type Events interface {
	AssignmentCommitted(p position.Position)
	AssignmentRejected(reason string)
	AvailabilitySubmitted(available bool)
	InvitationsIssued(count int)
	NotificationFailed()
}

type noopEvents struct{}

func (noopEvents) AssignmentCommitted(position.Position) {}
func (noopEvents) AssignmentRejected(string)             {}
func (noopEvents) AvailabilitySubmitted(bool)            {}
func (noopEvents) InvitationsIssued(int)                 {}
func (noopEvents) NotificationFailed()                   {}

func eventsOrNoop(events Events) Events {
	if events == nil {
		return noopEvents{}
	}
	return events
}

// rejectionReason labels a failed assignment for metrics.
func rejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
