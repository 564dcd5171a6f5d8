package usecase

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/riskibarqy/frogcrew/internal/domain/availability"
	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

var sentinels = []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrUnauthorized, ErrDependencyUnavailable}

// Error pairs a sentinel kind with a message safe to return to API callers.
// Cause keeps the detailed error for logs and errors.Is.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.Error() + ": " + e.Message
	}
	return e.Kind.Error() + ": " + e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

type domainMapping struct {
	target  error
	kind    error
	message string
}

// An empty message means the cause text itself is shown.
var domainMappings = []domainMapping{
	{target: game.ErrPositionFilled, kind: ErrConflict, message: "Position already filled for this game"},
	{target: game.ErrMemberAlreadyAssigned, kind: ErrConflict, message: "Crew member already assigned to this game"},
	{target: game.ErrMemberNotQualified, kind: ErrConflict, message: "Crew member is not qualified for this position"},
	{target: game.ErrMemberUnavailable, kind: ErrConflict, message: "Crew member is unavailable for this game"},
	{target: game.ErrGamePublished, kind: ErrConflict, message: "Cannot delete a published game"},
	{target: game.ErrHasUpcomingGames, kind: ErrConflict, message: "Cannot delete crew member with upcoming game assignments"},
	{target: availability.ErrAlreadySubmitted, kind: ErrConflict, message: "Availability already submitted for this game"},
	{target: crewmember.ErrEmailTaken, kind: ErrConflict, message: "Email address is already registered"},
	{target: game.ErrMissingRequiredFields, kind: ErrInvalidInput},
	{target: position.ErrUnknownPosition, kind: ErrInvalidInput},
	{target: invitation.ErrTokenUnknown, kind: ErrUnauthorized, message: "Invitation token is invalid"},
	{target: invitation.ErrTokenUsed, kind: ErrUnauthorized, message: "Invitation token has already been used"},
	{target: resilience.ErrCircuitOpen, kind: ErrDependencyUnavailable, message: "Storage is temporarily unavailable"},
}

// classify attaches a sentinel to known domain errors. Errors that already
// carry a sentinel, and unknown errors, are returned unchanged.
func classify(err error) error {
	if err == nil || hasSentinel(err) {
		return err
	}
	for _, m := range domainMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = capitalize(err.Error())
		}
		return &Error{Kind: m.kind, Message: msg, Cause: err}
	}
	return err
}

func hasSentinel(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// PublicMessage returns the caller-facing text of err, or "" for errors
// without a sentinel, which must not leak to clients.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	for _, s := range sentinels {
		if !errors.Is(err, s) {
			continue
		}
		text := strings.TrimPrefix(err.Error(), s.Error()+": ")
		return capitalize(text)
	}
	return ""
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
