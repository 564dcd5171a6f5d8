package position

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPosition = errors.New("unknown position")

// Position is a production role a crew member can fill on a game.
type Position string

const (
	Producer     Position = "PRODUCER"
	AsstProducer Position = "ASST_PROD"
	Director     Position = "DIRECTOR"
	AsstDirector Position = "ASST_DIRECTOR"
	TechnicalDir Position = "TECHNICAL_DIR"
	Graphics     Position = "GRAPHICS"
	BugOperator  Position = "BUG_OP"
	ReplayEVS    Position = "REPLAY_EVS"
	EIC          Position = "EIC"
	Video        Position = "VIDEO"
	Audio        Position = "AUDIO"
	Camera       Position = "CAMERA"
	Utility      Position = "UTILITY"
	TechManager  Position = "TECH_MANAGER"
	TOC          Position = "TOC"
	Observer     Position = "OBSERVER"
)

// All lists positions in display order.
var All = []Position{
	Producer, AsstProducer, Director, AsstDirector, TechnicalDir, Graphics,
	BugOperator, ReplayEVS, EIC, Video, Audio, Camera, Utility, TechManager,
	TOC, Observer,
}

var known = func() map[Position]struct{} {
	out := make(map[Position]struct{}, len(All))
	for _, p := range All {
		out[p] = struct{}{}
	}
	return out
}()

func (p Position) Valid() bool {
	_, ok := known[p]
	return ok
}

func (p Position) String() string {
	return string(p)
}

// Parse accepts any casing and surrounding whitespace.
func Parse(raw string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, raw)
	}
	return p, nil
}

// ParseSet parses and de-duplicates, keeping first-seen order.
func ParseSet(raw []string) ([]Position, error) {
	out := make([]Position, 0, len(raw))
	seen := make(map[Position]struct{}, len(raw))
	for _, item := range raw {
		p, err := Parse(item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func Contains(set []Position, p Position) bool {
	for _, item := range set {
		if item == p {
			return true
		}
	}
	return false
}

func Strings(set []Position) []string {
	out := make([]string, 0, len(set))
	for _, p := range set {
		out = append(out, string(p))
	}
	return out
}
