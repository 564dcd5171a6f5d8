package memory

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/frogcrew/internal/domain/crewmember"
	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
)

// SeedRoster is the human-editable seed document (roster.yaml).
type SeedRoster struct {
	Users     []SeedUser     `yaml:"users"`
	Schedules []SeedSchedule `yaml:"schedules"`
}

type SeedUser struct {
	FirstName   string   `yaml:"firstName"`
	LastName    string   `yaml:"lastName"`
	Email       string   `yaml:"email"`
	PhoneNumber string   `yaml:"phoneNumber"`
	Password    string   `yaml:"password"`
	Role        string   `yaml:"role"`
	Positions   []string `yaml:"positions"`
	Experience  string   `yaml:"experience"`
}

type SeedSchedule struct {
	Sport  string     `yaml:"sport"`
	Season string     `yaml:"season"`
	Games  []SeedGame `yaml:"games"`
}

type SeedGame struct {
	GameDate          string           `yaml:"gameDate"`
	GameStart         string           `yaml:"gameStart"`
	Venue             string           `yaml:"venue"`
	Opponent          string           `yaml:"opponent"`
	Published         bool             `yaml:"published"`
	RequiredPositions []string         `yaml:"requiredPositions"`
	Crew              []SeedAssignment `yaml:"crew"`
}

type SeedAssignment struct {
	Email          string `yaml:"email"`
	Position       string `yaml:"position"`
	ReportTime     string `yaml:"reportTime"`
	ReportLocation string `yaml:"reportLocation"`
}

func DefaultSeed() SeedRoster {
	return SeedRoster{
		Users: []SeedUser{
			{FirstName: "Kevin", LastName: "Doan", Email: "kd@gmail.com", PhoneNumber: "123-456-7890", Password: "password1", Role: string(crewmember.RoleAdmin), Positions: []string{"DIRECTOR", "PRODUCER"}, Experience: "senior"},
			{FirstName: "Andrew", LastName: "Potts", Email: "ap@gmail.com", PhoneNumber: "987-654-3210", Password: "password2", Role: string(crewmember.RoleAdmin), Positions: []string{"CAMERA", "VIDEO"}, Experience: "experienced"},
			{FirstName: "Kevin", LastName: "Hart", Email: "kh@gmail.com", PhoneNumber: "222-255-5555", Password: "password3", Role: string(crewmember.RoleCrewMember), Positions: []string{"CAMERA", "REPLAY_EVS"}, Experience: "new"},
			{FirstName: "Dwayne", LastName: "Johnson", Email: "dj@gmail.com", PhoneNumber: "135-792-4680", Password: "password4", Role: string(crewmember.RoleCrewMember), Positions: []string{"AUDIO", "UTILITY"}, Experience: "experienced"},
		},
		Schedules: []SeedSchedule{
			{
				Sport:  "Baseball",
				Season: "2024-2025",
				Games: []SeedGame{
					{
						GameDate:          "2024-10-10",
						GameStart:         "18:00",
						Venue:             "Amon G. Carter",
						Opponent:          "Texas Longhorn",
						RequiredPositions: []string{"DIRECTOR", "CAMERA", "AUDIO"},
						Crew: []SeedAssignment{
							{Email: "kd@gmail.com", Position: "DIRECTOR", ReportTime: "12:00", ReportLocation: "CONTROL ROOM"},
							{Email: "ap@gmail.com", Position: "CAMERA", ReportTime: "10:00", ReportLocation: "FIELD"},
						},
					},
					{
						GameDate:  "2022-01-10",
						GameStart: "13:00",
						Venue:     "Amon G. Carter",
						Opponent:  "Baylor",
						Published: true,
					},
				},
			},
			{Sport: "Football", Season: "2023-2024"},
		},
	}
}

func LoadSeedFile(path string) (SeedRoster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedRoster{}, fmt.Errorf("read seed file: %w", err)
	}

	var out SeedRoster
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return SeedRoster{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return out, nil
}

// Build turns the seed into a snapshot with sequential IDs. hash turns the
// plain seed passwords into stored hashes.
func (s SeedRoster) Build(hash func(string) (string, error)) (roster.Snapshot, error) {
	snap := roster.Snapshot{Sequences: map[roster.Sequence]int64{}}
	next := func(seq roster.Sequence) int64 {
		snap.Sequences[seq]++
		return snap.Sequences[seq]
	}

	byEmail := make(map[string]crewmember.Member, len(s.Users))
	for _, su := range s.Users {
		email, err := crewmember.NormalizeEmail(su.Email)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("seed user %s %s: %w", su.FirstName, su.LastName, err)
		}
		if _, dup := byEmail[email]; dup {
			return roster.Snapshot{}, fmt.Errorf("seed user email %s is duplicated", email)
		}
		positions, err := position.ParseSet(su.Positions)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("seed user %s: %w", email, err)
		}
		experience, err := crewmember.ParseExperience(su.Experience)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("seed user %s: %w", email, err)
		}
		role := crewmember.Role(strings.ToUpper(strings.TrimSpace(su.Role)))
		if role == "" {
			role = crewmember.RoleCrewMember
		}
		if !role.Valid() {
			return roster.Snapshot{}, fmt.Errorf("seed user %s: invalid role %q", email, su.Role)
		}
		passwordHash, err := hash(su.Password)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("seed user %s: %w", email, err)
		}

		id := next(roster.SeqUser)
		m := crewmember.Member{
			UserID:      id,
			FirstName:   strings.TrimSpace(su.FirstName),
			LastName:    strings.TrimSpace(su.LastName),
			Email:       email,
			PhoneNumber: strings.TrimSpace(su.PhoneNumber),
			Positions:   positions,
			Experience:  experience,
		}
		snap.Users = append(snap.Users, crewmember.User{ID: id, Email: email, PasswordHash: passwordHash, Role: role})
		snap.Members = append(snap.Members, m)
		byEmail[email] = m
	}

	rules := game.Rules{}
	for _, ss := range s.Schedules {
		sched := schedule.Schedule{ID: next(roster.SeqSchedule), Sport: ss.Sport, Season: ss.Season}
		if err := sched.Validate(); err != nil {
			return roster.Snapshot{}, err
		}
		snap.Schedules = append(snap.Schedules, sched)

		for _, sg := range ss.Games {
			required, err := position.ParseSet(sg.RequiredPositions)
			if err != nil {
				return roster.Snapshot{}, fmt.Errorf("seed game %s: %w", sg.GameDate, err)
			}
			g := game.Game{
				ID:                next(roster.SeqGame),
				ScheduleID:        sched.ID,
				Sport:             sched.Sport,
				GameDate:          sg.GameDate,
				GameStart:         sg.GameStart,
				Venue:             sg.Venue,
				Opponent:          sg.Opponent,
				Status:            game.StatusDraft,
				RequiredPositions: required,
			}
			for _, sa := range sg.Crew {
				m, ok := byEmail[strings.ToLower(strings.TrimSpace(sa.Email))]
				if !ok {
					return roster.Snapshot{}, fmt.Errorf("seed game %d: unknown crew email %s", g.ID, sa.Email)
				}
				p, err := position.Parse(sa.Position)
				if err != nil {
					return roster.Snapshot{}, fmt.Errorf("seed game %d: %w", g.ID, err)
				}
				if _, err := rules.Assign(&g, m, game.Assignment{
					CrewedUserID:   next(roster.SeqCrewedUser),
					Position:       p,
					ReportTime:     sa.ReportTime,
					ReportLocation: sa.ReportLocation,
				}, nil); err != nil {
					return roster.Snapshot{}, fmt.Errorf("seed game %d: %w", g.ID, err)
				}
			}
			if sg.Published {
				if _, err := game.Publish(&g); err != nil {
					return roster.Snapshot{}, fmt.Errorf("seed game %d: %w", g.ID, err)
				}
			}
			if err := g.Validate(); err != nil {
				return roster.Snapshot{}, err
			}
			snap.Games = append(snap.Games, g)
		}
	}

	return snap, nil
}
