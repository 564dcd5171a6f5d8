package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
)

func TestPersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "frogcrew.db")

	p, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	if _, found, err := p.Load(ctx); err != nil || found {
		t.Fatalf("fresh database: found=%v err=%v", found, err)
	}

	snap := roster.Snapshot{
		Schedules:   []schedule.Schedule{{ID: 1, Sport: "Baseball", Season: "2024-2025"}},
		Invitations: []invitation.Invitation{{ID: "inv-1", Email: "a@x.com", Token: "tok-1"}},
		Sequences:   map[roster.Sequence]int64{roster.SeqSchedule: 1},
	}
	if err := p.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap.Schedules = append(snap.Schedules, schedule.Schedule{ID: 2, Sport: "Football", Season: "2023-2024"})
	snap.Sequences[roster.SeqSchedule] = 2
	if err := p.Save(ctx, snap); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, found, err := p.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if len(got.Schedules) != 2 || got.Schedules[1].Sport != "Football" {
		t.Fatalf("unexpected schedules %+v", got.Schedules)
	}
	if len(got.Invitations) != 1 || got.Invitations[0].Token != "tok-1" {
		t.Fatalf("unexpected invitations %+v", got.Invitations)
	}
	if got.Sequences[roster.SeqSchedule] != 2 {
		t.Fatalf("unexpected sequences %+v", got.Sequences)
	}
}

func TestPersister_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "frogcrew.db")

	p, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := p.Save(ctx, roster.Snapshot{Schedules: []schedule.Schedule{{ID: 7, Sport: "Soccer", Season: "2026"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = p.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, found, err := reopened.Load(ctx)
	if err != nil || !found || len(got.Schedules) != 1 || got.Schedules[0].ID != 7 {
		t.Fatalf("unexpected reload: found=%v err=%v snap=%+v", found, err, got)
	}
}
