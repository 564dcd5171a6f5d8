// Package snapshot encodes a roster.Snapshot for the persistence adapters,
// either as one JSON document or as one JSON payload per bucket.
package snapshot

import (
	"context"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
)

const (
	BucketUsers        = "users"
	BucketMembers      = "crewmember"
	BucketGames        = "games"
	BucketAvailability = "availability"
	BucketInvitations  = "invitations"
	BucketSchedules    = "schedules"
	BucketSequences    = "sequences"
)

// Buckets lists every bucket name in a stable order.
var Buckets = []string{
	BucketUsers,
	BucketMembers,
	BucketGames,
	BucketAvailability,
	BucketInvitations,
	BucketSchedules,
	BucketSequences,
}

const maxCodecWorkers = 4

// bucketField returns the snapshot field behind a bucket.
func bucketField(snap *roster.Snapshot, bucket string) any {
	switch bucket {
	case BucketUsers:
		return &snap.Users
	case BucketMembers:
		return &snap.Members
	case BucketGames:
		return &snap.Games
	case BucketAvailability:
		return &snap.Availability
	case BucketInvitations:
		return &snap.Invitations
	case BucketSchedules:
		return &snap.Schedules
	case BucketSequences:
		return &snap.Sequences
	default:
		return nil
	}
}

// EncodeBuckets marshals each bucket concurrently.
func EncodeBuckets(ctx context.Context, snap roster.Snapshot) (map[string][]byte, error) {
	encoded := make([][]byte, len(Buckets))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(maxCodecWorkers)
	for i, bucket := range Buckets {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := sonic.Marshal(bucketField(&snap, bucket))
			if err != nil {
				return crerr.Wrapf(err, "encode bucket %s", bucket)
			}
			encoded[i] = raw
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(Buckets))
	for i, bucket := range Buckets {
		out[bucket] = encoded[i]
	}
	return out, nil
}

// DecodeBuckets is the inverse of EncodeBuckets. Missing buckets decode as empty;
// unknown bucket names are rejected.
func DecodeBuckets(ctx context.Context, buckets map[string][]byte) (roster.Snapshot, error) {
	var snap roster.Snapshot
	for name := range buckets {
		if bucketField(&snap, name) == nil {
			return roster.Snapshot{}, crerr.Newf("unknown snapshot bucket %q", name)
		}
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(maxCodecWorkers)
	for _, bucket := range Buckets {
		raw, ok := buckets[bucket]
		if !ok || len(raw) == 0 {
			continue
		}
		// Each goroutine writes a distinct field of snap.
		target := bucketField(&snap, bucket)
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sonic.Unmarshal(raw, target); err != nil {
				return crerr.Wrapf(err, "decode bucket %s", bucket)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return roster.Snapshot{}, err
	}
	return snap, nil
}

// Marshal renders the whole snapshot as one db.json style document.
func Marshal(snap roster.Snapshot) ([]byte, error) {
	raw, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, crerr.Wrap(err, "encode snapshot")
	}
	return raw, nil
}

func Unmarshal(raw []byte) (roster.Snapshot, error) {
	var snap roster.Snapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return roster.Snapshot{}, crerr.Wrap(err, "decode snapshot")
	}
	return snap, nil
}
