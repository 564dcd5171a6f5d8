package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
	qb "github.com/riskibarqy/frogcrew/internal/platform/querybuilder"
)

const DefaultNamespace = "frogcrew"

// RosterPersister stores one JSONB row per snapshot bucket. Namespace lets
// several deployments share a database.
type RosterPersister struct {
	db        *sqlx.DB
	namespace string
	now       func() time.Time
}

func NewRosterPersister(db *sqlx.DB, namespace string) *RosterPersister {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RosterPersister{db: db, namespace: namespace, now: time.Now}
}

func (r *RosterPersister) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	query, args, err := qb.Select("namespace", "bucket", "payload", "updated_at").
		From(rosterBucketsTable).
		Where(qb.Eq("namespace", r.namespace)).
		OrderBy("bucket").
		ToSQL()
	if err != nil {
		return roster.Snapshot{}, false, fmt.Errorf("build load roster query: %w", err)
	}

	var rows []rosterBucketTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if isRetryableStatementError(err) {
		err = r.db.SelectContext(ctx, &rows, query, args...)
	}
	if err != nil {
		if isNotFound(err) {
			return roster.Snapshot{}, false, nil
		}
		return roster.Snapshot{}, false, fmt.Errorf("load roster buckets: %w", err)
	}
	if len(rows) == 0 {
		return roster.Snapshot{}, false, nil
	}

	buckets := make(map[string][]byte, len(rows))
	for _, row := range rows {
		buckets[row.Bucket] = []byte(row.Payload)
	}
	snap, err := snapshot.DecodeBuckets(ctx, buckets)
	if err != nil {
		return roster.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (r *RosterPersister) Save(ctx context.Context, snap roster.Snapshot) (err error) {
	buckets, err := snapshot.EncodeBuckets(ctx, snap)
	if err != nil {
		return err
	}
	upsert, upsertArgs, prune, pruneArgs, err := r.saveQueries(buckets)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Serialises writers from several API replicas on the same namespace.
	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", r.namespace); err != nil {
		return fmt.Errorf("lock roster namespace: %w", err)
	}
	if _, err = tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		return fmt.Errorf("upsert roster buckets: %w", err)
	}
	if _, err = tx.ExecContext(ctx, prune, pruneArgs...); err != nil {
		return fmt.Errorf("prune roster buckets: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

func (r *RosterPersister) saveQueries(buckets map[string][]byte) (upsert string, upsertArgs []any, prune string, pruneArgs []any, err error) {
	now := r.now().UTC()
	rows := make([]rosterBucketTableModel, 0, len(buckets))
	keep := make([]any, 0, len(buckets))
	for _, name := range snapshot.Buckets {
		payload, ok := buckets[name]
		if !ok {
			continue
		}
		rows = append(rows, rosterBucketTableModel{
			Namespace: r.namespace,
			Bucket:    name,
			Payload:   string(payload),
			UpdatedAt: now,
		})
		keep = append(keep, name)
	}

	upsert, upsertArgs, err = qb.InsertModels(rosterBucketsTable, rows,
		"ON CONFLICT (namespace, bucket) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at",
		qb.Dollar)
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("build upsert roster query: %w", err)
	}

	prune, pruneArgs, err = qb.DeleteFrom(rosterBucketsTable).
		Where(qb.Eq("namespace", r.namespace), qb.NotIn("bucket", keep)).
		ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("build prune roster query: %w", err)
	}
	return upsert, upsertArgs, prune, pruneArgs, nil
}
