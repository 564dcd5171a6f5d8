package postgres

import "time"

const rosterBucketsTable = "roster_buckets"

type rosterBucketTableModel struct {
	Namespace string    `db:"namespace"`
	Bucket    string    `db:"bucket"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}
