package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("bucket", "payload").
		From("roster_buckets").
		Where(Eq("namespace", "frogcrew"), In("bucket", []any{"games", "users"})).
		OrderBy("bucket").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT bucket, payload FROM roster_buckets WHERE namespace = $1 AND bucket IN ($2, $3) ORDER BY bucket LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "frogcrew" || args[2] != "users" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_QuestionPlaceholders(t *testing.T) {
	query, _, err := Select("payload").
		From("state").
		Where(Eq("bucket", "games")).
		PlaceholderFormat(Question).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if want := "SELECT payload FROM state WHERE bucket = ?"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		Bucket  string `db:"bucket"`
		Payload []byte `db:"payload"`
		skipped int
	}

	query, args, err := InsertModels("state", []row{
		{Bucket: "games", Payload: []byte("[]")},
		{Bucket: "users", Payload: []byte("[]")},
	}, "ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload", Question)
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO state (bucket, payload) VALUES (?, ?), (?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "users" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("state").Columns("a", "b").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected row width error")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("roster_buckets").
		Where(Eq("namespace", "frogcrew"), NotIn("bucket", []any{"games"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM roster_buckets WHERE namespace = $1 AND bucket NOT IN ($2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("roster_buckets").ToSQL(); err == nil {
		t.Fatalf("expected unbounded delete to be rejected")
	}
}
