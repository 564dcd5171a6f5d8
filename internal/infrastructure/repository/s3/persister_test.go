package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/domain/schedule"
)

// fakeBucket serves GetObject/PutObject for path-style requests.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.puts++
		return response(http.StatusOK, nil, nil), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return response(http.StatusNotFound,
				[]byte(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`),
				http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return response(http.StatusOK, body, http.Header{"Content-Type": {"application/json"}}), nil
	}
	return response(http.StatusNotImplemented, nil, nil), nil
}

func response(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func newTestPersister(bucket *fakeBucket) *Persister {
	cfg := aws.Config{
		Region:      DefaultRegion,
		Credentials: credentials.NewStaticCredentialsProvider("AKIA", "SECRET", ""),
	}
	return NewFromConfig(cfg, "crew-bucket", DefaultKey, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: bucket}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
}

func TestPersister_LoadMissingObject(t *testing.T) {
	p := newTestPersister(&fakeBucket{objects: map[string][]byte{}})

	_, found, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected found=false for missing object")
	}
}

func TestPersister_RoundTrip(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	p := newTestPersister(bucket)
	ctx := context.Background()

	snap := roster.Snapshot{
		Schedules: []schedule.Schedule{{ID: 1, Sport: "Baseball", Season: "2024-2025"}},
		Games: []game.Game{{
			ID: 1, ScheduleID: 1, Sport: "Baseball", GameDate: "2024-10-10", GameStart: "18:00",
			Venue: "Amon G. Carter", Opponent: "Texas Longhorn", Status: game.StatusDraft,
		}},
		Sequences: map[roster.Sequence]int64{roster.SeqGame: 1, roster.SeqSchedule: 1},
	}
	if err := p.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if bucket.puts != 1 {
		t.Fatalf("expected one put, got %d", bucket.puts)
	}
	if _, ok := bucket.objects["crew-bucket/"+DefaultKey]; !ok {
		t.Fatalf("object stored under unexpected key: %v", bucket.objects)
	}

	got, found, err := p.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if len(got.Games) != 1 || got.Games[0].Venue != "Amon G. Carter" {
		t.Fatalf("unexpected games %+v", got.Games)
	}
	if got.Sequences[roster.SeqGame] != 1 {
		t.Fatalf("unexpected sequences %+v", got.Sequences)
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
