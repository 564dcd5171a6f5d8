// Package s3 keeps the roster snapshot as a single JSON object in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
)

const (
	DefaultRegion = "us-east-1"
	DefaultKey    = "frogcrew/roster.json"
)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Key             string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

type Persister struct {
	client *s3.Client
	bucket string
	key    string
}

// New builds a client from the default AWS credential chain, or from static
// keys when AccessKeyID is set. optFns are applied after the config-derived
// options.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Persister, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, crerr.New("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = DefaultRegion
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultKey
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, crerr.Wrap(err, "load aws config")
	}
	return NewFromConfig(awsCfg, cfg.Bucket, key, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	}), nil
}

func NewFromConfig(awsCfg aws.Config, bucket, key string, optFns ...func(*s3.Options)) *Persister {
	return &Persister{
		client: s3.NewFromConfig(awsCfg, optFns...),
		bucket: bucket,
		key:    key,
	}
}

func (p *Persister) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key),
	})
	if err != nil {
		if isNotFound(err) {
			return roster.Snapshot{}, false, nil
		}
		return roster.Snapshot{}, false, crerr.Wrapf(err, "get s3://%s/%s", p.bucket, p.key)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrap(err, "read snapshot object")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return roster.Snapshot{}, false, nil
	}
	snap, err := snapshot.Unmarshal(raw)
	if err != nil {
		return roster.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (p *Persister) Save(ctx context.Context, snap roster.Snapshot) error {
	raw, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(p.key),
		Body:          bytes.NewReader(raw),
		ContentLength: aws.Int64(int64(len(raw))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return crerr.Wrapf(err, "put s3://%s/%s", p.bucket, p.key)
	}
	return nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
