// Package storage archives raw lead uploads in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Archiver stores an uploaded file and returns the object key.
type Archiver interface {
	Archive(ctx context.Context, userID string, body []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

type S3Archiver struct {
	client objectPutter
	bucket string
	now    func() time.Time
}

type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// NewS3Archiver builds an S3 client from opts. Static credentials are used
// when an access key is given, otherwise the default AWS credential chain.
func NewS3Archiver(ctx context.Context, opts S3Options) (*S3Archiver, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archiver{client: client, bucket: opts.Bucket, now: time.Now}, nil
}

// ObjectKey builds leads/<user>/<yyyy>/<mm>/<dd>/<uuid>.csv.
func ObjectKey(userID string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("leads/%s/%04d/%02d/%02d/%s.csv", userID, at.Year(), int(at.Month()), at.Day(), uuid.New())
}

func (a *S3Archiver) Archive(ctx context.Context, userID string, body []byte) (string, error) {
	key := ObjectKey(userID, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// Noop is used when no bucket is configured.
type Noop struct{}

func (Noop) Archive(ctx context.Context, userID string, body []byte) (string, error) {
	return "", nil
}

var (
	_ Archiver = (*S3Archiver)(nil)
	_ Archiver = Noop{}
)
