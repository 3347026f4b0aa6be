package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC)
	key := ObjectKey("user-1", at)
	assert.Regexp(t, regexp.MustCompile(`^leads/user-1/2024/03/07/[0-9a-f-]{36}\.csv$`), key)
}

func TestS3Archiver_Archive(t *testing.T) {
	put := &fakePutter{}
	a := &S3Archiver{client: put, bucket: "uploads", now: func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }}

	key, err := a.Archive(context.Background(), "user-1", []byte("name,email\n"))
	require.NoError(t, err)

	assert.Equal(t, "uploads", aws.ToString(put.in.Bucket))
	assert.Equal(t, key, aws.ToString(put.in.Key))
	assert.Equal(t, "text/csv", aws.ToString(put.in.ContentType))
	assert.Equal(t, "name,email\n", put.body)
}

func TestS3Archiver_ArchiveError(t *testing.T) {
	a := &S3Archiver{client: &fakePutter{err: errors.New("denied")}, bucket: "uploads", now: time.Now}
	_, err := a.Archive(context.Background(), "user-1", nil)
	require.Error(t, err)
}

func TestNewS3Archiver(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), S3Options{})
	require.Error(t, err)

	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var called bool
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		called = true
		assert.Len(t, optFns, 2)
		return aws.Config{Region: "us-east-1"}, nil
	}
	a, err := NewS3Archiver(context.Background(), S3Options{
		Bucket: "uploads", Region: "us-east-1", BaseEndpoint: "http://127.0.0.1:9000", AccessKey: "minio", SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "uploads", a.bucket)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = NewS3Archiver(context.Background(), S3Options{Bucket: "uploads"})
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	key, err := Noop{}.Archive(context.Background(), "u", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, key)
}
