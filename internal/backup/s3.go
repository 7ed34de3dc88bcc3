package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/logboard/internal/models"
)

// S3Settings addresses an S3-compatible bucket (AWS or MinIO).
type S3Settings struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// putter is the slice of *s3.Client the archiver needs.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Archiver writes snapshots as JSON objects.
type S3Archiver struct {
	client putter
	bucket string
	now    func() time.Time
}

// NewS3Archiver builds a client with static credentials. A non-empty
// BaseEndpoint switches to path-style addressing for MinIO.
func NewS3Archiver(ctx context.Context, s S3Settings) (*S3Archiver, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archiver(client, s.Bucket, time.Now), nil
}

func newS3Archiver(client putter, bucket string, now func() time.Time) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, now: now}
}

func (a *S3Archiver) Archive(ctx context.Context, reason string, entries []models.Entry) (string, error) {
	t := a.now()
	body, err := encode(reason, t, entries)
	if err != nil {
		return "", err
	}

	key := Key(t, reason)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}
