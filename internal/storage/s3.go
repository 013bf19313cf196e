// Package storage issues time-limited signed URLs for an S3-compatible
// object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	UploadURLExpiry   = 60 * time.Second
	DownloadURLExpiry = time.Hour

	uploadContentType = "image/png"
)

var (
	ErrBucketNotAllowed = errors.New("bucket not allowed")
	ErrEmptyPath        = errors.New("path is required")
)

type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Buckets lists the buckets URLs may be signed for. The first one is
	// used when a request names no bucket.
	Buckets []string
}

type Signer struct {
	presign *s3.PresignClient
	buckets []string
}

func NewSigner(cfg Config) *Signer {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &Signer{
		presign: s3.NewPresignClient(s3.New(opts)),
		buckets: cfg.Buckets,
	}
}

// UploadURL returns a PUT URL for path valid for UploadURLExpiry.
func (s *Signer) UploadURL(ctx context.Context, bucket, path string) (string, error) {
	bucket, path, err := s.resolve(bucket, path)
	if err != nil {
		return "", err
	}

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path),
		ContentType: aws.String(uploadContentType),
	}, s3.WithPresignExpires(UploadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, nil
}

// DownloadURL returns a GET URL for path valid for DownloadURLExpiry.
func (s *Signer) DownloadURL(ctx context.Context, bucket, path string) (string, error) {
	bucket, path, err := s.resolve(bucket, path)
	if err != nil {
		return "", err
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(DownloadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

func (s *Signer) resolve(bucket, path string) (string, string, error) {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", "", ErrEmptyPath
	}
	if bucket == "" {
		if len(s.buckets) == 0 {
			return "", "", ErrBucketNotAllowed
		}
		return s.buckets[0], path, nil
	}
	for _, b := range s.buckets {
		if b == bucket {
			return bucket, path, nil
		}
	}
	return "", "", ErrBucketNotAllowed
}
