package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-call-verify/internal/domain"
)

// API is the subset of the S3 client the store uses.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// TranscriptStore archives call transcripts as JSON objects.
type TranscriptStore struct {
	client    API
	presigner *s3.PresignClient
	bucket    string
}

// NewClient creates an S3 client. When endpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(awsCfg aws.Config, endpointURL string) *s3.Client {
	clientOpts := []func(*s3.Options){}
	if endpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...)
}

// NewTranscriptStore creates a store over client. presigner may be nil, which disables PresignedURL.
func NewTranscriptStore(client API, presigner *s3.PresignClient, bucket string) *TranscriptStore {
	return &TranscriptStore{client: client, presigner: presigner, bucket: bucket}
}

// TranscriptKey is the object key for a call, partitioned by the day it ended.
func TranscriptKey(callID string, endedAt time.Time) string {
	return fmt.Sprintf("transcripts/%s/%s.json", endedAt.UTC().Format("2006/01/02"), callID)
}

// Archive uploads t and returns its object key.
func (s *TranscriptStore) Archive(ctx context.Context, t *domain.Transcript) (string, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	key := TranscriptKey(t.CallID, t.EndedAt)
	if err := s.upload(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// Fetch downloads and decodes the transcript stored under key.
func (s *TranscriptStore) Fetch(ctx context.Context, key string) (*domain.Transcript, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()
	var t domain.Transcript
	if err := json.NewDecoder(out.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &t, nil
}

// PresignedURL generates a time-limited presigned GET URL for the given key.
func (s *TranscriptStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.presigner == nil {
		return "", fmt.Errorf("presigning disabled: %w", domain.ErrNotFound)
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return req.URL, nil
}

func (s *TranscriptStore) upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}
