package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-call-verify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
	body []byte
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	m.body = b
	args := m.Called(ctx, aws.ToString(in.Bucket), aws.ToString(in.Key), aws.ToString(in.ContentType))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(in.Bucket), aws.ToString(in.Key))
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(m.body))}, nil
}

func TestTranscriptKey(t *testing.T) {
	at := time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("IST", 3600))
	assert.Equal(t, "transcripts/2024/05/01/01HX.json", TranscriptKey("01HX", at))
}

func TestTranscriptStore_ArchiveAndFetch(t *testing.T) {
	api := &mockS3{}
	ended := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	key := "transcripts/2024/05/01/01HX.json"
	api.On("PutObject", mock.Anything, "call-transcripts", key, "application/json").Return(nil)
	api.On("GetObject", mock.Anything, "call-transcripts", key).Return(nil)

	store := NewTranscriptStore(api, nil, "call-transcripts")
	tr := &domain.Transcript{
		CallID:  "01HX",
		Outcome: domain.EndResolvedPay,
		Lines:   []domain.Utterance{{Speaker: domain.SpeakerAgent, Text: "Good morning", At: ended}},
		EndedAt: ended,
	}
	got, err := store.Archive(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(api.body, &decoded))
	assert.Equal(t, "resolved_pay", decoded["outcome"])

	back, err := store.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "Good morning", back.Lines[0].Text)
}

func TestTranscriptStore_ArchiveError(t *testing.T) {
	api := &mockS3{}
	api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("denied"))

	_, err := NewTranscriptStore(api, nil, "b").Archive(context.Background(), &domain.Transcript{CallID: "x"})
	assert.ErrorContains(t, err, "s3 put object")
}

func TestTranscriptStore_PresignDisabled(t *testing.T) {
	_, err := NewTranscriptStore(&mockS3{}, nil, "b").PresignedURL(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
