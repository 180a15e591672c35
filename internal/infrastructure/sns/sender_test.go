package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct{ mock.Mock }

func (m *mockSNS) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	return &sns.PublishOutput{}, args.Error(0)
}

func TestSendSMS(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		id, ok := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return aws.ToString(in.PhoneNumber) == "+353871234567" &&
			aws.ToString(in.Message) == "pay here" &&
			ok && aws.ToString(id.StringValue) == "CMOS"
	})).Return(nil)

	require.NoError(t, NewSender(api, "CMOS").SendSMS(context.Background(), "+353871234567", "pay here"))
	api.AssertExpectations(t)
}

func TestSendSMS_NoSenderID(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		_, ok := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return !ok
	})).Return(nil)

	require.NoError(t, NewSender(api, "").SendSMS(context.Background(), "+353871234567", "x"))
}

func TestSendSMS_Error(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.Anything).Return(errors.New("opted out"))

	err := NewSender(api, "").SendSMS(context.Background(), "+353871234567", "x")
	assert.ErrorContains(t, err, "opted out")
}
