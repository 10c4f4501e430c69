package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func TestSNSSenderPublishes(t *testing.T) {
	mock := &mockSNS{}
	sender := &SNSSender{client: mock}

	require.NoError(t, sender.Send(context.Background(), "+12025550123", "hello"))

	require.Len(t, mock.inputs, 1)
	assert.Equal(t, "+12025550123", *mock.inputs[0].PhoneNumber)
	assert.Equal(t, "hello", *mock.inputs[0].Message)
	assert.Equal(t, "sns", sender.Provider())
}

func TestSNSSenderPropagatesError(t *testing.T) {
	sender := &SNSSender{client: &mockSNS{err: errors.New("throttled")}}

	err := sender.Send(context.Background(), "+12025550123", "hello")
	assert.EqualError(t, err, "throttled")
}
