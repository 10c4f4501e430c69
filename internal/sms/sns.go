package sms

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// snsAPI is the slice of the SNS client the sender needs; tests mock it.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender sends SMS through AWS SNS.
type SNSSender struct {
	client snsAPI
}

func NewSNSSender(ctx context.Context, region string) (*SNSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSSender{client: sns.NewFromConfig(cfg)}, nil
}

func (s *SNSSender) Provider() string {
	return "sns"
}

func (s *SNSSender) Send(ctx context.Context, to, body string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &body,
	})
	return err
}
