package mailer

import (
	"context"
	"errors"
	"strings"

	"recruit-dash/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("email recipient is required")

// SESService is the subset of *ses.Client used here, split out for mocks.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type SES struct {
	client SESService
	from   string
	log    *zap.Logger
}

func NewSES(ctx context.Context, region, from string, log *zap.Logger) (*SES, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSESWithClient(ses.NewFromConfig(cfg), from, log), nil
}

func NewSESWithClient(client SESService, from string, log *zap.Logger) *SES {
	return &SES{client: client, from: strings.TrimSpace(from), log: logger.OrNop(log).Named("mailer")}
}

// Send delivers one message and returns the SES message id.
func (s *SES) Send(ctx context.Context, msg Message) (string, error) {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return "", ErrNoRecipient
	}

	body := &types.Body{Text: &types.Content{Data: aws.String(msg.Text)}}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML)}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body:    body,
		},
		Source: aws.String(s.from),
	})
	if err != nil {
		s.log.Error("email send failed", zap.String("to", to), zap.Error(err))
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

var _ Mailer = (*SES)(nil)
