package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/config"
)

// Mailer sends plain-text notification emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds a mailer from config. Provider "ses" uses AWS SES; anything
// else falls back to a no-op mailer that only logs.
func New(cfg config.MailerConfig, logger *zap.Logger) Mailer {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.SESRegion,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.SESAccessKeyID, cfg.SESSecretKey, ""),
			),
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
		}
	default:
		if cfg.Provider != "noop" {
			logger.Warn("unknown mailer provider, using noop", zap.String("provider", cfg.Provider))
		}
		return &noopMailer{logger: logger}
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

func (m *sesMailer) Send(ctx context.Context, to, subject, body string) error {
	source := m.fromAddress
	if m.fromName != "" {
		source = fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	_, err := m.client.SendEmail(ctx, input)
	return err
}

type noopMailer struct {
	logger *zap.Logger
}

func (m *noopMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Debug("mail suppressed",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
