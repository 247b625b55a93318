package mail

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/generate"
)

// Mailer delivers generated emails. Delivery is best-effort at every call
// site — a failed send is logged, never surfaced to the collaborator flow.
type Mailer interface {
	Send(to string, email generate.Email) error
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *ResendMailer) Send(to string, email generate.Email) error {
	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: email.Subject,
		Text:    email.Text,
		Html:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NopMailer is used when no API key is configured; it logs what would have
// been sent.
type NopMailer struct {
	logger *zap.Logger
}

func NewNopMailer(logger *zap.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

func (m *NopMailer) Send(to string, email generate.Email) error {
	m.logger.Info("email delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", email.Subject),
	)
	return nil
}
