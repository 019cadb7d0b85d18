// Package email sends transactional email through Resend.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/firmdata/dataroom/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client wraps the Resend client and a logger.
//
// With no API key configured (local development), sends are logged and
// skipped instead of failing the calling task.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	from := cfg.Integration.EmailFrom
	if from == "" {
		from = "Dataroom <notifications@resend.dev>"
	}

	var rc *resend.Client
	if cfg.Integration.ResendAPIKey != "" {
		rc = resend.NewClient(cfg.Integration.ResendAPIKey)
	}

	return &Client{
		client: rc,
		from:   from,
		logger: logger,
	}
}

// SendEmail renders the named embedded template with data and sends it.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	tmpl, err := template.ParseFS(templates, fmt.Sprintf("templates/%s.html", templateName))
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	if c.client == nil {
		c.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("email sending disabled, skipping")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
