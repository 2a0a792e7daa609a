package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends sign-in links. Declared as an interface so the auth service
// can be tested without SES.
type Mailer interface {
	SendSignInLink(ctx context.Context, toEmail, token string) error
}

// SESMailer sends email via AWS SES
type SESMailer struct {
	client    *ses.Client
	fromEmail string
	fromName  string
	baseURL   string
}

// NewSESMailer creates a new mailer using AWS SES
func NewSESMailer(region, fromEmail, fromName, baseURL string) (*SESMailer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := ses.NewFromConfig(cfg)

	return &SESMailer{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}, nil
}

// SendSignInLink emails a one-time sign-in link. The link returns to the
// gallery page itself, not a hosted default; completing sign-in still
// requires the guest's email as a confirmation factor.
func (m *SESMailer) SendSignInLink(ctx context.Context, toEmail, token string) error {
	signInURL := fmt.Sprintf("%s/signin?token=%s", m.baseURL, url.QueryEscape(token))

	subject := "Your sign-in link for the wedding gallery"
	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.button { display: inline-block; padding: 12px 24px; background-color: #b76e79; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>You're invited to the gallery</h1>
				<p>Click the button below to sign in and share your photos. This link can be used once and expires in 15 minutes.</p>
				<a href="%s" class="button">Open the gallery</a>
				<p>Or copy and paste this link into your browser:</p>
				<p style="word-break: break-all; color: #666;">%s</p>
				<p>If you didn't request this link, you can safely ignore this email.</p>
				<hr>
				<p style="color: #999; font-size: 12px;">This is an automated message from Gala.</p>
			</div>
		</body>
		</html>
	`, signInURL, signInURL)

	textBody := fmt.Sprintf(`
You're invited to the wedding gallery

Open the link below to sign in and share your photos. The link can be used once and expires in 15 minutes.

%s

If you didn't request this link, you can safely ignore this email.

This is an automated message from Gala.
	`, signInURL)

	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send sign-in link email: %w", err)
	}

	return nil
}
