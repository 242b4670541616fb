package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer delivers the transactional emails the auth flows depend on.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

type SMTPMailer struct {
	client  *mail.Client
	from    string
	baseURL string
}

func NewSMTPMailer(host string, port int, username, password, from, baseURL string) (*SMTPMailer, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: from, baseURL: baseURL}, nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return m.client.DialAndSendWithContext(ctx, msg)
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, token)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to Papang!</h2>
			<p>Thanks for signing up. Click the link below to verify your email address:</p>
			<p><a href="%s">Verify my email</a></p>
			<p>Or copy this link into your browser: %s</p>
			<p>This link expires in 24 hours.</p>
		</body>
		</html>`, verifyURL, verifyURL)
	return m.send(ctx, to, "Verify your email address - Papang", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", m.baseURL, token)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Reset your password</h2>
			<p>You requested a password reset. Click the link below to choose a new password:</p>
			<p><a href="%s">Reset my password</a></p>
			<p>Or copy this link into your browser: %s</p>
			<p>This link expires in 1 hour.</p>
			<p>If you did not request this, you can safely ignore this email.</p>
		</body>
		</html>`, resetURL, resetURL)
	return m.send(ctx, to, "Password reset request - Papang", body)
}
