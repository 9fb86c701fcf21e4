package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
)

// Config holds SMTP settings. An empty SMTPHost disables delivery.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
	StoreName    string
}

// Service sends transactional mail.
type Service struct {
	config Config
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewService(config Config) *Service {
	return &Service{config: config, send: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured.
func (s *Service) Enabled() bool {
	return s.config.SMTPHost != ""
}

// SendPasswordReset mails a reset link carrying token to toEmail.
func (s *Service) SendPasswordReset(toEmail, token string) error {
	if !s.Enabled() {
		return fmt.Errorf("email: SMTP is not configured")
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL, url.QueryEscape(token), url.QueryEscape(toEmail))

	var body bytes.Buffer
	err := passwordResetTmpl.Execute(&body, struct {
		Email, ResetURL, StoreName string
	}{toEmail, resetURL, s.config.StoreName})
	if err != nil {
		return fmt.Errorf("email: render password reset: %w", err)
	}

	msg := s.message(toEmail, "Reset password - "+s.config.StoreName, body.String())
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	if err := s.send(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("email: send: %w", err)
	}
	return nil
}

func (s *Service) message(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName, s.config.FromEmail, to, subject)
	return []byte(headers + htmlBody)
}

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html lang="id">
<head><meta charset="UTF-8"><title>Reset password</title></head>
<body style="font-family: sans-serif; background: #f4f7fa; padding: 32px;">
  <div style="max-width: 520px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 32px;">
    <h2 style="margin-top: 0;">{{.StoreName}}</h2>
    <p>A password reset was requested for <strong>{{.Email}}</strong>.</p>
    <p>The link below expires in 1 hour.</p>
    <p><a href="{{.ResetURL}}" style="display: inline-block; padding: 12px 24px; background: #2f855a; color: #fff; text-decoration: none; border-radius: 6px;">Reset password</a></p>
    <p style="color: #718096; font-size: 13px;">If you did not ask for this, ignore this email.</p>
    <p style="color: #718096; font-size: 13px; word-break: break-all;">{{.ResetURL}}</p>
  </div>
</body>
</html>
`))
