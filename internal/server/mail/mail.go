// Package mail delivers one-time codes to users over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/*.html
var templateFS embed.FS

// sendMail is a test seam for smtp.SendMail.
var sendMail = smtp.SendMail

// SMTPNotifier sends OTP emails through a plain SMTP endpoint. When User is
// empty the connection is unauthenticated (local relay / test setups).
type SMTPNotifier struct {
	host     string
	port     int
	user     string
	password string
	from     string
	tmpl     *template.Template
}

func NewSMTPNotifier(host string, port int, user, password, from string) (*SMTPNotifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail templates: %w", err)
	}
	return &SMTPNotifier{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		tmpl:     tmpl,
	}, nil
}

// SendVerificationCode emails the registration confirmation code.
func (n *SMTPNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	return n.send(email, "OTP Verification", "otp.html", code)
}

// SendResetCode emails the password reset code.
func (n *SMTPNotifier) SendResetCode(ctx context.Context, email, code string) error {
	return n.send(email, "Reset Password OTP", "reset-password-otp.html", code)
}

func (n *SMTPNotifier) send(to, subject, templateName, code string) error {
	var body bytes.Buffer
	if err := n.tmpl.ExecuteTemplate(&body, templateName, struct{ Code string }{Code: code}); err != nil {
		return fmt.Errorf("mail template %s: %w", templateName, err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		n.from, to, subject, body.String())

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.password, n.host)
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := sendMail(addr, auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail send error: %w", err)
	}
	return nil
}
