package auth

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers one-time codes to customers.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// SMTPMailer sends codes through a plain SMTP relay.
type SMTPMailer struct {
	Addr     string
	From     string
	Username string
	Password string
	Host     string
}

func (m *SMTPMailer) SendOTP(_ context.Context, email, code string) error {
	msg := []byte("To: " + email + "\r\n" +
		"Subject: Your login code\r\n" +
		"\r\n" +
		fmt.Sprintf("Your one-time login code is %s. It expires in 5 minutes.\r\n", code))
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	if err := smtp.SendMail(m.Addr, auth, m.From, []string{email}, msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// LogMailer writes codes to the application log instead of sending mail.
// Meant for local development.
type LogMailer struct {
	Logger *log.Logger
}

func (m *LogMailer) SendOTP(_ context.Context, email, code string) error {
	m.Logger.Printf("otp for %s: %s", email, code)
	return nil
}
