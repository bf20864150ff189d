package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendVerificationCode(toEmail, code string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	codeTTL     time.Duration
}

func NewEmailService(host string, port int, username, password, senderName string, codeTTL time.Duration) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		codeTTL:     codeTTL,
	}
}

func (s *emailService) SendVerificationCode(toEmail, code string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your verification code")
	m.SetBody("text/html", verificationCodeBody(code, s.codeTTL))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

func verificationCodeBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<p>Your code is: <strong style="letter-spacing: 4px;">%s</strong></p>
			<p>Expires in %d minutes.</p>
			<p>If you didn't request this, you can ignore this email.</p>
		</div>
	`, code, int(ttl.Minutes()))
}
