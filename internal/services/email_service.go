package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, firstName string) error
	SendPasswordResetEmail(email, token, firstName string) error
}

type emailService struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, baseURL string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:  dialer,
		from:    fromEmail,
		baseURL: baseURL,
	}
}

func (s *emailService) SendWelcomeEmail(email, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to the club!")

	name := firstName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your membership account has been created.</p>
		<p>If you hold a USV membership, add your membership number in your
		profile and verify it to unlock the reduced fee.</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset request")

	greeting := "Hello"
	if firstName != "" {
		greeting = "Hello " + firstName
	}
	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	body := fmt.Sprintf(`
		<h3>%s,</h3>
		<p>We received a request to reset the password for your account.</p>
		<p><a href="%s">Reset your password</a> (the link is valid for one hour).</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, greeting, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
