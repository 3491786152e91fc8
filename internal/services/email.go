package services

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"makemystay/internal/config"
	"makemystay/internal/domain"
)

// Notifier is told about events staff should follow up on.
type Notifier interface {
	NotifyNewContact(contact domain.Contact)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles sending emails
type EmailService struct {
	cfg      *config.EmailConfig
	sendMail sendMailFunc
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg, sendMail: smtp.SendMail}
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}

// NotifyNewContact mails the new lead to NOTIFY_EMAIL. Failures are logged only.
func (s *EmailService) NotifyNewContact(contact domain.Contact) {
	if !s.IsEnabled() || s.cfg.NotifyEmail == "" {
		log.Printf("[CONTACT] New contact lead from %s (%s), id=%d", contact.Name, contact.Email, contact.ID)
		return
	}

	subject := fmt.Sprintf("New Contact Lead from %s", contact.Name)
	submitted := contact.CreatedAt.Format("January 2, 2006 at 3:04 PM")

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>New Contact Lead</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1C5D99;">New Contact Lead</h2>
        <div style="background: #F8FAFC; padding: 20px; border-radius: 8px; margin: 20px 0;">
            <p><strong>Name:</strong> %s</p>
            <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
            <p><strong>Phone:</strong> %s</p>
            <p><strong>Submitted:</strong> %s</p>
        </div>
        <div style="background: #FFFFFF; padding: 20px; border-left: 4px solid #1C5D99; margin: 20px 0;">
            <h3 style="margin-top: 0;">Message:</h3>
            <p style="white-space: pre-wrap;">%s</p>
        </div>
        <p style="color: #64748B; font-size: 14px;">Contact ID: #%d</p>
    </div>
</body>
</html>`,
		html.EscapeString(contact.Name),
		html.EscapeString(contact.Email), html.EscapeString(contact.Email),
		html.EscapeString(contact.Phone),
		submitted,
		html.EscapeString(contact.Message),
		contact.ID)

	textBody := fmt.Sprintf(`New Contact Lead

Name: %s
Email: %s
Phone: %s
Submitted: %s

Message:
%s

Contact ID: #%d`, contact.Name, contact.Email, contact.Phone, submitted, contact.Message, contact.ID)

	if err := s.SendHTMLEmail(s.cfg.NotifyEmail, subject, htmlBody, textBody); err != nil {
		log.Printf("[CONTACT] Warning: failed to send notification email: %v", err)
		return
	}
	log.Printf("[CONTACT] Notification email sent for contact id=%d", contact.ID)
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		log.Printf("[EMAIL] Would send to %s: %s", to, subject)
		return nil
	}

	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	// Header values must not carry CR/LF from user input.
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)

	boundary := "----=_NextPart_makemystay"

	headers := fmt.Sprintf("From: %s\r\n", from) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n"

	message := headers +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		textBody + "\r\n"

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := s.sendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
