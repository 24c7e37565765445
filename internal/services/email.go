package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/marko/deckroom-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

// deckShareBody renders the share notification. Sender and product names are
// user-controlled and must be escaped.
func deckShareBody(productName, senderName, shareURL string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Pitch Deck Shared</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> has shared the pitch deck for <strong>%s</strong> with you.</p>
			<p><a href="%s">Click here to view the deck</a></p>
		</body>
		</html>
	`, html.EscapeString(senderName), html.EscapeString(productName), shareURL)
}

func requestDecisionBody(productName, decision string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Access Request Update</h2>
			<p>Hi,</p>
			<p>Your request to view the pitch deck for <strong>%s</strong> has been <strong>%s</strong>.</p>
		</body>
		</html>
	`, html.EscapeString(productName), decision)
}

func (s *EmailService) SendDeckShare(to, productName, senderName, shareURL string) error {
	subject := fmt.Sprintf("%s shared a pitch deck with you", senderName)
	return s.Send(to, subject, deckShareBody(productName, senderName, shareURL))
}

func (s *EmailService) SendRequestDecision(to, productName, decision string) error {
	subject := fmt.Sprintf("Your access request for %s was %s", productName, decision)
	return s.Send(to, subject, requestDecisionBody(productName, decision))
}
