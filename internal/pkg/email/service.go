// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/lootportal/lootportal-api/internal/config"
	"github.com/lootportal/lootportal-api/internal/domain/order"
)

// Message represents an outgoing email
type Message struct {
	To          []string
	Subject     string
	HTMLContent string
}

// Service sends transactional emails over SMTP
type Service struct {
	config    *config.Config
	templates *template.Template
}

// NewService creates a new email service
func NewService(cfg *config.Config) (*Service, error) {
	tmpl, err := template.New("email").Parse(emailTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Service{config: cfg, templates: tmpl}, nil
}

// SendOrderPlaced notifies the buyer that their order was received and is
// awaiting payment verification
func (s *Service) SendOrderPlaced(to, orderNumber string, total int64) error {
	html, err := s.render("order_placed", map[string]interface{}{
		"SiteName":    s.config.App.Name,
		"OrderNumber": orderNumber,
		"Total":       total,
	})
	if err != nil {
		return err
	}

	return s.send(&Message{
		To:          []string{to},
		Subject:     fmt.Sprintf("Order %s received", orderNumber),
		HTMLContent: html,
	})
}

// SendOrderStatusUpdate notifies the buyer of a status change
func (s *Service) SendOrderStatusUpdate(to, orderNumber string, status order.Status) error {
	html, err := s.render("order_status", map[string]interface{}{
		"SiteName":    s.config.App.Name,
		"OrderNumber": orderNumber,
		"Status":      string(status),
	})
	if err != nil {
		return err
	}

	return s.send(&Message{
		To:          []string{to},
		Subject:     fmt.Sprintf("Order %s is now %s", orderNumber, status),
		HTMLContent: html,
	})
}

func (s *Service) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Service) send(msg *Message) error {
	cfg := s.config.Email
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host or username")
	}

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTMLContent)

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, cfg.FromEmail, msg.To, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

const emailTemplates = `
{{define "order_placed"}}
<html><body>
<h2>{{.SiteName}}</h2>
<p>We received your order <strong>{{.OrderNumber}}</strong> (Rs. {{.Total}}).</p>
<p>Our team is verifying your payment and will confirm it shortly.</p>
</body></html>
{{end}}

{{define "order_status"}}
<html><body>
<h2>{{.SiteName}}</h2>
<p>Your order <strong>{{.OrderNumber}}</strong> is now <strong>{{.Status}}</strong>.</p>
</body></html>
{{end}}
`
