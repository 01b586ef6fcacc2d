// Package mailer delivers transactional emails over SMTP. Templates are
// embedded so the binary ships self-contained.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/mail"
	"net/smtp"

	"github.com/square-net/server/config"
	"github.com/square-net/server/internal/auth/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type mailContent struct {
	template string
	subject  string
}

// ParseFS registers templates under their base filenames, without the
// templates/ prefix.
var contentByKind = map[domain.MailKind]mailContent{
	domain.MailVerify:  {template: "verify_email.html", subject: "Verify your account"},
	domain.MailRecover: {template: "recovery_email.html", subject: "Recover your password"},
}

type SMTPMailer struct {
	host      string
	port      string
	username  string
	password  string
	from      string
	templates *template.Template
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &SMTPMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		from:      cfg.MailFrom,
		templates: templates,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to string, kind domain.MailKind, link string) error {
	content, ok := contentByKind[kind]
	if !ok {
		return fmt.Errorf("unknown mail kind %q", kind)
	}

	body, err := m.render(content.template, link)
	if err != nil {
		return err
	}

	msg := m.message(to, content.subject, body)

	return m.deliver(ctx, to, msg)
}

func (m *SMTPMailer) render(name, link string) ([]byte, error) {
	var buf bytes.Buffer

	tmpl := m.templates.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("mail template %q not found", name)
	}

	if err := tmpl.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return nil, fmt.Errorf("render mail template %q: %w", name, err)
	}

	return buf.Bytes(), nil
}

func (m *SMTPMailer) message(to, subject string, body []byte) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", m.from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.Write(body)

	return buf.Bytes()
}

// deliver speaks SMTP over implicit TLS (port 465 style). The context bounds
// the dial; the SMTP conversation itself is short enough not to need one.
func (m *SMTPMailer) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.envelopeFrom()); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}

// envelopeFrom strips the display name off the configured From header.
func (m *SMTPMailer) envelopeFrom() string {
	if addr, err := mail.ParseAddress(m.from); err == nil {
		return addr.Address
	}

	return m.from
}
