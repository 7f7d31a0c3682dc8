package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/config"
)

//go:embed emails/*.html
var emailTemplates embed.FS

const emailLayout = "layout"

// Email template names.
const (
	EmailCandidateCredentials = "candidate_credentials"
	EmailInterviewInvitation  = "interview_invitation"
	EmailInterviewCompleted   = "interview_completed"
	EmailInterviewFeedback    = "interview_feedback"
	EmailStrongMatch          = "strong_match"
	EmailPasswordReset        = "password_reset"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// MailSender delivers a rendered message.
type MailSender interface {
	Send(ctx context.Context, msg Message) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]interface{}) error
}

type mailer struct {
	engine *html.Engine
	sender MailSender
	log    *zap.Logger
}

func NewMailer(sender MailSender, log *zap.Logger) (Mailer, error) {
	sub, err := fs.Sub(emailTemplates, "emails")
	if err != nil {
		return nil, fmt.Errorf("failed to open email templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &mailer{engine: engine, sender: sender, log: log.Named("mailer")}, nil
}

// Send implements Mailer.
func (m *mailer) Send(ctx context.Context, to, subject, template string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["Subject"] = subject

	var buf bytes.Buffer
	if err := m.engine.Render(&buf, template, data, emailLayout); err != nil {
		return fmt.Errorf("failed to render %s email: %w", template, err)
	}

	if err := m.sender.Send(ctx, Message{To: to, Subject: subject, HTML: buf.String()}); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}

	m.log.Info("📧 Email sent", zap.String("template", template), zap.String("to", to))
	return nil
}

type smtpSender struct {
	cfg config.EmailConfig
}

type logSender struct {
	log *zap.Logger
}

// NewMailSender returns an SMTP sender, or a sender that only logs when no
// SMTP host is configured.
func NewMailSender(cfg config.EmailConfig, log *zap.Logger) MailSender {
	if cfg.Host == "" {
		log.Warn("⚠️  SMTP host not configured, emails will only be logged")
		return &logSender{log: log.Named("mail")}
	}
	return &smtpSender{cfg: cfg}
}

// Send implements MailSender.
func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	return smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, buildMIME(s.cfg.From, msg))
}

// Send implements MailSender.
func (l *logSender) Send(_ context.Context, msg Message) error {
	l.log.Info("📧 Email (not delivered)", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
