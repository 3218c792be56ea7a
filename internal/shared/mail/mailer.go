package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/cristianortiz/bidmarket/internal/shared/config"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// ExpiresInMinutes is shown to the user in every OTP mail.
const ExpiresInMinutes = 10

type Kind string

const (
	KindVerifyEmail   Kind = "welcome"
	KindResetPassword Kind = "reset-password"
)

type kindInfo struct {
	subject  string
	title    string
	template string
}

var kinds = map[Kind]kindInfo{
	KindVerifyEmail:   {subject: "Welcome to Bid Market!", title: "Welcome", template: "verify-email.html"},
	KindResetPassword: {subject: "Reset Your Password - Bid Market", title: "Reset Your Password", template: "reset-password.html"},
}

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// Mailer delivers one-time codes to users.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, kind Kind) error
}

type templateData struct {
	Title            string
	Code             string
	ExpiresInMinutes int
}

// Render returns the subject and the HTML body of a mail of the given kind.
func Render(kind Kind, code string) (subject, body string, err error) {
	info, ok := kinds[kind]
	if !ok {
		return "", "", fmt.Errorf("mail: unknown kind %q", kind)
	}
	var buf bytes.Buffer
	data := templateData{Title: info.title, Code: code, ExpiresInMinutes: ExpiresInMinutes}
	if err := templates.ExecuteTemplate(&buf, info.template, data); err != nil {
		return "", "", fmt.Errorf("mail: render %s: %w", info.template, err)
	}
	return info.subject, buf.String(), nil
}

// SMTPMailer sends mails through an SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, kind Kind) error {
	subject, body, err := Render(kind, code)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail: create client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error("SMTPMailer: send failed", zap.String("to", to), zap.String("kind", string(kind)), zap.Error(err))
		return fmt.Errorf("mail: send: %w", err)
	}
	log.Info("SMTPMailer: mail sent", zap.String("to", to), zap.String("kind", string(kind)))
	return nil
}

// LogMailer only logs the mail, used when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) SendOTP(_ context.Context, to, code string, kind Kind) error {
	subject, _, err := Render(kind, code)
	if err != nil {
		return err
	}
	log.Info("LogMailer: mail not sent, SMTP disabled",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("code", code),
	)
	return nil
}

// New picks the SMTP mailer when a relay is configured.
func New(cfg config.MailConfig) Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg)
	}
	return LogMailer{}
}
