package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/logging"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/service"
)

type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	FromEmail    string
	FromName     string
	IgnoreTLS    bool
	Secure       bool
	RequireTLS   bool
	FrontendBase string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var confirmTmpl = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html>
<body>
<p>{{.Title}}</p>
<p>Please confirm your email address to activate your {{.AppName}} account.</p>
<p><a href="{{.Link}}">{{.Action}}</a></p>
<p>If the button does not work, open this link: {{.Link}}</p>
</body>
</html>
`))

// SMTPSender delivers confirmation mail through an SMTP relay.
type SMTPSender struct {
	cfg     Config
	appName string
	d       dialer
}

func NewSMTPSender(cfg Config, appName string) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Secure
	if cfg.IgnoreTLS && !cfg.RequireTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}
	return &SMTPSender{cfg: cfg, appName: appName, d: d}
}

func (s *SMTPSender) SendConfirmation(ctx context.Context, c service.Confirmation) error {
	l := logging.FromContext(ctx).With("svc", "mail.confirm")

	body, err := renderConfirmation(s.appName, ConfirmLink(s.cfg.FrontendBase, c.Hash))
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", c.To)
	m.SetHeader("Subject", "Confirm email")
	m.SetBody("text/html", body)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.d.DialAndSend(m); err != nil {
		l.Error("send failed", "host", s.cfg.Host, "error", err)
		return fmt.Errorf("smtp send: %w", err)
	}
	l.Info("confirmation sent")
	return nil
}

// LogSender is used when no SMTP host is configured. It logs the link so
// local environments can finish registration.
type LogSender struct {
	FrontendBase string
	Logger       *slog.Logger
}

func (s LogSender) SendConfirmation(ctx context.Context, c service.Confirmation) error {
	l := s.Logger
	if l == nil {
		l = logging.FromContext(ctx)
	}
	l.Info("confirmation mail not sent, smtp disabled", "to", c.To, "link", ConfirmLink(s.FrontendBase, c.Hash))
	return nil
}

func ConfirmLink(base, hash string) string {
	return strings.TrimRight(base, "/") + "/confirm-email?hash=" + url.QueryEscape(hash)
}

func renderConfirmation(appName, link string) (string, error) {
	var buf bytes.Buffer
	err := confirmTmpl.Execute(&buf, map[string]string{
		"Title":   "Confirm email",
		"AppName": appName,
		"Link":    link,
		"Action":  "Confirm email",
	})
	if err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}
