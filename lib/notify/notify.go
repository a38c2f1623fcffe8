// Package notify sends a plain-text summary email after a sync run touches
// the active set. It is optional, a zero SmtpConfig turns it off.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jordan-wright/email"
)

var tracer = otel.Tracer("lib/notify")

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

// Enabled reports whether the config carries enough to send anything.
func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && len(c.Recipients) > 0
}

type Notifier struct {
	config SmtpConfig
}

func NewNotifier(config SmtpConfig) Notifier {
	return Notifier{config: config}
}

// ChangedTickers emails the list of tickers whose short positions moved this
// run. A no-op when notifications are disabled or nothing changed.
func (n Notifier) ChangedTickers(ctx context.Context, tickers []string) error {
	_, span := tracer.Start(ctx, "ChangedTickers")
	defer span.End()

	if !n.config.Enabled() || len(tickers) == 0 {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Shortwatch <%s>", n.config.EmailAddress)
	mail.To = n.config.Recipients
	mail.Subject = fmt.Sprintf("Short positions moved on %d ticker(s)", len(tickers))
	mail.Text = []byte(changedTickersBody(tickers))

	addr := fmt.Sprintf("%s:%d", n.config.Server, n.config.Port)
	err := mail.Send(addr, smtp.PlainAuth("", n.config.EmailAddress, n.config.Password, n.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

func changedTickersBody(tickers []string) string {
	var b strings.Builder
	b.WriteString("Disclosed short positions changed for:\n\n")
	for _, ticker := range tickers {
		fmt.Fprintf(&b, "  - %s\n", ticker)
	}
	b.WriteString("\nCheck the regulator pages for the updated figures.\n")
	return b.String()
}
