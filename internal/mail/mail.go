// Package mail sends the candidate-facing messages: the selection email on a
// pass decision and the self-scheduling invitation when the interview call
// never connected.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	_ "embed"

	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/selection.txt
var selectionTemplate string

//go:embed templates/schedule.txt
var scheduleTemplate string

var (
	selectionTmpl = template.Must(template.New("selection").Parse(selectionTemplate))
	scheduleTmpl  = template.Must(template.New("schedule").Parse(scheduleTemplate))
)

const (
	selectionSubject = "Congratulations! Interview Result – Arya Stack Technologies"
	scheduleSubject  = "Schedule your interview – Arya Stack Technologies"
)

// Sender delivers templated candidate emails.
type Sender interface {
	SendSelection(ctx context.Context, to, candidateName string) error
	SendSchedulingLink(ctx context.Context, to, candidateName, link string) error
}

// SMTP sends mail through an authenticated SMTP server.
type SMTP struct {
	client *gomail.Client
	from   string
}

func NewSMTP(host string, port int, username, password, from string) (*SMTP, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTP{client: client, from: from}, nil
}

func (s *SMTP) SendSelection(ctx context.Context, to, candidateName string) error {
	body, err := render(selectionTmpl, map[string]string{"Name": orDefault(candidateName, "Candidate")})
	if err != nil {
		return err
	}

	return s.send(ctx, to, selectionSubject, body)
}

func (s *SMTP) SendSchedulingLink(ctx context.Context, to, candidateName, link string) error {
	body, err := render(scheduleTmpl, map[string]string{
		"Name": orDefault(candidateName, "Candidate"),
		"Link": link,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, to, scheduleSubject, body)
}

func (s *SMTP) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}

func render(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}

	return buf.String(), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Noop is used when SMTP credentials are not configured.
type Noop struct{}

func (Noop) SendSelection(context.Context, string, string) error { return nil }

func (Noop) SendSchedulingLink(context.Context, string, string, string) error { return nil }
