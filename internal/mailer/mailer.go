package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a single message to one recipient. Implementations must
// respect the context deadline.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends mail through a plain SMTP relay.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTP(host string, port int, user, pass, from string) *SMTP {
	return &SMTP{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// Send dials and sends in a goroutine so the caller's deadline is honored;
// gomail itself has no context support.
func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			logrus.WithError(err).WithField("to", to).Error("email send failed")
		}
		return err
	case <-ctx.Done():
		logrus.WithField("to", to).Warn("email send timed out")
		return ctx.Err()
	}
}
