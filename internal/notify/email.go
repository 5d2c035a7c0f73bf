package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"gopkg.in/gomail.v2"
)

// Sender часть *gomail.Dialer, нужная для отправки
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier отправляет уведомления на почту оператора
type EmailNotifier struct {
	sender Sender
	from   string
}

func NewEmailNotifier(sender Sender, from string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from}
}

// NewSMTPDialer создаёт gomail dialer по настройкам SMTP
func NewSMTPDialer(host string, port int, user, pass string) *gomail.Dialer {
	return gomail.NewDialer(host, port, user, pass)
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(_ context.Context, resource *model.Resource, msg Message) error {
	if resource.OperatorEmail == nil || *resource.OperatorEmail == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", *resource.OperatorEmail)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
