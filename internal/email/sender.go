// Package email simula o envio de e-mails: valida o destinatário, gera um
// message id, registra no log e guarda a mensagem numa caixa de saída.
package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxOutbox = 1000

type Message struct {
	To      string   `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	From    string   `json:"from,omitempty"`
	CC      []string `json:"cc,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
}

type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Sent é uma mensagem aceita pelo Sender.
type Sent struct {
	Message
	MessageID string    `json:"messageId"`
	SentAt    time.Time `json:"sentAt"`
}

type Sender struct {
	from string
	log  *zap.Logger
	now  func() time.Time

	mu     sync.Mutex
	outbox []Sent
}

func NewSender(from string, log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{from: from, log: log, now: time.Now}
}

func IsValidEmail(addr string) bool {
	return emailRe.MatchString(addr)
}

func (s *Sender) Send(ctx context.Context, msg Message) Result {
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	if !IsValidEmail(msg.To) {
		return Result{Success: false, Error: "Invalid recipient email"}
	}
	if msg.From == "" {
		msg.From = s.from
	}

	now := s.now()
	messageID := fmt.Sprintf("MSG-%d-%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])

	s.log.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", messageID),
	)

	s.mu.Lock()
	s.outbox = append(s.outbox, Sent{Message: msg, MessageID: messageID, SentAt: now})
	if over := len(s.outbox) - maxOutbox; over > 0 {
		s.outbox = append(s.outbox[:0:0], s.outbox[over:]...)
	}
	s.mu.Unlock()

	return Result{Success: true, MessageID: messageID}
}

func (s *Sender) SendWelcome(ctx context.Context, to, name string) Result {
	return s.Send(ctx, Message{
		To:      to,
		Subject: "Welcome to our API",
		Body:    fmt.Sprintf("Hello %s, welcome to our platform!", name),
	})
}

func (s *Sender) SendPasswordReset(ctx context.Context, to, resetToken string) Result {
	return s.Send(ctx, Message{
		To:      to,
		Subject: "Password Reset",
		Body:    "Click here to reset your password: https://example.com/reset?token=" + resetToken,
	})
}

func (s *Sender) SendOrderConfirmation(ctx context.Context, to string, orderID int64) Result {
	return s.Send(ctx, Message{
		To:      to,
		Subject: fmt.Sprintf("Order Confirmation #%d", orderID),
		Body:    fmt.Sprintf("Your order #%d has been confirmed. Thank you for your purchase!", orderID),
	})
}

// Outbox devolve uma cópia das mensagens enviadas, da mais antiga para a mais recente.
func (s *Sender) Outbox() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Sent, len(s.outbox))
	copy(out, s.outbox)
	return out
}
