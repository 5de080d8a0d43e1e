package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPTransport sends through a mail relay with STARTTLS.
type SMTPTransport struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPTransport(host string, port int, user, password, from, fromName string) *SMTPTransport {
	return &SMTPTransport{
		dialer:   gomail.NewDialer(host, port, user, password),
		from:     from,
		fromName: fromName,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.from, t.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// MailEvent is what KafkaTransport publishes for the mail service to deliver.
type MailEvent struct {
	ID      string    `json:"id"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html"`
	SentAt  time.Time `json:"sent_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaTransport publishes mail events, keyed by recipient.
type KafkaTransport struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaTransport uses SASL/PLAIN over TLS when a username is set.
func NewKafkaTransport(broker, topic, username, password string) *KafkaTransport {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	if username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return &KafkaTransport{writer: w, now: time.Now}
}

func (t *KafkaTransport) Send(ctx context.Context, to, subject, body string) error {
	ev := MailEvent{ID: uuid.NewString(), To: to, Subject: subject, HTML: body, SentAt: t.now().UTC()}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := t.writer.WriteMessages(ctx, kafka.Message{Key: []byte(to), Value: value, Time: ev.SentAt}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (t *KafkaTransport) Close() error { return t.writer.Close() }

// LogTransport only logs; used in development.
type LogTransport struct {
	log *zap.Logger
}

func NewLogTransport(log *zap.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(_ context.Context, to, subject, body string) error {
	t.log.Info("mail (not sent)", zap.String("to", to), zap.String("subject", subject), zap.Int("body_len", len(body)))
	return nil
}
