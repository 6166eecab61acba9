package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/cseku-cluster/cluster-backend/internal/jobs"
	"github.com/cseku-cluster/cluster-backend/internal/observability"
)

// Sender delivers a single composed message. SMTPMailer is the production
// implementation; tests substitute an in-memory recorder.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPConfig collects connection settings for the outbound mail server.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPMailer sends mail over a plain SMTP connection. In development this
// points at Mailpit, in production at the university relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send composes an RFC 822 message and hands it to the configured relay.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m == nil {
		return errors.New("mailer: not configured")
	}
	var msg strings.Builder
	msg.WriteString("From: " + m.cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String()))
}

// SendOTPJob delivers the verification-code emails enqueued by the API.
type SendOTPJob struct {
	Sender  Sender
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Mail    *observability.Metrics
}

// NewSendOTPJob initialises the OTP delivery handler.
func NewSendOTPJob(sender Sender, logger *slog.Logger, metrics *jobmetrics.Metrics, mail *observability.Metrics) *SendOTPJob {
	return &SendOTPJob{Sender: sender, Logger: logger, Metrics: metrics, Mail: mail}
}

// Handle executes the delivery of a single OTP message.
func (j *SendOTPJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sender == nil {
		return errors.New("send otp: handler not configured")
	}
	var payload SendOTPPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" || payload.OTP == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeSendOTP)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	subject, body := ComposeOTPMessage(payload.Name, payload.OTP)
	if err := j.Sender.Send(payload.To, subject, body); err != nil {
		resultErr = err
		j.Mail.ObserveMail("error")
		j.logger().Error("otp delivery failed",
			slog.String("to", payload.To),
			slog.Any("error", err),
		)
		return resultErr
	}

	j.Mail.ObserveMail("ok")
	j.logger().Info("otp delivered", slog.String("to", payload.To))
	return nil
}

// ComposeOTPMessage renders the subject and plain-text body for a
// verification code email.
func ComposeOTPMessage(name, otp string) (subject, body string) {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	subject = "Your CLUSTER verification code"
	body = fmt.Sprintf(
		"%s,\r\n\r\nYour verification code is %s.\r\n\r\nThe code expires in 10 minutes. If you did not request it you can ignore this email.\r\n\r\nCLUSTER, CSE Discipline, Khulna University\r\n",
		greeting, otp,
	)
	return subject, body
}

func (j *SendOTPJob) metrics() *jobmetrics.Metrics {
	if j == nil {
		return nil
	}
	return j.Metrics
}

func (j *SendOTPJob) logger() *slog.Logger {
	if j == nil || j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}
