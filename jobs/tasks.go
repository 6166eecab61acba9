package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendOTP is the task type for delivering registration codes.
	TaskTypeSendOTP = "mail:send_otp"
)

// SendOTPPayload carries everything the mail worker needs to deliver a
// verification code.
type SendOTPPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
	OTP  string `json:"otp"`
}

// NewSendOTPTask constructs an Asynq task for an OTP delivery.
func NewSendOTPTask(payload SendOTPPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendOTP, data), nil
}

// Client submits jobs to the queue. It satisfies the auth service mailer
// port so registration only ever enqueues and never blocks on SMTP.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// SendOTP enqueues an OTP delivery task.
func (c *Client) SendOTP(ctx context.Context, email, name, otp string) error {
	task, err := NewSendOTPTask(SendOTPPayload{To: email, Name: name, OTP: otp})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
