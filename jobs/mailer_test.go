package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.to = to
	s.subject = subject
	s.body = body
	return s.err
}

func TestSendOTPJobDeliversMessage(t *testing.T) {
	sender := &recordingSender{}
	job := NewSendOTPJob(sender, nil, nil, nil)

	task, err := NewSendOTPTask(SendOTPPayload{To: "ayesha@cseku.ac.bd", Name: "Ayesha", OTP: "482913"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, "ayesha@cseku.ac.bd", sender.to)
	assert.Contains(t, sender.subject, "verification code")
	assert.Contains(t, sender.body, "Hello Ayesha")
	assert.Contains(t, sender.body, "482913")
}

func TestSendOTPJobSkipsMalformedPayload(t *testing.T) {
	sender := &recordingSender{}
	job := NewSendOTPJob(sender, nil, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeSendOTP, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	task, err := NewSendOTPTask(SendOTPPayload{Name: "no recipient"})
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
	assert.Empty(t, sender.to)
}

func TestSendOTPJobPropagatesSendFailure(t *testing.T) {
	sendErr := errors.New("relay unreachable")
	job := NewSendOTPJob(&recordingSender{err: sendErr}, nil, nil, nil)

	task, err := NewSendOTPTask(SendOTPPayload{To: "ayesha@cseku.ac.bd", OTP: "482913"})
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), task), sendErr)
}
