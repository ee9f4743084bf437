// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/shopora/internal/platform/mq"
)

// Job is the queued form of an account mail.
type Job struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
	Name  string `json:"name,omitempty"`
}

// QueueMailer implements [Mailer] by publishing a [Job] per mail.
type QueueMailer struct {
	backend mq.Backend
	channel string
}

// NewQueueMailer creates a [QueueMailer] publishing to channel.
func NewQueueMailer(backend mq.Backend, channel string) *QueueMailer {
	return &QueueMailer{backend: backend, channel: channel}
}

func (mailer *QueueMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	return mailer.publish(ctx, Job{Kind: KindVerification, Email: email, Token: token})
}

func (mailer *QueueMailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	return mailer.publish(ctx, Job{Kind: KindPasswordReset, Email: email, Token: token})
}

func (mailer *QueueMailer) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return mailer.publish(ctx, Job{Kind: KindWelcome, Email: email, Name: name})
}

func (mailer *QueueMailer) publish(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mail_job_encode_failed: %w", err)
	}

	_, err = mailer.backend.Publish(ctx, mailer.channel, data, map[string]string{"kind": job.Kind})
	if err != nil {
		return fmt.Errorf("mail_job_publish_failed: %w", err)
	}
	return nil
}

// Dispatch delivers job through mailer.
func Dispatch(ctx context.Context, mailer Mailer, job Job) error {
	switch job.Kind {
	case KindVerification:
		return mailer.SendVerificationEmail(ctx, job.Email, job.Token)
	case KindPasswordReset:
		return mailer.SendPasswordResetEmail(ctx, job.Email, job.Token)
	case KindWelcome:
		return mailer.SendWelcomeEmail(ctx, job.Email, job.Name)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind)
	}
}
