// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/mq"
)

// ErrUnknownKind is returned for jobs whose kind has no template.
var ErrUnknownKind = errors.New("mail: unknown job kind")

// Worker consumes mail jobs from a queue and delivers them.
type Worker struct {
	backend  mq.Backend
	channel  string
	delivery Mailer
	log      *zap.Logger
}

// NewWorker creates a [Worker]. delivery is normally a [TemplateMailer].
func NewWorker(backend mq.Backend, channel string, delivery Mailer, log *zap.Logger) *Worker {
	return &Worker{backend: backend, channel: channel, delivery: delivery, log: log}
}

// Run blocks consuming jobs until ctx is cancelled.
func (worker *Worker) Run(ctx context.Context) error {
	worker.log.Info("mail_worker_started", zap.String("channel", worker.channel))
	err := worker.backend.Subscribe(ctx, worker.channel, worker.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	worker.log.Info("mail_worker_stopped")
	return nil
}

// Handle processes one message. Malformed jobs are dropped; delivery failures
// are returned so the backend can redeliver.
func (worker *Worker) Handle(ctx context.Context, msg mq.Message) error {
	var job Job
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		worker.log.Warn("mail_job_malformed", zap.String("message_id", msg.ID), zap.Error(err))
		return nil
	}

	err := Dispatch(ctx, worker.delivery, job)
	switch {
	case errors.Is(err, ErrUnknownKind):
		worker.log.Warn("mail_job_unknown_kind", zap.String("message_id", msg.ID), zap.String("kind", job.Kind))
		return nil
	case err != nil:
		worker.log.Error("mail_job_failed", zap.String("message_id", msg.ID), zap.String("kind", job.Kind), zap.Error(err))
		return err
	}

	worker.log.Info("mail_job_delivered", zap.String("message_id", msg.ID), zap.String("kind", job.Kind))
	return nil
}
