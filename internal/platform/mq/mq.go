// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mq is a broker-agnostic publish/subscribe layer.

Three backends are provided: Redis lists, RabbitMQ queues and Google Cloud
Pub/Sub topics. The mail queue publishes through [Backend] and the mail
worker consumes with [Backend.Subscribe].

Delivery is at-least-once: a handler error nacks (or requeues) the message.
The Redis backend retries after an exponential backoff and dead-letters a
message after five attempts.
*/
package mq

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

func newMessageID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}
