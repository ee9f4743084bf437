// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// SMTPSender delivers messages over SMTP, upgrading with STARTTLS when the
// relay advertises it.
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender creates an [SMTPSender].
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &SMTPSender{config: config}
}

// Compose builds the multipart/alternative message for msg, with Date and
// Message-ID set.
func (sender *SMTPSender) Compose(msg Message) (*gomail.Msg, error) {
	message := gomail.NewMsg()
	if err := message.FromFormat(sender.config.FromName, sender.config.From); err != nil {
		return nil, fmt.Errorf("mail_from_invalid: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail_to_invalid: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetDate()
	message.SetMessageID()
	message.SetBodyString(gomail.TypeTextPlain, msg.Text)
	message.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	return message, nil
}

// Send implements [Sender]. One connection is opened per message.
func (sender *SMTPSender) Send(ctx context.Context, msg Message) error {
	message, err := sender.Compose(msg)
	if err != nil {
		return err
	}

	options := []gomail.Option{
		gomail.WithPort(sender.config.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(sender.config.Timeout),
	}
	if sender.config.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(sender.config.Username),
			gomail.WithPassword(sender.config.Password),
		)
	}

	client, err := gomail.NewClient(sender.config.Host, options...)
	if err != nil {
		return fmt.Errorf("smtp_client_failed: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("smtp_send_failed: %w", err)
	}
	return nil
}
