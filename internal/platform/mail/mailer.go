// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail renders and delivers account e-mails.

	TemplateMailer  renders HTML/text bodies and hands them to a Sender.
	SMTPSender      delivers over SMTP (go-mail) with STARTTLS when offered.
	QueueMailer     publishes jobs to an mq.Backend instead of sending.
	Worker          consumes those jobs and delivers them with a TemplateMailer.

Tokens are embedded in links only; they are never logged.
*/
package mail

import "context"

// Kinds of account mail, also used as the "kind" metric label.
const (
	KindVerification  = "verification"
	KindPasswordReset = "password_reset"
	KindWelcome       = "welcome"
)

// Mailer sends the account mails of the authentication flow.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

// Message is a rendered e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered [Message].
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
