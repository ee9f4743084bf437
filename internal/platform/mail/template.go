// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/pkg/clock"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Link paths on the storefront.
const (
	verifyEmailPath   = "/auth/verify-email"
	resetPasswordPath = "/auth/reset-password-confirm"
)

// Branding names the sender and the storefront the links point to.
type Branding struct {
	AppName string
	AppURL  string
}

// TemplateMailer renders account mails and delivers them through a [Sender].
type TemplateMailer struct {
	sender   Sender
	branding Branding
	clock    clock.Clock
}

// NewTemplateMailer creates a [TemplateMailer].
func NewTemplateMailer(sender Sender, branding Branding, clk clock.Clock) *TemplateMailer {
	branding.AppURL = strings.TrimRight(branding.AppURL, "/")
	return &TemplateMailer{sender: sender, branding: branding, clock: clk}
}

type templateData struct {
	AppName string
	Link    string
	Name    string
	Year    int
}

/*
SendVerificationEmail sends the link that confirms ownership of email.

Parameters:
  - email: recipient
  - token: opaque verification token

Returns:
  - error: rendering or delivery failure
*/
func (mailer *TemplateMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	link := mailer.link(verifyEmailPath, token)
	text := fmt.Sprintf("Welcome to %s!\n\nPlease verify your email address by visiting this link:\n%s\n\nThis link will expire in 24 hours.\n\nIf you didn't create an account, you can safely ignore this email.\n",
		mailer.branding.AppName, link)

	return mailer.deliver(ctx, KindVerification, email,
		"Verify Your Email - "+mailer.branding.AppName,
		"verification.html", templateData{Link: link}, text)
}

/*
SendPasswordResetEmail sends the link that lets the owner of email choose a
new password.
*/
func (mailer *TemplateMailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	link := mailer.link(resetPasswordPath, token)
	text := fmt.Sprintf("Password Reset Request - %s\n\nWe received a request to reset your password.\n\nClick this link to reset your password:\n%s\n\nThis link will expire in 1 hour.\n\nIf you didn't request this, please ignore this email.\n",
		mailer.branding.AppName, link)

	return mailer.deliver(ctx, KindPasswordReset, email,
		"Reset Your Password - "+mailer.branding.AppName,
		"password_reset.html", templateData{Link: link}, text)
}

// SendWelcomeEmail greets a newly verified identity.
func (mailer *TemplateMailer) SendWelcomeEmail(ctx context.Context, email, name string) error {
	greeting := name
	if greeting == "" {
		greeting = "there"
	}
	text := fmt.Sprintf("Hi %s!\n\nYour email has been verified successfully. Welcome to %s.\n\n%s\n",
		greeting, mailer.branding.AppName, mailer.branding.AppURL)

	return mailer.deliver(ctx, KindWelcome, email,
		"Welcome to "+mailer.branding.AppName+"!",
		"welcome.html", templateData{Link: mailer.branding.AppURL, Name: name}, text)
}

func (mailer *TemplateMailer) link(path, token string) string {
	return mailer.branding.AppURL + path + "?token=" + url.QueryEscape(token)
}

func (mailer *TemplateMailer) deliver(ctx context.Context, kind, to, subject, name string, data templateData, text string) error {
	data.AppName = mailer.branding.AppName
	data.Year = mailer.clock.Now().Year()

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		metrics.MailSentTotal.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("mail_render_failed: %w", err)
	}

	err := mailer.sender.Send(ctx, Message{To: to, Subject: subject, HTML: body.String(), Text: text})
	if err != nil {
		metrics.MailSentTotal.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("mail_send_%s_failed: %w", kind, err)
	}

	metrics.MailSentTotal.WithLabelValues(kind, "sent").Inc()
	return nil
}
