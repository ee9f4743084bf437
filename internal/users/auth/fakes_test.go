// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/background"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/internal/users/auth"
	"github.com/taibuivan/shopora/pkg/clock"
)

// # Profile Store

type memoryProfiles struct {
	mu   sync.Mutex
	rows map[string]auth.Profile
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{rows: map[string]auth.Profile{}}
}

func (store *memoryProfiles) find(match func(auth.Profile) bool) (*auth.Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, row := range store.rows {
		if match(row) {
			found := row
			return &found, nil
		}
	}
	return nil, apperr.NotFoundMessage(auth.MsgUserNotFound)
}

func (store *memoryProfiles) FindByEmail(_ context.Context, email string) (*auth.Profile, error) {
	email = strings.ToLower(email)
	return store.find(func(row auth.Profile) bool { return row.Email == email })
}

func (store *memoryProfiles) FindByID(_ context.Context, id string) (*auth.Profile, error) {
	return store.find(func(row auth.Profile) bool { return row.ID == id })
}

func (store *memoryProfiles) FindByVerificationToken(_ context.Context, token string, now time.Time) (*auth.Profile, error) {
	return store.find(func(row auth.Profile) bool {
		return row.VerifyToken != nil && *row.VerifyToken == token && sec.TokenLive(row.VerifyTokenExpiresAt, now)
	})
}

func (store *memoryProfiles) FindByResetToken(_ context.Context, token string, now time.Time) (*auth.Profile, error) {
	return store.find(func(row auth.Profile) bool {
		return row.ResetToken != nil && *row.ResetToken == token && sec.TokenLive(row.ResetTokenExpiresAt, now)
	})
}

func (store *memoryProfiles) Create(_ context.Context, profile *auth.Profile) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, row := range store.rows {
		if row.Email == strings.ToLower(profile.Email) {
			return apperr.Duplicate(auth.MsgEmailRegistered)
		}
	}
	profile.Email = strings.ToLower(profile.Email)
	store.rows[profile.ID] = *profile
	return nil
}

func (store *memoryProfiles) Update(_ context.Context, id string, update auth.ProfileUpdate) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.rows[id]
	if !ok {
		return apperr.NotFoundMessage(auth.MsgUserNotFound)
	}

	if update.PasswordHash != nil {
		row.PasswordHash = *update.PasswordHash
	}
	if update.FullName != nil {
		row.FullName = *update.FullName
	}
	if update.EmailVerified != nil {
		row.EmailVerified = *update.EmailVerified
	}
	if update.VerifyToken != nil {
		row.VerifyToken, row.VerifyTokenExpiresAt = tokenPair(update.VerifyToken)
	}
	if update.ResetToken != nil {
		row.ResetToken, row.ResetTokenExpiresAt = tokenPair(update.ResetToken)
	}
	if update.RefreshToken != nil {
		row.RefreshToken = nil
		if *update.RefreshToken != "" {
			value := *update.RefreshToken
			row.RefreshToken = &value
		}
	}

	store.rows[id] = row
	return nil
}

func (store *memoryProfiles) SetRole(_ context.Context, email string, role sec.UserRole) (*auth.Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for id, row := range store.rows {
		if row.Email == strings.ToLower(email) {
			row.Role = role
			store.rows[id] = row
			return &row, nil
		}
	}
	return nil, apperr.NotFoundMessage(auth.MsgUserNotFound)
}

func (store *memoryProfiles) mustGet(t *testing.T, email string) auth.Profile {
	t.Helper()
	profile, err := store.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	return *profile
}

func tokenPair(change *auth.TokenChange) (*string, *time.Time) {
	if change.Token == "" {
		return nil, nil
	}
	token, expires := change.Token, change.ExpiresAt
	return &token, &expires
}

// # Mailer

type sentMail struct {
	kind  string
	email string
	value string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (mailer *recordingMailer) add(kind, email, value string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.err != nil {
		return mailer.err
	}
	mailer.sent = append(mailer.sent, sentMail{kind: kind, email: email, value: value})
	return nil
}

func (mailer *recordingMailer) SendVerificationEmail(_ context.Context, email, token string) error {
	return mailer.add("verification", email, token)
}

func (mailer *recordingMailer) SendPasswordResetEmail(_ context.Context, email, token string) error {
	return mailer.add("password_reset", email, token)
}

func (mailer *recordingMailer) SendWelcomeEmail(_ context.Context, email, name string) error {
	return mailer.add("welcome", email, name)
}

func (mailer *recordingMailer) all() []sentMail {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return append([]sentMail(nil), mailer.sent...)
}

// # Fixture

var epoch = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	profiles *memoryProfiles
	deferred *recordingMailer
	direct   *recordingMailer
	runner   *background.Runner
	clock    *clock.FixedClock
	tokens   *sec.TokenService
	provider *auth.LocalProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		profiles: newMemoryProfiles(),
		deferred: &recordingMailer{},
		direct:   &recordingMailer{},
		runner:   background.NewRunner(zap.NewNop(), time.Second),
		clock:    clock.Fixed(epoch),
	}
	f.tokens = sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "shopora.test",
	}, f.clock)
	f.provider = auth.NewLocalProvider(
		f.profiles,
		f.tokens,
		auth.Mailers{Deferred: f.deferred, Direct: f.direct},
		f.runner,
		f.clock,
	)
	return f
}

// settle waits for the best-effort mail tasks.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.runner.Wait(ctx))
}

func (f *fixture) signUp(t *testing.T, email, password string) *auth.PublicUser {
	t.Helper()
	user, err := f.provider.SignUp(context.Background(), auth.SignUpInput{Email: email, Password: password, FullName: "Ana Lima"})
	require.NoError(t, err)
	f.settle(t)
	return user
}
