// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/platform/config"
	"github.com/taibuivan/shopora/internal/platform/mail"
	"github.com/taibuivan/shopora/pkg/clock"
)

/*
TestRootCommand_Tree lists the subcommands operators rely on.
*/
func TestRootCommand_Tree(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"worker", "mail"},
		{"user", "promote"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}

	promote, _, err := root.Find([]string{"user", "promote"})
	require.NoError(t, err)
	assert.NotNil(t, promote.Flags().Lookup("email"))
	assert.Equal(t, "admin", promote.Flags().Lookup("role").DefValue)

	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "1", down.Flags().Lookup("steps").DefValue)
}

/*
TestPublicBase prefers STORAGE_PUBLIC_URL over the backend host.
*/
func TestPublicBase(t *testing.T) {
	cfg := &config.Config{StorageBucket: "shopora-products"}
	assert.Equal(t, "http://localhost:9000/shopora-products", publicBase(cfg, "http://localhost:9000/"))

	cfg.StoragePublicURL = "https://cdn.shopora.app/products"
	assert.Equal(t, "https://cdn.shopora.app/products", publicBase(cfg, "http://localhost:9000"))
}

/*
TestMailers routes deferred mail through the queue only when one is set.
*/
func TestMailers(t *testing.T) {
	cfg := &config.Config{MailQueueChannel: "shopora-mail", AppName: "Shopora", AppURL: "http://localhost:3000"}

	direct := mailers(cfg, nil, clock.System())
	assert.Same(t, direct.Direct, direct.Deferred)

	queue, err := openQueue(context.Background(), &config.Config{MailQueue: config.MailQueueRedis}, nil)
	require.NoError(t, err)
	queued := mailers(cfg, queue, clock.System())
	assert.IsType(t, &mail.QueueMailer{}, queued.Deferred)
	assert.IsType(t, &mail.TemplateMailer{}, queued.Direct)

	none, err := openQueue(context.Background(), &config.Config{MailQueue: config.MailQueueNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}
