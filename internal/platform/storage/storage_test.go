// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/platform/storage"
)

type memoryBackend struct {
	objects map[string][]byte
}

func (m *memoryBackend) EnsureBucket(context.Context) error { return nil }
func (m *memoryBackend) Bucket() string                     { return "products" }

func (m *memoryBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

/*
TestStore_UploadAndRemove round-trips a key through its public URL.
*/
func TestStore_UploadAndRemove(t *testing.T) {
	backend := &memoryBackend{objects: map[string][]byte{}}
	store := storage.NewStore(backend, "https://cdn.shopora.app/products/")

	url, err := store.Upload(context.Background(), "products/shoes-1700000000-0.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.shopora.app/products/products/shoes-1700000000-0.png", url)
	assert.Contains(t, backend.objects, "products/shoes-1700000000-0.png")

	require.NoError(t, store.Remove(context.Background(), url))
	assert.Empty(t, backend.objects)
}

func TestStore_RemoveForeignURL(t *testing.T) {
	store := storage.NewStore(&memoryBackend{objects: map[string][]byte{}}, "https://cdn.shopora.app/products")

	err := store.Remove(context.Background(), "https://elsewhere.example/a.png")
	assert.ErrorIs(t, err, storage.ErrForeignURL)

	_, ok := store.Key("https://cdn.shopora.app/products/")
	assert.False(t, ok)
}
