// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage stores product images in an object store.

Two backends implement [ObjectStorage]: MinIO (any S3-compatible service)
and Google Cloud Storage. [Store] adds public URL mapping on top, so that
the catalog only ever deals in URLs.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// ErrForeignURL is returned by [Store.Remove] for URLs outside the public base.
var ErrForeignURL = errors.New("storage: url does not belong to this store")

// Store maps object keys to public URLs under baseURL.
type Store struct {
	backend ObjectStorage
	baseURL string
}

// NewStore wraps backend. baseURL is the public prefix objects are served
// from, e.g. "https://cdn.shopora.app/shopora-products".
func NewStore(backend ObjectStorage, baseURL string) *Store {
	return &Store{backend: backend, baseURL: strings.TrimRight(baseURL, "/")}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Store) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Upload stores r under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("storage_upload_failed: %w", err)
	}
	return s.URL(key), nil
}

// Remove deletes the object behind a public URL produced by [Store.Upload].
func (s *Store) Remove(ctx context.Context, url string) error {
	key, ok := s.Key(url)
	if !ok {
		return ErrForeignURL
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("storage_remove_failed: %w", err)
	}
	return nil
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Key recovers the object key from a public URL.
func (s *Store) Key(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
