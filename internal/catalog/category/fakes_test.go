// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/shopora/internal/catalog/category"
	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/pkg/slug"
	"github.com/taibuivan/shopora/pkg/uuid"
)

// memoryRepository keeps categories in a map. Setting collisions makes the
// next writes fail as if another writer had claimed the slug first.
type memoryRepository struct {
	mu         sync.Mutex
	rows       map[string]category.Category
	products   map[string]int
	collisions int
	now        time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:     map[string]category.Category{},
		products: map[string]int{},
		now:      time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (store *memoryRepository) withCount(row category.Category) *category.Category {
	row.ProductCount = store.products[row.ID]
	return &row
}

func (store *memoryRepository) List(_ context.Context, filter category.Filter, limit, offset int) ([]*category.Category, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matches := []*category.Category{}
	for _, row := range store.rows {
		if filter.IsActive != nil && row.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			description := ""
			if row.Description != nil {
				description = *row.Description
			}
			if !strings.Contains(strings.ToLower(row.Name), needle) && !strings.Contains(strings.ToLower(description), needle) {
				continue
			}
		}
		matches = append(matches, store.withCount(row))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	total := len(matches)
	if offset >= total {
		return []*category.Category{}, total, nil
	}
	end := min(offset+limit, total)
	return matches[offset:end], total, nil
}

func (store *memoryRepository) ListActive(_ context.Context) ([]*category.Category, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	active := []*category.Category{}
	for _, row := range store.rows {
		if row.IsActive {
			active = append(active, store.withCount(row))
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active, nil
}

func (store *memoryRepository) FindByID(_ context.Context, id string) (*category.Category, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFoundMessage(category.MsgNotFound)
	}
	return store.withCount(row), nil
}

func (store *memoryRepository) NameTaken(_ context.Context, name, excludeID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for id, row := range store.rows {
		if id != excludeID && strings.EqualFold(row.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (store *memoryRepository) SlugTaken(_ context.Context, candidate, excludeID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for id, row := range store.rows {
		if id != excludeID && row.Slug == candidate {
			return true, nil
		}
	}
	return false, nil
}

// collide consumes one pending collision. The colliding slug is recorded on
// a phantom row so that the regenerated slug differs.
func (store *memoryRepository) collide(candidate string) bool {
	if store.collisions == 0 {
		return false
	}
	store.collisions--
	phantom := uuid.New()
	store.rows[phantom] = category.Category{ID: phantom, Name: "phantom-" + phantom, Slug: candidate}
	return true
}

func (store *memoryRepository) Create(_ context.Context, c *category.Category) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.collide(c.Slug) {
		return slug.ErrTaken
	}

	store.now = store.now.Add(time.Minute)
	c.ID = uuid.New()
	c.CreatedAt, c.UpdatedAt = store.now, store.now
	store.rows[c.ID] = *c
	return nil
}

func (store *memoryRepository) Update(_ context.Context, c *category.Category) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.rows[c.ID]; !ok {
		return apperr.NotFoundMessage(category.MsgNotFound)
	}
	if store.collide(c.Slug) {
		return slug.ErrTaken
	}

	store.now = store.now.Add(time.Minute)
	c.UpdatedAt = store.now
	saved := *c
	saved.ProductCount = 0
	store.rows[c.ID] = saved
	return nil
}

func (store *memoryRepository) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.rows[id]; !ok {
		return apperr.NotFoundMessage(category.MsgNotFound)
	}
	delete(store.rows, id)
	return nil
}
