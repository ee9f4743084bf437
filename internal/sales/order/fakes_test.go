// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/sales/order"
	"github.com/taibuivan/shopora/pkg/uuid"
)

// # Repository

type memoryRepository struct {
	mu         sync.Mutex
	rows       map[string]order.Order
	collisions int
	now        time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows: map[string]order.Order{},
		now:  time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (store *memoryRepository) NumberTaken(_ context.Context, number string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, ok := store.rows[number]
	return ok, nil
}

func (store *memoryRepository) Create(_ context.Context, o *order.Order) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	// A pending collision simulates a concurrent checkout that inserted the
	// same number between the existence check and this insert.
	if store.collisions > 0 {
		store.collisions--
		store.rows[o.OrderNumber] = order.Order{ID: uuid.New(), OrderNumber: o.OrderNumber}
		return order.ErrNumberTaken
	}
	if _, ok := store.rows[o.OrderNumber]; ok {
		return order.ErrNumberTaken
	}

	store.now = store.now.Add(time.Minute)
	o.ID = uuid.New()
	o.CreatedAt, o.UpdatedAt = store.now, store.now
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
	}
	store.rows[o.OrderNumber] = *o
	return nil
}

func (store *memoryRepository) List(_ context.Context, filter order.Filter, limit, offset int) ([]*order.Order, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	result := []*order.Order{}
	for _, row := range store.rows {
		if filter.UserID != "" && row.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		row := row
		result = append(result, &row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })

	total := len(result)
	if offset >= total {
		return []*order.Order{}, total, nil
	}
	return result[offset:min(offset+limit, total)], total, nil
}

func (store *memoryRepository) FindByNumber(_ context.Context, number string) (*order.Order, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.rows[number]
	if !ok {
		return nil, apperr.NotFoundMessage(order.MsgNotFound)
	}
	return &row, nil
}

// # Catalog

type catalog map[string]*product.Product

func (products catalog) FindByID(_ context.Context, id string) (*product.Product, error) {
	if p, ok := products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, apperr.NotFoundMessage(product.MsgNotFound)
}
