// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/pkg/slug"
	"github.com/taibuivan/shopora/pkg/uuid"
)

// # Repository

type memoryRepository struct {
	mu         sync.Mutex
	rows       map[string]product.Product
	categories map[string]product.CategoryRef
	ordered    map[string]bool
	reviews    map[string][]product.ReviewSummary
	collisions int
	now        time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:       map[string]product.Product{},
		categories: map[string]product.CategoryRef{},
		ordered:    map[string]bool{},
		reviews:    map[string][]product.ReviewSummary{},
		now:        time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (store *memoryRepository) addCategory(name string) string {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := uuid.New()
	store.categories[id] = product.CategoryRef{ID: id, Name: name, Slug: slug.From(name)}
	return id
}

// hydrate fills in what the SQL joins and subqueries would.
func (store *memoryRepository) hydrate(row product.Product) *product.Product {
	category := store.categories[row.CategoryID]
	row.Category = &category

	reviews := store.reviews[row.ID]
	row.ReviewCount = len(reviews)
	row.AverageRating = 0
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		row.AverageRating = float64(int(float64(sum)/float64(len(reviews))*10+0.5)) / 10
	}
	return &row
}

func (store *memoryRepository) matches(row product.Product, filter product.Filter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		haystack := strings.ToLower(row.Name + " " + row.Description)
		if filter.SearchSKU {
			haystack += " " + strings.ToLower(row.SKU)
		}
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if filter.CategoryID != "" && row.CategoryID != filter.CategoryID {
		return false
	}
	if filter.CategorySlug != "" && store.categories[row.CategoryID].Slug != filter.CategorySlug {
		return false
	}
	if filter.IsFeatured != nil && row.IsFeatured != *filter.IsFeatured {
		return false
	}
	if filter.IsActive != nil && row.IsActive != *filter.IsActive {
		return false
	}
	if filter.MinPrice != nil && row.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && row.Price > *filter.MaxPrice {
		return false
	}
	if filter.InStock && row.Stock <= 0 {
		return false
	}
	return true
}

func (store *memoryRepository) query(filter product.Filter) []*product.Product {
	result := []*product.Product{}
	for _, row := range store.rows {
		if store.matches(row, filter) {
			result = append(result, store.hydrate(row))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch filter.Sort {
		case product.SortPriceAsc:
			return a.Price < b.Price
		case product.SortPriceDesc:
			return a.Price > b.Price
		case product.SortNameAsc:
			return a.Name < b.Name
		case product.SortNameDesc:
			return a.Name > b.Name
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return result
}

func (store *memoryRepository) List(_ context.Context, filter product.Filter, limit, offset int) ([]*product.Product, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	result := store.query(filter)
	total := len(result)
	if offset >= total {
		return []*product.Product{}, total, nil
	}
	return result[offset:min(offset+limit, total)], total, nil
}

func (store *memoryRepository) Featured(_ context.Context, limit int) ([]*product.Product, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	yes := true
	result := store.query(product.Filter{IsFeatured: &yes, IsActive: &yes, InStock: true})
	return result[:min(limit, len(result))], nil
}

func (store *memoryRepository) Related(_ context.Context, of *product.Product, limit int) ([]*product.Product, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	yes := true
	result := []*product.Product{}
	for _, p := range store.query(product.Filter{CategoryID: of.CategoryID, IsActive: &yes, InStock: true}) {
		if p.ID != of.ID {
			result = append(result, p)
		}
	}
	return result[:min(limit, len(result))], nil
}

func (store *memoryRepository) find(match func(product.Product) bool) (*product.Product, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, row := range store.rows {
		if match(row) {
			return store.hydrate(row), nil
		}
	}
	return nil, apperr.NotFoundMessage(product.MsgNotFound)
}

func (store *memoryRepository) FindByID(_ context.Context, id string) (*product.Product, error) {
	return store.find(func(row product.Product) bool { return row.ID == id })
}

func (store *memoryRepository) FindBySlug(_ context.Context, productSlug string) (*product.Product, error) {
	return store.find(func(row product.Product) bool { return row.Slug == productSlug })
}

func (store *memoryRepository) LatestReviews(_ context.Context, productID string, limit int) ([]product.ReviewSummary, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	reviews := append([]product.ReviewSummary{}, store.reviews[productID]...)
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews[:min(limit, len(reviews))], nil
}

func (store *memoryRepository) taken(match func(product.Product) bool) (bool, error) {
	_, err := store.find(match)
	if apperr.HasCode(err, "NOT_FOUND") {
		return false, nil
	}
	return err == nil, err
}

func (store *memoryRepository) SlugTaken(_ context.Context, candidate, excludeID string) (bool, error) {
	return store.taken(func(row product.Product) bool { return row.ID != excludeID && row.Slug == candidate })
}

func (store *memoryRepository) SKUTaken(_ context.Context, sku, excludeID string) (bool, error) {
	return store.taken(func(row product.Product) bool { return row.ID != excludeID && row.SKU == sku })
}

func (store *memoryRepository) CategoryExists(_ context.Context, categoryID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, ok := store.categories[categoryID]
	return ok, nil
}

func (store *memoryRepository) HasOrders(_ context.Context, productID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.ordered[productID], nil
}

// collide consumes one pending collision and parks the slug on a phantom row.
func (store *memoryRepository) collide(candidate string) bool {
	if store.collisions == 0 {
		return false
	}
	store.collisions--
	phantom := uuid.New()
	store.rows[phantom] = product.Product{ID: phantom, Slug: candidate, SKU: "phantom-" + phantom}
	return true
}

func (store *memoryRepository) Create(_ context.Context, p *product.Product) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.collide(p.Slug) {
		return slug.ErrTaken
	}

	store.now = store.now.Add(time.Minute)
	p.ID = uuid.New()
	p.CreatedAt, p.UpdatedAt = store.now, store.now
	store.rows[p.ID] = *p
	return nil
}

func (store *memoryRepository) Update(_ context.Context, p *product.Product) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.rows[p.ID]; !ok {
		return apperr.NotFoundMessage(product.MsgNotFound)
	}
	if store.collide(p.Slug) {
		return slug.ErrTaken
	}

	store.now = store.now.Add(time.Minute)
	p.UpdatedAt = store.now
	store.rows[p.ID] = *p
	return nil
}

func (store *memoryRepository) mutate(id string, change func(*product.Product)) (*product.Product, error) {
	store.mu.Lock()
	row, ok := store.rows[id]
	if !ok {
		store.mu.Unlock()
		return nil, apperr.NotFoundMessage(product.MsgNotFound)
	}
	change(&row)
	store.rows[id] = row
	store.mu.Unlock()

	return store.FindByID(context.Background(), id)
}

func (store *memoryRepository) UpdateStock(_ context.Context, id string, stock int) (*product.Product, error) {
	return store.mutate(id, func(row *product.Product) { row.Stock = stock })
}

func (store *memoryRepository) ToggleFeatured(_ context.Context, id string) (*product.Product, error) {
	return store.mutate(id, func(row *product.Product) { row.IsFeatured = !row.IsFeatured })
}

func (store *memoryRepository) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.rows[id]; !ok {
		return apperr.NotFoundMessage(product.MsgNotFound)
	}
	delete(store.rows, id)
	return nil
}

// # Image Store

const imageBase = "https://cdn.test/products-bucket/"

type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	failAt  int // 1-based upload that fails; 0 never fails
	uploads int
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: map[string][]byte{}}
}

func (images *memoryImages) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	images.mu.Lock()
	defer images.mu.Unlock()

	images.uploads++
	if images.failAt != 0 && images.uploads == images.failAt {
		return "", errors.New("bucket unavailable")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	images.objects[key] = data
	return imageBase + key, nil
}

func (images *memoryImages) Remove(_ context.Context, url string) error {
	images.mu.Lock()
	defer images.mu.Unlock()

	key := strings.TrimPrefix(url, imageBase)
	if _, ok := images.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(images.objects, key)
	return nil
}

func (images *memoryImages) keys() []string {
	images.mu.Lock()
	defer images.mu.Unlock()

	keys := make([]string, 0, len(images.objects))
	for key := range images.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
