// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/pkg/clock"
	"github.com/taibuivan/shopora/pkg/pointer"
)

type fixture struct {
	service  *product.Service
	repo     *memoryRepository
	images   *memoryImages
	clock    *clock.FixedClock
	category string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemoryRepository()
	images := newMemoryImages()
	clk := clock.Fixed(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		service:  product.NewService(repo, images, clk, zap.NewNop()),
		repo:     repo,
		images:   images,
		clock:    clk,
		category: repo.addCategory("Shoes"),
	}
}

func (f *fixture) input(name, sku string) product.CreateInput {
	return product.CreateInput{
		Name:        name,
		Description: "A comfortable everyday product.",
		Price:       100,
		Stock:       5,
		CategoryID:  f.category,
		SKU:         sku,
		CreatedBy:   "0195b1a2-0000-7000-8000-00000000a11c",
	}
}

func (f *fixture) create(t *testing.T, input product.CreateInput) *product.Product {
	t.Helper()
	created, err := f.service.Create(context.Background(), input)
	require.NoError(t, err)
	return created
}

func jpeg(name string) product.Upload {
	return product.Upload{Filename: name, ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")}
}

/*
TestService_Create stores the product, its defaults and its images.
*/
func TestService_Create(t *testing.T) {
	f := newFixture(t)

	input := f.input("Air Max 90", "AM-090")
	input.Images = []product.Upload{jpeg("a.jpg"), {Filename: "b.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}}
	created := f.create(t, input)

	assert.Equal(t, "air-max-90", created.Slug)
	assert.True(t, created.IsActive)
	assert.Equal(t, "Shoes", created.Category.Name)
	assert.Equal(t, []string{}, created.Sizes)
	assert.Equal(t, []string{
		imageBase + "products/air-max-90-1772366400-1.jpg",
		imageBase + "products/air-max-90-1772366400-2.png",
	}, created.Images)
	assert.Equal(t, "0195b1a2-0000-7000-8000-00000000a11c", pointer.Val(created.CreatedBy))
}

/*
TestService_Create_Rejections covers validation, missing categories and
duplicate SKUs. Nothing may be uploaded when a request is rejected.
*/
func TestService_Create_Rejections(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.input("Air Max 90", "AM-090"))

	tests := []struct {
		name   string
		mutate func(*product.CreateInput)
		code   string
	}{
		{"short_name", func(in *product.CreateInput) { in.Name = "AB" }, "VALIDATION_ERROR"},
		{"short_description", func(in *product.CreateInput) { in.Description = "too short" }, "VALIDATION_ERROR"},
		{"zero_price", func(in *product.CreateInput) { in.Price = 0 }, "VALIDATION_ERROR"},
		{"discount_not_below_price", func(in *product.CreateInput) { in.DiscountPrice = pointer.To(100.0) }, "VALIDATION_ERROR"},
		{"negative_stock", func(in *product.CreateInput) { in.Stock = -1 }, "VALIDATION_ERROR"},
		{"short_sku", func(in *product.CreateInput) { in.SKU = "AB" }, "VALIDATION_ERROR"},
		{"zero_weight", func(in *product.CreateInput) { in.Weight = pointer.To(0.0) }, "VALIDATION_ERROR"},
		{"bad_category_id", func(in *product.CreateInput) { in.CategoryID = "shoes" }, "VALIDATION_ERROR"},
		{"too_many_images", func(in *product.CreateInput) {
			for i := 0; i < 6; i++ {
				in.Images = append(in.Images, jpeg("x.jpg"))
			}
		}, "VALIDATION_ERROR"},
		{"gif_image", func(in *product.CreateInput) {
			in.Images = []product.Upload{{Filename: "x.gif", ContentType: "image/gif", Size: 1, Body: strings.NewReader("g")}}
		}, "VALIDATION_ERROR"},
		{"oversized_image", func(in *product.CreateInput) {
			in.Images = []product.Upload{{Filename: "x.jpg", ContentType: "image/jpeg", Size: 6 << 20, Body: strings.NewReader("j")}}
		}, "VALIDATION_ERROR"},
		{"unknown_category", func(in *product.CreateInput) { in.CategoryID = "0195b1a2-0000-7000-8000-0000000000ff" }, "NOT_FOUND"},
		{"duplicate_sku", func(in *product.CreateInput) { in.Name = "Air Max 95" }, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := f.input("Air Max 95", "AM-095")
			if tt.name == "duplicate_sku" {
				input.SKU = "AM-090"
			}
			input.Images = []product.Upload{jpeg("ok.jpg")}
			tt.mutate(&input)

			_, err := f.service.Create(context.Background(), input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, f.images.keys())
		})
	}
}

/*
TestService_Create_UploadFailure removes the images already stored.
*/
func TestService_Create_UploadFailure(t *testing.T) {
	f := newFixture(t)
	f.images.failAt = 2

	input := f.input("Air Max 90", "AM-090")
	input.Images = []product.Upload{jpeg("a.jpg"), jpeg("b.jpg")}

	_, err := f.service.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "INTERNAL_ERROR"))
	assert.Empty(t, f.images.keys())
}

/*
TestService_Create_SlugRace retries with a new slug and uploads only once.
*/
func TestService_Create_SlugRace(t *testing.T) {
	f := newFixture(t)
	f.repo.collisions = 1

	input := f.input("Air Max 90", "AM-090")
	input.Images = []product.Upload{jpeg("a.jpg")}
	created := f.create(t, input)

	assert.Equal(t, "air-max-90-1", created.Slug)
	assert.Equal(t, 1, f.images.uploads)
}

/*
TestService_Update covers renames, image replacement and SKU checks.
*/
func TestService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := f.input("Air Max 90", "AM-090")
	input.Images = []product.Upload{jpeg("a.jpg"), jpeg("b.jpg")}
	created := f.create(t, input)
	f.create(t, f.input("Air Max 95", "AM-095"))

	t.Run("rename_and_replace_image", func(t *testing.T) {
		f.clock.Advance(time.Hour)
		updated, err := f.service.Update(ctx, created.ID, product.UpdateInput{
			Name:         pointer.To("Air Max 97"),
			RemoveImages: []string{created.Images[0], "https://elsewhere.test/x.jpg"},
			Images:       []product.Upload{jpeg("c.jpg")},
		})
		require.NoError(t, err)

		assert.Equal(t, "air-max-97", updated.Slug)
		assert.Equal(t, []string{
			created.Images[1],
			imageBase + "products/air-max-97-1772370000-1.jpg",
		}, updated.Images)
		assert.NotContains(t, f.images.keys(), strings.TrimPrefix(created.Images[0], imageBase))
	})

	t.Run("image_limit_counts_kept_images", func(t *testing.T) {
		uploads := []product.Upload{jpeg("1.jpg"), jpeg("2.jpg"), jpeg("3.jpg"), jpeg("4.jpg")}
		_, err := f.service.Update(ctx, created.ID, product.UpdateInput{Images: uploads})
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("discount_checked_against_current_price", func(t *testing.T) {
		_, err := f.service.Update(ctx, created.ID, product.UpdateInput{DiscountPrice: pointer.To(150.0)})
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

		updated, err := f.service.Update(ctx, created.ID, product.UpdateInput{DiscountPrice: pointer.To(80.0)})
		require.NoError(t, err)
		assert.Equal(t, 80.0, updated.UnitPrice())

		updated, err = f.service.Update(ctx, created.ID, product.UpdateInput{ClearDiscountPrice: true})
		require.NoError(t, err)
		assert.Nil(t, updated.DiscountPrice)
	})

	t.Run("sku_of_other_product", func(t *testing.T) {
		_, err := f.service.Update(ctx, created.ID, product.UpdateInput{SKU: pointer.To("AM-095")})
		assert.True(t, apperr.HasCode(err, "CONFLICT"))
	})

	t.Run("own_sku_is_free", func(t *testing.T) {
		_, err := f.service.Update(ctx, created.ID, product.UpdateInput{SKU: pointer.To("AM-090"), Stock: pointer.To(0)})
		require.NoError(t, err)
	})
}

/*
TestService_Delete refuses ordered products and removes stored images.
*/
func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := f.input("Air Max 90", "AM-090")
	input.Images = []product.Upload{jpeg("a.jpg")}
	created := f.create(t, input)

	f.repo.ordered[created.ID] = true
	err := f.service.Delete(ctx, created.ID)
	assert.True(t, apperr.HasCode(err, "CONFLICT"))
	assert.Len(t, f.images.keys(), 1)

	f.repo.ordered[created.ID] = false
	require.NoError(t, f.service.Delete(ctx, created.ID))
	assert.Empty(t, f.images.keys())

	_, err = f.service.FindByID(ctx, created.ID)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestService_StockAndFeatured covers the two single-field admin patches.
*/
func TestService_StockAndFeatured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, f.input("Air Max 90", "AM-090"))

	_, err := f.service.UpdateStock(ctx, created.ID, -1)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	updated, err := f.service.UpdateStock(ctx, created.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Stock)

	toggled, err := f.service.ToggleFeatured(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFeatured)

	toggled, err = f.service.ToggleFeatured(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFeatured)
}

/*
TestService_Storefront checks that only buyable products are shown.
*/
func TestService_Storefront(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	visible := f.input("Air Max 90", "AM-090")
	visible.IsFeatured = true
	shown := f.create(t, visible)

	soldOut := f.input("Air Max 95", "AM-095")
	soldOut.Stock = 0
	soldOut.IsFeatured = true
	f.create(t, soldOut)

	hidden := f.input("Air Max 97", "AM-097")
	hidden.IsActive = pointer.To(false)
	inactive := f.create(t, hidden)

	sibling := f.create(t, f.input("Air Force 1", "AF-001"))

	products, total, err := f.service.Browse(ctx, product.Filter{IsActive: pointer.To(false)}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, p := range products {
		assert.True(t, p.IsActive)
		assert.Positive(t, p.Stock)
	}

	featured, err := f.service.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, shown.ID, featured[0].ID)

	related, err := f.service.Related(ctx, shown.Slug, 4)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, sibling.ID, related[0].ID)

	_, err = f.service.Detail(ctx, inactive.Slug)
	require.Error(t, err)
	assert.Equal(t, product.MsgUnavailable, apperr.As(err).Message)

	_, err = f.service.Detail(ctx, "no-such-product")
	assert.Equal(t, product.MsgNotFound, apperr.As(err).Message)
}

/*
TestService_Detail returns the latest reviews and the rounded average.
*/
func TestService_Detail(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.input("Air Max 90", "AM-090"))

	base := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		f.repo.reviews[created.ID] = append(f.repo.reviews[created.ID], product.ReviewSummary{
			ID:        string(rune('a' + i)),
			Rating:    4 + i%2,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Reviewer:  product.Reviewer{FullName: "Reviewer"},
		})
	}

	detail, err := f.service.Detail(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.Len(t, detail.Reviews, product.LatestReviews)
	assert.Equal(t, "l", detail.Reviews[0].ID)
	assert.Equal(t, 12, detail.ReviewCount)
	assert.Equal(t, 4.5, detail.AverageRating)
}
