// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/internal/platform/validate"
	"github.com/taibuivan/shopora/pkg/clock"
	"github.com/taibuivan/shopora/pkg/pointer"
	"github.com/taibuivan/shopora/pkg/slice"
	"github.com/taibuivan/shopora/pkg/slug"
)

const entity = "product"

// Service implements the product use cases.
type Service struct {
	repo   Repository
	images ImageStore
	clock  clock.Clock
	logger *zap.Logger
}

// NewService wires the product service to its repository and image store.
func NewService(repo Repository, images ImageStore, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		clock:  clk,
		logger: logger,
	}
}

// # Storefront

// Browse lists buyable products: active and in stock, whatever the filter says.
func (service *Service) Browse(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	filter.IsActive = pointer.To(true)
	filter.InStock = true
	filter.SearchSKU = false
	return service.repo.List(context, filter, limit, offset)
}

// Featured returns up to limit featured products. limit is clamped to
// [1, MaxShowcaseSize].
func (service *Service) Featured(context context.Context, limit int) ([]*Product, error) {
	return service.repo.Featured(context, clampShowcase(limit))
}

/*
Detail returns the storefront page of a product.

Returns:
  - *Detail: the product and its latest reviews
  - error: NOT_FOUND when the slug is unknown or the product is inactive
*/
func (service *Service) Detail(context context.Context, productSlug string) (*Detail, error) {
	product, err := service.repo.FindBySlug(context, productSlug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperr.NotFoundMessage(MsgUnavailable)
	}

	reviews, err := service.repo.LatestReviews(context, product.ID, LatestReviews)
	if err != nil {
		return nil, err
	}
	return &Detail{Product: product, Reviews: reviews}, nil
}

// Related lists buyable products from the same category as productSlug.
func (service *Service) Related(context context.Context, productSlug string, limit int) ([]*Product, error) {
	product, err := service.repo.FindBySlug(context, productSlug)
	if err != nil {
		return nil, err
	}
	return service.repo.Related(context, product, clampShowcase(limit))
}

// FindBySlug returns a product regardless of its status.
func (service *Service) FindBySlug(context context.Context, productSlug string) (*Product, error) {
	return service.repo.FindBySlug(context, productSlug)
}

// FindByID returns a product regardless of its status.
func (service *Service) FindByID(context context.Context, id string) (*Product, error) {
	return service.repo.FindByID(context, id)
}

// # Administration

// List returns a filtered page of products for the admin console.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	filter.SearchSKU = true
	return service.repo.List(context, filter, limit, offset)
}

/*
Create validates and stores a new product with its images.

Description: the category must exist and the SKU must be free. Images are
uploaded once the slug is known and removed again if the insert fails.

Parameters:
  - context: context.Context
  - input: CreateInput (IsActive defaults to true)

Returns:
  - *Product: the stored product
  - error: VALIDATION_ERROR, NOT_FOUND for the category, CONFLICT for the SKU
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)

	validator := &validate.Validator{}
	validateName(validator, input.Name)
	validateDescription(validator, input.Description)
	validatePricing(validator, input.Price, input.DiscountPrice)
	validator.NonNegative(FieldStock, input.Stock)
	validator.UUID(FieldCategoryID, input.CategoryID)
	validateSKU(validator, input.SKU)
	validateWeight(validator, input.Weight)
	validateUploads(validator, 0, input.Images)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureCategory(context, input.CategoryID); err != nil {
		return nil, err
	}
	if err := service.ensureSKUFree(context, input.SKU, ""); err != nil {
		return nil, err
	}

	product := &Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		CategoryID:    input.CategoryID,
		SKU:           input.SKU,
		Sizes:         slice.OrEmpty(input.Sizes),
		Colors:        slice.OrEmpty(input.Colors),
		Weight:        input.Weight,
		Images:        []string{},
		IsFeatured:    input.IsFeatured,
		IsActive:      pointer.Fallback(input.IsActive, true),
	}
	if input.CreatedBy != "" {
		product.CreatedBy = pointer.To(input.CreatedBy)
	}

	var uploaded []string
	err := service.claimSlug(context, product, func() error {
		if uploaded == nil {
			urls, err := service.upload(context, product.Slug, input.Images)
			if err != nil {
				return err
			}
			uploaded = urls
			product.Images = urls
		}
		return service.repo.Create(context, product)
	})
	if err != nil {
		service.discard(context, uploaded)
		return nil, fmt.Errorf("product_service_create_failed: %w", err)
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "create").Inc()

	service.logger.Info("product_created",
		zap.String("product_id", product.ID),
		zap.String("slug", product.Slug),
		zap.Int("images", len(product.Images)),
	)
	return service.repo.FindByID(context, product.ID)
}

/*
Update applies a partial update.

Description: removed image URLs are dropped from the product and deleted
from storage; new uploads are appended. The resulting set may not exceed
the image limit. A changed name yields a fresh slug that ignores the
product's own, and a changed SKU is re-checked for uniqueness.
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Product, error) {
	product, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		input.Name = pointer.To(strings.TrimSpace(*input.Name))
	}
	if input.SKU != nil {
		input.SKU = pointer.To(strings.TrimSpace(*input.SKU))
	}

	price := pointer.Fallback(input.Price, product.Price)
	discount := product.DiscountPrice
	if input.DiscountPrice != nil {
		discount = input.DiscountPrice
	}
	if input.ClearDiscountPrice {
		discount = nil
	}

	removed := slices.DeleteFunc(slices.Clone(input.RemoveImages), func(url string) bool {
		return !slices.Contains(product.Images, url)
	})
	kept := slice.Without(product.Images, removed)

	validator := &validate.Validator{}
	if input.Name != nil {
		validateName(validator, *input.Name)
	}
	if input.Description != nil {
		validateDescription(validator, *input.Description)
	}
	validatePricing(validator, price, discount)
	if input.Stock != nil {
		validator.NonNegative(FieldStock, *input.Stock)
	}
	if input.CategoryID != nil {
		validator.UUID(FieldCategoryID, *input.CategoryID)
	}
	if input.SKU != nil {
		validateSKU(validator, *input.SKU)
	}
	validateWeight(validator, input.Weight)
	validateUploads(validator, len(kept), input.Images)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		if err := service.ensureCategory(context, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.SKU != nil && *input.SKU != product.SKU {
		if err := service.ensureSKUFree(context, *input.SKU, product.ID); err != nil {
			return nil, err
		}
		product.SKU = *input.SKU
	}

	renamed := input.Name != nil && *input.Name != product.Name
	if renamed {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	product.Price = price
	product.DiscountPrice = discount
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Colors != nil {
		product.Colors = input.Colors
	}
	if input.Weight != nil {
		product.Weight = input.Weight
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	var uploaded []string
	save := func() error {
		if uploaded == nil {
			urls, err := service.upload(context, product.Slug, input.Images)
			if err != nil {
				return err
			}
			uploaded = urls
			product.Images = append(slices.Clone(kept), urls...)
		}
		return service.repo.Update(context, product)
	}

	if renamed {
		err = service.claimSlug(context, product, save)
	} else {
		err = save()
	}
	if err != nil {
		service.discard(context, uploaded)
		return nil, fmt.Errorf("product_service_update_failed: %w", err)
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "update").Inc()

	service.discard(context, removed)
	service.logger.Info("product_updated", zap.String("product_id", product.ID))
	return service.repo.FindByID(context, product.ID)
}

// Delete removes a product that was never ordered, together with its images.
func (service *Service) Delete(context context.Context, id string) error {
	product, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	ordered, err := service.repo.HasOrders(context, id)
	if err != nil {
		return err
	}
	if ordered {
		return apperr.Conflict(MsgHasOrders)
	}

	if err := service.repo.Delete(context, id); err != nil {
		return fmt.Errorf("product_service_delete_failed: %w", err)
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "delete").Inc()

	service.discard(context, product.Images)
	service.logger.Warn("product_deleted", zap.String("product_id", id))
	return nil
}

// UpdateStock sets the stock level of a product.
func (service *Service) UpdateStock(context context.Context, id string, stock int) (*Product, error) {
	if err := (&validate.Validator{}).NonNegative(FieldStock, stock).Err(); err != nil {
		return nil, err
	}

	product, err := service.repo.UpdateStock(context, id, stock)
	if err != nil {
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "stock").Inc()
	return product, nil
}

// ToggleFeatured flips the featured flag of a product.
func (service *Service) ToggleFeatured(context context.Context, id string) (*Product, error) {
	product, err := service.repo.ToggleFeatured(context, id)
	if err != nil {
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "featured").Inc()
	return product, nil
}

// # Helpers

func validateName(validator *validate.Validator, name string) {
	validator.Required(FieldName, name).
		MinLen(FieldName, name, NameMinLength).
		MaxLen(FieldName, name, NameMaxLength)
}

func validateDescription(validator *validate.Validator, description string) {
	validator.Required(FieldDescription, description).
		MinLen(FieldDescription, description, DescriptionMinLength)
}

func validateSKU(validator *validate.Validator, sku string) {
	validator.Required(FieldSKU, sku).
		MinLen(FieldSKU, sku, SKUMinLength).
		MaxLen(FieldSKU, sku, SKUMaxLength)
}

// validatePricing requires a positive price and a discount below it.
func validatePricing(validator *validate.Validator, price float64, discount *float64) {
	validator.Positive(FieldPrice, price)
	if discount != nil {
		validator.Custom(FieldDiscountPrice, *discount < 0, "Must be 0 or greater")
		validator.Custom(FieldDiscountPrice, *discount >= price, "Must be less than the regular price")
	}
}

func validateWeight(validator *validate.Validator, weight *float64) {
	if weight != nil {
		validator.Positive(FieldWeight, *weight)
	}
}

func (service *Service) ensureCategory(context context.Context, categoryID string) error {
	found, err := service.repo.CategoryExists(context, categoryID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFoundMessage(MsgCategoryAbsent)
	}
	return nil
}

func (service *Service) ensureSKUFree(context context.Context, sku, excludeID string) error {
	taken, err := service.repo.SKUTaken(context, sku, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(MsgSKUTaken)
	}
	return nil
}

// claimSlug derives product.Slug from its name and runs save, regenerating
// the slug when save loses the race on the unique index.
func (service *Service) claimSlug(context context.Context, product *Product, save func() error) error {
	attempts := 0
	err := slug.Claim(context, product.Name, service.slugTaken(product.ID), constants.MaxUniqueRetries, func(candidate string) error {
		attempts++
		if attempts > 1 {
			metrics.UniqueRetriesTotal.WithLabelValues("slug").Inc()
		}
		product.Slug = candidate
		return save()
	})

	if errors.Is(err, slug.ErrTaken) {
		return apperr.Conflict("Could not allocate a unique slug, please retry")
	}
	return err
}

// slugTaken checks slug candidates against every product except excludeID.
func (service *Service) slugTaken(excludeID string) slug.ExistsFunc {
	return func(context context.Context, candidate string) (bool, error) {
		return service.repo.SlugTaken(context, candidate, excludeID)
	}
}

// upload stores each file and returns the public URLs in order. On failure
// the files stored so far are removed again.
func (service *Service) upload(context context.Context, productSlug string, uploads []Upload) ([]string, error) {
	stamp := service.clock.Now().Unix()
	urls := make([]string, 0, len(uploads))

	for n, upload := range uploads {
		key := imageKey(productSlug, stamp, n+1, upload.ContentType)
		url, err := service.images.Upload(context, key, upload.Body, upload.Size, upload.ContentType)
		if err != nil {
			service.discard(context, urls)
			return nil, apperr.InternalMessage("Failed to upload images", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// discard removes stored images. Failures are logged and otherwise ignored.
func (service *Service) discard(context context.Context, urls []string) {
	for _, url := range urls {
		if err := service.images.Remove(context, url); err != nil {
			service.logger.Warn("product_image_remove_failed", zap.String("url", url), zap.Error(err))
		}
	}
}

// clampShowcase bounds the size of the featured and related lists.
func clampShowcase(limit int) int {
	return max(1, min(limit, MaxShowcaseSize))
}
