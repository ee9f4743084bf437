// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/internal/platform/validate"
	"github.com/taibuivan/shopora/pkg/pointer"
	"github.com/taibuivan/shopora/pkg/slug"
)

const entity = "category"

// Service implements the category use cases.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService wires the category service to its repository.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Reads

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Category, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// ListActive returns the categories shown on the storefront.
func (service *Service) ListActive(context context.Context) ([]*Category, error) {
	return service.repo.ListActive(context)
}

func (service *Service) Get(context context.Context, id string) (*Category, error) {
	return service.repo.FindByID(context, id)
}

// # Writes

/*
Create validates and stores a new category.

Parameters:
  - context: context.Context
  - input: CreateInput (IsActive defaults to true)

Returns:
  - *Category: the stored category with its generated slug
  - error: VALIDATION_ERROR, CONFLICT for a duplicate name, or a store failure
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateFields(&name, input.Description, input.ImageURL); err != nil {
		return nil, err
	}

	if err := service.ensureNameFree(context, name, ""); err != nil {
		return nil, err
	}

	category := &Category{
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    pointer.Fallback(input.IsActive, true),
	}

	err := service.claimSlug(context, category, func() error {
		return service.repo.Create(context, category)
	})
	if err != nil {
		return nil, fmt.Errorf("category_service_create_failed: %w", err)
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "create").Inc()

	service.logger.Info("category_created", zap.String("category_id", category.ID), zap.String("slug", category.Slug))
	return category, nil
}

/*
Update applies a partial update.

A changed name is re-checked for uniqueness against the other categories
and yields a fresh slug. The category's own slug never counts as taken.
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Category, error) {
	if input.Name != nil {
		input.Name = pointer.To(strings.TrimSpace(*input.Name))
	}
	if err := validateFields(input.Name, input.Description, input.ImageURL); err != nil {
		return nil, err
	}

	category, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	renamed := input.Name != nil && *input.Name != category.Name
	if renamed {
		if err := service.ensureNameFree(context, *input.Name, category.ID); err != nil {
			return nil, err
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	save := func() error { return service.repo.Update(context, category) }
	if renamed {
		err = service.claimSlug(context, category, save)
	} else {
		err = save()
	}
	if err != nil {
		return nil, fmt.Errorf("category_service_update_failed: %w", err)
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "update").Inc()

	service.logger.Info("category_updated", zap.String("category_id", category.ID))
	return category, nil
}

// Delete removes a category that no longer holds products.
func (service *Service) Delete(context context.Context, id string) error {
	category, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}
	if category.ProductCount > 0 {
		return apperr.Conflict(MsgHasProducts)
	}

	if err := service.repo.Delete(context, id); err != nil {
		return fmt.Errorf("category_service_delete_failed: %w", err)
	}
	metrics.CatalogWritesTotal.WithLabelValues(entity, "delete").Inc()

	service.logger.Warn("category_deleted", zap.String("category_id", id))
	return nil
}

// # Helpers

// validateFields checks the optional fields shared by create and update.
// A nil name is skipped.
func validateFields(name, description, imageURL *string) error {
	validator := &validate.Validator{}

	if name != nil {
		validator.Required(FieldName, *name).
			MinLen(FieldName, *name, NameMinLength).
			MaxLen(FieldName, *name, NameMaxLength)
	}
	if description != nil {
		validator.MaxLen(FieldDescription, *description, DescriptionMaxLength)
	}
	if imageURL != nil {
		validator.MaxLen(FieldImageURL, *imageURL, ImageURLMaxLength)
	}

	return validator.Err()
}

func (service *Service) ensureNameFree(context context.Context, name, excludeID string) error {
	taken, err := service.repo.NameTaken(context, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(MsgNameTaken)
	}
	return nil
}

// claimSlug derives category.Slug from its name and runs save, regenerating
// the slug when save loses the race on the unique index.
func (service *Service) claimSlug(context context.Context, category *Category, save func() error) error {
	attempts := 0
	err := slug.Claim(context, category.Name, service.slugTaken(category.ID), constants.MaxUniqueRetries, func(candidate string) error {
		attempts++
		if attempts > 1 {
			metrics.UniqueRetriesTotal.WithLabelValues("slug").Inc()
		}
		category.Slug = candidate
		return save()
	})

	if errors.Is(err, slug.ErrTaken) {
		return apperr.Conflict("Could not allocate a unique slug, please retry")
	}
	return err
}

// slugTaken checks slug candidates against every category except excludeID.
func (service *Service) slugTaken(excludeID string) slug.ExistsFunc {
	return func(context context.Context, candidate string) (bool, error) {
		return service.repo.SlugTaken(context, candidate, excludeID)
	}
}
