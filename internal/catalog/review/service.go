// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/internal/platform/validate"
)

// ProductFinder resolves the storefront product a review is written for.
// [product.Service] satisfies it.
type ProductFinder interface {
	FindBySlug(context context.Context, productSlug string) (*product.Product, error)
}

// Service implements the review use cases.
type Service struct {
	repo     Repository
	products ProductFinder
	logger   *zap.Logger
}

func NewService(repo Repository, products ProductFinder, logger *zap.Logger) *Service {
	return &Service{repo: repo, products: products, logger: logger}
}

/*
Create records the caller's review of the product identified by productSlug.

Parameters:
  - context: context.Context
  - productSlug: storefront slug of the reviewed product
  - userID: author of the review
  - input: CreateInput

Returns:
  - *Review: the stored review
  - error: VALIDATION_ERROR, NOT_FOUND for an unknown or inactive product,
    CONFLICT when the author already reviewed it
*/
func (service *Service) Create(context context.Context, productSlug, userID string, input CreateInput) (*Review, error) {
	comment := input.Comment
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		comment = &trimmed
		if trimmed == "" {
			comment = nil
		}
	}

	validator := &validate.Validator{}
	validator.Range(FieldRating, input.Rating, RatingMin, RatingMax)
	if comment != nil {
		validator.MaxLen(FieldComment, *comment, CommentMaxLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	target, err := service.products.FindBySlug(context, productSlug)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, apperr.NotFoundMessage(product.MsgUnavailable)
	}

	review := &Review{
		ProductID: target.ID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   comment,
	}
	if err := service.repo.Create(context, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	metrics.CatalogWritesTotal.WithLabelValues("review", "create").Inc()
	service.logger.Info("review_created",
		zap.String("review_id", review.ID),
		zap.String("product_id", target.ID),
		zap.String("user_id", userID),
		zap.Int("rating", review.Rating),
	)
	return review, nil
}
