// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/internal/platform/validate"
	"github.com/taibuivan/shopora/pkg/clock"
	"github.com/taibuivan/shopora/pkg/ordernum"
)

// ProductSource resolves the products being ordered. [product.Service]
// satisfies it.
type ProductSource interface {
	FindByID(context context.Context, id string) (*product.Product, error)
}

// Service implements the order use cases.
type Service struct {
	repo     Repository
	products ProductSource
	clock    clock.Clock
	logger   *zap.Logger
}

func NewService(repo Repository, products ProductSource, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		clock:    clk,
		logger:   logger,
	}
}

// # Checkout

/*
Create places an order for userID.

Description: every line is priced from the current catalog (the discount
price when one is set). The order number is allocated with [ordernum] and the
insert is retried from the next counter when a concurrent checkout claimed the
same number first.

Parameters:
  - context: context.Context
  - userID: the customer placing the order
  - input: CreateInput

Returns:
  - *Order: the stored order with its items, status pending
  - error: VALIDATION_ERROR, NOT_FOUND for an unknown product, BAD_REQUEST for
    an unavailable product or insufficient stock
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Order, error) {
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}

	items, total, err := service.price(context, input.Items)
	if err != nil {
		return nil, err
	}

	order := &Order{
		UserID:          userID,
		Status:          StatusPending,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
		Items:           items,
	}
	if err := service.insert(context, order); err != nil {
		return nil, fmt.Errorf("order_service_create_failed: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	service.logger.Info("order_created",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return order, nil
}

// price resolves each requested line against the catalog. Quantities of the
// same product are summed for the stock check.
func (service *Service) price(context context.Context, lines []ItemInput) ([]Item, float64, error) {
	items := make([]Item, 0, len(lines))
	requested := map[string]int{}
	total := 0.0

	for _, line := range lines {
		p, err := service.products.FindByID(context, line.ProductID)
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, 0, apperr.NotFoundMessage(fmt.Sprintf(MsgProductAbsent, line.ProductID))
		}
		if err != nil {
			return nil, 0, err
		}
		if !p.IsActive {
			return nil, 0, apperr.BadRequest(fmt.Sprintf(MsgUnavailable, p.Name))
		}

		requested[p.ID] += line.Quantity
		if requested[p.ID] > p.Stock {
			return nil, 0, apperr.BadRequest(fmt.Sprintf(MsgInsufficient, p.Name))
		}

		item := Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.UnitPrice(),
			Size:        line.Size,
			Color:       line.Color,
		}
		items = append(items, item)
		total += item.Subtotal()
	}

	return items, roundCents(total), nil
}

// insert allocates an order number and stores the order, moving past numbers
// lost to concurrent checkouts.
func (service *Service) insert(context context.Context, order *Order) error {
	start := 1
	for attempt := 1; ; attempt++ {
		checked := 0
		number, err := ordernum.UniqueFrom(context, service.clock, start, counting(service.repo.NumberTaken, &checked))
		if err != nil {
			return err
		}

		order.OrderNumber = number
		err = service.repo.Create(context, order)
		if !errors.Is(err, ErrNumberTaken) {
			return err
		}
		if attempt == constants.MaxUniqueRetries {
			return apperr.Conflict("Could not allocate an order number, please retry")
		}

		metrics.UniqueRetriesTotal.WithLabelValues("order_number").Inc()
		service.logger.Warn("order_number_collision", zap.String("order_number", number), zap.Int("attempt", attempt))
		start += checked
	}
}

// counting wraps exists and records how many candidates it checked.
func counting(exists ordernum.ExistsFunc, checked *int) ordernum.ExistsFunc {
	return func(context context.Context, candidate string) (bool, error) {
		*checked++
		return exists(context, candidate)
	}
}

// # Reads

// ListMine returns the caller's orders, newest first.
func (service *Service) ListMine(context context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	return service.repo.List(context, Filter{UserID: userID}, limit, offset)
}

// List returns every order, optionally narrowed to one status.
func (service *Service) List(context context.Context, status string, limit, offset int) ([]*Order, int, error) {
	if status != "" {
		validator := &validate.Validator{}
		if err := validator.OneOf(FieldStatus, status, Statuses...).Err(); err != nil {
			return nil, 0, err
		}
	}
	return service.repo.List(context, Filter{Status: Status(status)}, limit, offset)
}

/*
Get returns the order with the given number.

Customers only see their own orders; someone else's order is reported as
missing. Admins see every order.
*/
func (service *Service) Get(context context.Context, number string, viewer *sec.AuthClaims) (*Order, error) {
	order, err := service.repo.FindByNumber(context, number)
	if err != nil {
		return nil, err
	}
	if viewer.Role != sec.RoleAdmin && order.UserID != viewer.UserID {
		return nil, apperr.NotFoundMessage(MsgNotFound)
	}
	return order, nil
}
