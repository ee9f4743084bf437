// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import "context"

// Repository persists orders together with their items.
type Repository interface {
	// NumberTaken reports whether an order already uses number.
	NumberTaken(context context.Context, number string) (bool, error)

	// Create stores the order and its items atomically. It returns
	// [ErrNumberTaken] when the order number collides on its unique index.
	Create(context context.Context, order *Order) error

	List(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error)
	FindByNumber(context context.Context, number string) (*Order, error)
}
