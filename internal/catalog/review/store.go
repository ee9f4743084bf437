// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// Repository persists reviews.
//
// Create returns a CONFLICT when the author already reviewed the product.
type Repository interface {
	Create(context context.Context, review *Review) error
}
