// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository defines the persistence operations for categories.
//
// Lookups that miss return an apperr NOT_FOUND. Create and Update return
// [slug.ErrTaken] when the slug collides on its unique index so that the
// service can regenerate it.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Category, int, error)
	ListActive(context context.Context) ([]*Category, error)
	FindByID(context context.Context, id string) (*Category, error)

	// NameTaken reports whether another category (excluding excludeID) uses
	// name, compared case-insensitively.
	NameTaken(context context.Context, name, excludeID string) (bool, error)

	// SlugTaken reports whether another category (excluding excludeID) uses slug.
	SlugTaken(context context.Context, slug, excludeID string) (bool, error)

	Create(context context.Context, category *Category) error
	Update(context context.Context, category *Category) error
	Delete(context context.Context, id string) error
}
