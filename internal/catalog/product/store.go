// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import "context"

/*
Repository defines the persistence operations for products.

Every read fills in the category summary, the review count and the average
rating rounded to one decimal. Lookups that miss return an apperr NOT_FOUND.
Create and Update return [slug.ErrTaken] when the slug loses a race on its
unique index.
*/
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error)
	Featured(context context.Context, limit int) ([]*Product, error)

	// Related returns active, in-stock products of the same category, newest
	// first, excluding the product itself.
	Related(context context.Context, of *Product, limit int) ([]*Product, error)

	FindByID(context context.Context, id string) (*Product, error)
	FindBySlug(context context.Context, slug string) (*Product, error)
	LatestReviews(context context.Context, productID string, limit int) ([]ReviewSummary, error)

	SlugTaken(context context.Context, slug, excludeID string) (bool, error)
	SKUTaken(context context.Context, sku, excludeID string) (bool, error)
	CategoryExists(context context.Context, categoryID string) (bool, error)
	HasOrders(context context.Context, productID string) (bool, error)

	Create(context context.Context, product *Product) error
	Update(context context.Context, product *Product) error
	UpdateStock(context context.Context, id string, stock int) (*Product, error)
	ToggleFeatured(context context.Context, id string) (*Product, error)
	Delete(context context.Context, id string) error
}
