// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product manages the product catalog.

Admins maintain products through multipart forms under /admin/products,
including up to five images per product kept in object storage. The
storefront browses active, in-stock products under /products.
*/
package product

import (
	"io"
	"time"
)

// CategoryRef is the category summary embedded in product responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is a sellable catalog item.
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	DiscountPrice *float64     `json:"discount_price"`
	Stock         int          `json:"stock"`
	CategoryID    string       `json:"category_id"`
	Category      *CategoryRef `json:"category,omitempty"`
	SKU           string       `json:"sku"`
	Sizes         []string     `json:"sizes"`
	Colors        []string     `json:"colors"`
	Weight        *float64     `json:"weight"`
	Images        []string     `json:"images"`
	IsFeatured    bool         `json:"is_featured"`
	IsActive      bool         `json:"is_active"`
	CreatedBy     *string      `json:"created_by"`
	AverageRating float64      `json:"average_rating"`
	ReviewCount   int          `json:"review_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// UnitPrice is the price a buyer pays: the discount price when set,
// otherwise the regular price.
func (p *Product) UnitPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Reviewer is the public face of a review author.
type Reviewer struct {
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// ReviewSummary is a review as shown on the product page.
type ReviewSummary struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Reviewer  Reviewer  `json:"profile"`
}

// Detail is the storefront product page: the product plus its latest reviews.
type Detail struct {
	*Product
	Reviews []ReviewSummary `json:"reviews"`
}

// Sort orders accepted by the storefront listing.
const (
	SortNewest    = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

// Filter holds the parameters for a paginated product search.
type Filter struct {
	Search       string // Case-insensitive match against name and description
	SearchSKU    bool   // Also match Search against the SKU
	CategoryID   string
	CategorySlug string
	IsFeatured   *bool
	IsActive     *bool
	MinPrice     *float64
	MaxPrice     *float64
	InStock      bool
	Sort         string
}

// Upload is an image file received with a product form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateInput is the admin payload for a new product.
type CreateInput struct {
	Name          string
	Description   string
	Price         float64
	DiscountPrice *float64
	Stock         int
	CategoryID    string
	SKU           string
	Sizes         []string
	Colors        []string
	Weight        *float64
	IsFeatured    bool
	IsActive      *bool
	CreatedBy     string
	Images        []Upload
}

// UpdateInput is the admin payload for a partial product update. Nil fields
// and nil slices are left untouched.
type UpdateInput struct {
	Name               *string
	Description        *string
	Price              *float64
	DiscountPrice      *float64
	ClearDiscountPrice bool
	Stock              *int
	CategoryID         *string
	SKU                *string
	Sizes              []string
	Colors             []string
	Weight             *float64
	IsFeatured         *bool
	IsActive           *bool
	RemoveImages       []string
	Images             []Upload
}

// StockInput is the payload of PATCH /admin/products/{id}/stock.
type StockInput struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

// Global field names for validation
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldDiscountPrice = "discount_price"
	FieldStock         = "stock"
	FieldCategoryID    = "category_id"
	FieldSKU           = "sku"
	FieldSizes         = "sizes"
	FieldColors        = "colors"
	FieldWeight        = "weight"
	FieldIsFeatured    = "is_featured"
	FieldIsActive      = "is_active"
	FieldImages        = "images"
	FieldRemoveImages  = "remove_images"
)

// Field limits
const (
	NameMinLength        = 3
	NameMaxLength        = 200
	DescriptionMinLength = 10
	SKUMinLength         = 3
	SKUMaxLength         = 50

	LatestReviews       = 10
	DefaultFeaturedSize = 10
	DefaultRelatedSize  = 4
	MaxShowcaseSize     = 50
)

// Response messages
const (
	MsgNotFound       = "Product not found"
	MsgUnavailable    = "Product is not available"
	MsgCategoryAbsent = "Category not found"
	MsgSKUTaken       = "SKU already exists"
	MsgHasOrders      = "Cannot delete product with existing orders"
	MsgCreated        = "Product created successfully"
	MsgUpdated        = "Product updated successfully"
	MsgDeleted        = "Product deleted successfully"
	MsgStockUpdated   = "Stock updated successfully"
	MsgFeatured       = "Product featured successfully"
	MsgUnfeatured     = "Product unfeatured successfully"
)
