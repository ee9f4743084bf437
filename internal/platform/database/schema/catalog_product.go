// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table         string
	ID            string
	Name          string
	Slug          string
	Description   string
	Price         string
	DiscountPrice string
	Stock         string
	CategoryID    string
	SKU           string
	Sizes         string
	Colors        string
	Weight        string
	Images        string
	IsFeatured    string
	IsActive      string
	CreatedBy     string
	CreatedAt     string
	UpdatedAt     string

	// Unique indexes
	UniqueSlug string
	UniqueSKU  string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:         "catalog.product",
	ID:            "id",
	Name:          "name",
	Slug:          "slug",
	Description:   "description",
	Price:         "price",
	DiscountPrice: "discountprice",
	Stock:         "stock",
	CategoryID:    "categoryid",
	SKU:           "sku",
	Sizes:         "sizes",
	Colors:        "colors",
	Weight:        "weight",
	Images:        "images",
	IsFeatured:    "isfeatured",
	IsActive:      "isactive",
	CreatedBy:     "createdby",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	UniqueSlug:    "uq_product_slug",
	UniqueSKU:     "uq_product_sku",
}

func (t CatalogProductTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.Price, t.DiscountPrice, t.Stock, t.CategoryID, t.SKU,
		t.Sizes, t.Colors, t.Weight, t.Images, t.IsFeatured, t.IsActive, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
