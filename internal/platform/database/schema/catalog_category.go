// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogCategoryTable represents the 'catalog.category' table
type CatalogCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	ImageURL    string
	IsActive    string
	CreatedAt   string
	UpdatedAt   string

	// Unique indexes
	UniqueSlug string
	UniqueName string
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = CatalogCategoryTable{
	Table:       "catalog.category",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	ImageURL:    "imageurl",
	IsActive:    "isactive",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	UniqueSlug:  "uq_category_slug",
	UniqueName:  "uq_category_name",
}

func (t CatalogCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Description, t.ImageURL, t.IsActive, t.CreatedAt, t.UpdatedAt}
}
