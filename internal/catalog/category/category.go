// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category manages product categories.

Admins create, edit and delete categories under /admin/categories. The
storefront reads the active ones, each with the number of products it holds,
from /categories.
*/
package category

import "time"

// Category groups products on the storefront.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	IsActive     bool      `json:"is_active"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter holds the parameters for a paginated category search.
type Filter struct {
	Search   string // Case-insensitive match against name and description
	IsActive *bool
}

// CreateInput is the admin payload for a new category.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateInput is the admin payload for a partial category update.
// Nil fields are left untouched.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldImageURL    = "image_url"
)

// Field limits
const (
	NameMinLength        = 2
	NameMaxLength        = 50
	DescriptionMaxLength = 500
	ImageURLMaxLength    = 500
)

// Response messages
const (
	MsgNameTaken   = "Category with this name already exists"
	MsgNotFound    = "Category not found"
	MsgHasProducts = "Cannot delete category with existing products"
	MsgCreated     = "Category created successfully"
	MsgUpdated     = "Category updated successfully"
	MsgDeleted     = "Category deleted successfully"
)
