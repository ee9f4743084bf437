// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package review lets signed-in users rate the products they bought or
// browsed. A user may review a given product once.
package review

import "time"

// Review is one rating left by a user on a product.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput is the request body of POST /products/{slug}/reviews.
type CreateInput struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

const (
	FieldRating  = "rating"
	FieldComment = "comment"
)

const (
	RatingMin        = 1
	RatingMax        = 5
	CommentMaxLength = 1000
)

const (
	MsgCreated   = "Review added successfully"
	MsgDuplicate = "You have already reviewed this product"
)
