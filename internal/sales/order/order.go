// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order places and lists customer orders.

An order snapshots the name and unit price of every product at checkout, so
later catalog edits never change a placed order. Each order receives a
date-scoped number (ORD-YYYYMMDD-NNN) that customers use to look it up.
*/
package order

import (
	"errors"
	"time"
)

// # Status

// Status is the fulfilment stage of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid [Status] in fulfilment order.
var Statuses = []string{
	string(StatusPending),
	string(StatusProcessing),
	string(StatusShipped),
	string(StatusDelivered),
	string(StatusCancelled),
}

// # Entities

// Item is one order line.
type Item struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Size        *string `json:"size"`
	Color       *string `json:"color"`
}

// Subtotal is UnitPrice times Quantity.
func (item Item) Subtotal() float64 {
	return roundCents(item.UnitPrice * float64(item.Quantity))
}

// Order is a placed order with its lines.
type Order struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"order_number"`
	UserID          string    `json:"user_id"`
	Status          Status    `json:"status"`
	TotalAmount     float64   `json:"total_amount"`
	ShippingAddress string    `json:"shipping_address"`
	Notes           *string   `json:"notes"`
	Items           []Item    `json:"items"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Filter narrows an order listing. Empty fields do not filter.
type Filter struct {
	UserID string
	Status Status
}

// # Inputs

// ItemInput is one requested line of a new order.
type ItemInput struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Size      *string `json:"size" validate:"omitempty,max=20"`
	Color     *string `json:"color" validate:"omitempty,max=30"`
}

// CreateInput is the request body of POST /orders.
type CreateInput struct {
	Items           []ItemInput `json:"items" validate:"required,min=1,max=50,dive"`
	ShippingAddress string      `json:"shipping_address" validate:"required,min=10,max=500"`
	Notes           *string     `json:"notes" validate:"omitempty,max=500"`
}

// ErrNumberTaken is returned by [Repository.Create] when another order
// claimed the same order number first.
var ErrNumberTaken = errors.New("order: number already taken")

const (
	FieldItems           = "items"
	FieldShippingAddress = "shipping_address"
	FieldStatus          = "status"
)

const (
	MsgCreated       = "Order placed successfully"
	MsgNotFound      = "Order not found"
	MsgProductAbsent = "Product %s not found"
	MsgUnavailable   = "Product %s is not available"
	MsgInsufficient  = "Insufficient stock for %s"
)

func roundCents(amount float64) float64 {
	return float64(int64(amount*100+0.5)) / 100
}
