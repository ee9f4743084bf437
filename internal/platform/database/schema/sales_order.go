// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SalesOrderTable represents the 'sales.order' table
type SalesOrderTable struct {
	Table           string
	ID              string
	OrderNumber     string
	UserID          string
	Status          string
	TotalAmount     string
	ShippingAddress string
	Notes           string
	CreatedAt       string
	UpdatedAt       string

	// Unique indexes
	UniqueOrderNumber string
}

// SalesOrder is the schema definition for sales.order
var SalesOrder = SalesOrderTable{
	Table:             `sales."order"`,
	ID:                "id",
	OrderNumber:       "ordernumber",
	UserID:            "userid",
	Status:            "status",
	TotalAmount:       "totalamount",
	ShippingAddress:   "shippingaddress",
	Notes:             "notes",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
	UniqueOrderNumber: "uq_order_number",
}

func (t SalesOrderTable) Columns() []string {
	return []string{t.ID, t.OrderNumber, t.UserID, t.Status, t.TotalAmount, t.ShippingAddress, t.Notes, t.CreatedAt, t.UpdatedAt}
}
