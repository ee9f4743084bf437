// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SalesOrderItemTable represents the 'sales.orderitem' table
type SalesOrderItemTable struct {
	Table       string
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    string
	UnitPrice   string
	Size        string
	Color       string
}

// SalesOrderItem is the schema definition for sales.orderitem
var SalesOrderItem = SalesOrderItemTable{
	Table:       "sales.orderitem",
	ID:          "id",
	OrderID:     "orderid",
	ProductID:   "productid",
	ProductName: "productname",
	Quantity:    "quantity",
	UnitPrice:   "unitprice",
	Size:        "size",
	Color:       "color",
}

func (t SalesOrderItemTable) Columns() []string {
	return []string{t.ID, t.OrderID, t.ProductID, t.ProductName, t.Quantity, t.UnitPrice, t.Size, t.Color}
}
