// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shopora/internal/platform/database/schema"
)

/*
TestColumns checks that every column list starts with the primary key and
contains no duplicates.
*/
func TestColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
	}{
		{"category", schema.CatalogCategory.Columns()},
		{"product", schema.CatalogProduct.Columns()},
		{"review", schema.CatalogReview.Columns()},
		{"order", schema.SalesOrder.Columns()},
		{"order_item", schema.SalesOrderItem.Columns()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "id", tt.columns[0])

			seen := map[string]bool{}
			for _, column := range tt.columns {
				assert.False(t, seen[column], "duplicate column %q", column)
				seen[column] = true
			}
		})
	}
}
