// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/database/schema"
	"github.com/taibuivan/shopora/internal/platform/dberr"
	"github.com/taibuivan/shopora/pkg/uuid"
)

var (
	orderTable = schema.SalesOrder
	itemTable  = schema.SalesOrderItem
)

// PostgresRepository implements [Repository] on the sales schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Query Fragments

func selectOrder() string {
	return fmt.Sprintf(`o.%s, o.%s, o.%s, o.%s, o.%s::float8, o.%s, o.%s, o.%s, o.%s`,
		orderTable.ID, orderTable.OrderNumber, orderTable.UserID, orderTable.Status, orderTable.TotalAmount,
		orderTable.ShippingAddress, orderTable.Notes, orderTable.CreatedAt, orderTable.UpdatedAt,
	)
}

func scanOrder(row pgx.Row, extra ...any) (*Order, error) {
	o := &Order{}
	dest := []any{&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.TotalAmount, &o.ShippingAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return o, nil
}

// # Reads

// NumberTaken implements [Repository].
func (repository *PostgresRepository) NumberTaken(context context.Context, number string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, orderTable.Table, orderTable.OrderNumber)

	var taken bool
	if err := repository.pool.QueryRow(context, query, number).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_order_number")
	}
	return taken, nil
}

/*
List returns a page of orders, newest first, with their items.

Description: the page is fetched with COUNT(*) OVER() for the total, then the
items of every order on the page are loaded with a single ANY($1) query.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s o WHERE TRUE`, selectOrder(), orderTable.Table))

	if filter.UserID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND o.%s = $%d", orderTable.UserID, argID))
		args = append(args, filter.UserID)
		argID++
	}
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND o.%s = $%d", orderTable.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY o.%s DESC LIMIT $%d OFFSET $%d", orderTable.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_orders")
	}
	defer rows.Close()

	orders := []*Order{}
	total := 0
	for rows.Next() {
		o, err := scanOrder(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_order")
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_orders")
	}

	if err := repository.attachItems(context, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindByNumber implements [Repository].
func (repository *PostgresRepository) FindByNumber(context context.Context, number string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s o WHERE o.%s = $1`, selectOrder(), orderTable.Table, orderTable.OrderNumber)

	o, err := scanOrder(repository.pool.QueryRow(context, query, number))
	if dberr.IsNoRows(err) {
		return nil, apperr.NotFoundMessage(MsgNotFound)
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_order")
	}

	if err := repository.attachItems(context, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (repository *PostgresRepository) attachItems(context context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Items = []Item{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s::float8, %s, %s
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s
	`,
		itemTable.OrderID, itemTable.ID, itemTable.ProductID, itemTable.ProductName,
		itemTable.Quantity, itemTable.UnitPrice, itemTable.Size, itemTable.Color,
		itemTable.Table,
		itemTable.OrderID,
		itemTable.ID,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "list_order_items")
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item Item
		if err := rows.Scan(&orderID, &item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Size, &item.Color); err != nil {
			return dberr.Wrap(err, "scan_order_item")
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return dberr.Wrap(rows.Err(), "list_order_items")
}

// # Writes

/*
Create inserts the order and its items in one transaction.

Returns:
  - error: [ErrNumberTaken] on an order number collision, NOT_FOUND when a
    product was deleted meanwhile
*/
func (repository *PostgresRepository) Create(context context.Context, order *Order) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_order")
	}
	defer transaction.Rollback(context)

	order.ID = uuid.New()
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		orderTable.Table,
		orderTable.ID, orderTable.OrderNumber, orderTable.UserID, orderTable.Status, orderTable.TotalAmount,
		orderTable.ShippingAddress, orderTable.Notes, orderTable.CreatedAt, orderTable.UpdatedAt,
		orderTable.CreatedAt, orderTable.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.TotalAmount,
		order.ShippingAddress, order.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if dberr.IsUniqueViolation(err, orderTable.UniqueOrderNumber) {
		return ErrNumberTaken
	}
	if err != nil {
		return dberr.Wrap(err, "create_order")
	}

	insertItem := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		itemTable.Table,
		itemTable.ID, itemTable.OrderID, itemTable.ProductID, itemTable.ProductName,
		itemTable.Quantity, itemTable.UnitPrice, itemTable.Size, itemTable.Color,
	)

	batch := &pgx.Batch{}
	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.New()
		batch.Queue(insertItem, item.ID, order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Size, item.Color)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		if dberr.IsForeignKeyViolation(err, "") {
			return apperr.NotFound("Product")
		}
		return dberr.Wrap(err, "create_order_items")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_order")
	}
	return nil
}
