// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/database/schema"
	"github.com/taibuivan/shopora/internal/platform/dberr"
	"github.com/taibuivan/shopora/pkg/slug"
	"github.com/taibuivan/shopora/pkg/uuid"
)

// PostgresRepository implements [Repository] on catalog.product.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed product store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Query Fragments

var (
	productTable   = schema.CatalogProduct
	categoryTable  = schema.CatalogCategory
	reviewTable    = schema.CatalogReview
	profileTable   = schema.UsersProfile
	orderItemTable = schema.SalesOrderItem
)

// selectProduct renders the SELECT ... FROM ... JOIN head shared by every
// read. It aliases the product as p and its category as c, and aggregates
// the review statistics in correlated subqueries. extraColumns is appended
// to the column list verbatim.
func selectProduct(extraColumns string) string {
	return fmt.Sprintf(`
		SELECT
			p.%s, p.%s, p.%s, p.%s, p.%s::float8, p.%s::float8, p.%s, p.%s, p.%s,
			p.%s, p.%s, p.%s::float8, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
			c.%s, c.%s, c.%s,
			COALESCE((SELECT ROUND(AVG(r.%s)::numeric, 1) FROM %s r WHERE r.%s = p.%s), 0)::float8 AS averagerating,
			(SELECT COUNT(*) FROM %s r WHERE r.%s = p.%s) AS reviewcount%s
		FROM %s p
		JOIN %s c ON c.%s = p.%s`,
		productTable.ID, productTable.Name, productTable.Slug, productTable.Description, productTable.Price,
		productTable.DiscountPrice, productTable.Stock, productTable.CategoryID, productTable.SKU,
		productTable.Sizes, productTable.Colors, productTable.Weight, productTable.Images, productTable.IsFeatured,
		productTable.IsActive, productTable.CreatedBy, productTable.CreatedAt, productTable.UpdatedAt,
		categoryTable.ID, categoryTable.Name, categoryTable.Slug,
		reviewTable.Rating, reviewTable.Table, reviewTable.ProductID, productTable.ID,
		reviewTable.Table, reviewTable.ProductID, productTable.ID,
		extraColumns,
		productTable.Table,
		categoryTable.Table, categoryTable.ID, productTable.CategoryID,
	)
}

func scanProduct(row pgx.Row, extra ...any) (*Product, error) {
	p := &Product{Category: &CategoryRef{}}
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DiscountPrice, &p.Stock, &p.CategoryID, &p.SKU,
		&p.Sizes, &p.Colors, &p.Weight, &p.Images, &p.IsFeatured, &p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		&p.Category.ID, &p.Category.Name, &p.Category.Slug,
		&p.AverageRating, &p.ReviewCount,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresRepository) collect(rows pgx.Rows, action string, total *int) ([]*Product, error) {
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		var extra []any
		if total != nil {
			extra = append(extra, total)
		}

		p, err := scanProduct(rows, extra...)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_product")
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return products, nil
}

// orderBy maps a [Filter] sort key to its ORDER BY clause. Unknown keys fall
// back to newest first.
func orderBy(sort string) string {
	switch sort {
	case SortPriceAsc:
		return fmt.Sprintf("p.%s ASC", productTable.Price)
	case SortPriceDesc:
		return fmt.Sprintf("p.%s DESC", productTable.Price)
	case SortNameAsc:
		return fmt.Sprintf("p.%s ASC", productTable.Name)
	case SortNameDesc:
		return fmt.Sprintf("p.%s DESC", productTable.Name)
	default:
		return fmt.Sprintf("p.%s DESC", productTable.CreatedAt)
	}
}

// # Reads

/*
List returns a filtered page of products and the total number of matches.

Description: filters are appended to a dynamic WHERE clause and the total
is computed with COUNT(*) OVER() in the same round-trip.

Parameters:
  - context: context.Context
  - filter: Filter (search, category, flags, price range, stock, sort)
  - limit: int
  - offset: int

Returns:
  - []*Product: the page
  - int: total count matching filters
  - error: database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectProduct(", COUNT(*) OVER() AS total_count"))
	queryBuilder.WriteString(" WHERE TRUE")

	// Search Query Filtering
	if filter.Search != "" {
		condition := fmt.Sprintf("p.%s ILIKE $%d OR p.%s ILIKE $%d", productTable.Name, argID, productTable.Description, argID)
		if filter.SearchSKU {
			condition += fmt.Sprintf(" OR p.%s ILIKE $%d", productTable.SKU, argID)
		}
		queryBuilder.WriteString(" AND (" + condition + ")")
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Category Filtering
	if filter.CategoryID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s::text = $%d", productTable.CategoryID, argID))
		args = append(args, filter.CategoryID)
		argID++
	}

	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", categoryTable.Slug, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	// Flag Filtering
	if filter.IsFeatured != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", productTable.IsFeatured, argID))
		args = append(args, *filter.IsFeatured)
		argID++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", productTable.IsActive, argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	// Price Range Filtering
	if filter.MinPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s >= $%d", productTable.Price, argID))
		args = append(args, *filter.MinPrice)
		argID++
	}

	if filter.MaxPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s <= $%d", productTable.Price, argID))
		args = append(args, *filter.MaxPrice)
		argID++
	}

	if filter.InStock {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s > 0", productTable.Stock))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy(filter.Sort), argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_products")
	}

	total := 0
	products, err := repository.collect(rows, "list_products", &total)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Featured returns the newest featured products that can be bought.
func (repository *PostgresRepository) Featured(context context.Context, limit int) ([]*Product, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = TRUE AND p.%s = TRUE AND p.%s > 0 ORDER BY p.%s DESC LIMIT $1`,
		selectProduct(""), productTable.IsFeatured, productTable.IsActive, productTable.Stock, productTable.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_featured_products")
	}
	return repository.collect(rows, "list_featured_products", nil)
}

// Related implements [Repository].
func (repository *PostgresRepository) Related(context context.Context, of *Product, limit int) ([]*Product, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = $1 AND p.%s <> $2 AND p.%s = TRUE AND p.%s > 0 ORDER BY p.%s DESC LIMIT $3`,
		selectProduct(""), productTable.CategoryID, productTable.ID, productTable.IsActive, productTable.Stock, productTable.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, of.CategoryID, of.ID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_related_products")
	}
	return repository.collect(rows, "list_related_products", nil)
}

func (repository *PostgresRepository) findOne(context context.Context, action, column, value string) (*Product, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = $1`, selectProduct(""), column)

	p, err := scanProduct(repository.db.QueryRow(context, query, value))
	if dberr.IsNoRows(err) {
		return nil, apperr.NotFoundMessage(MsgNotFound)
	}
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return p, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Product, error) {
	return repository.findOne(context, "get_product", productTable.ID, id)
}

// FindBySlug implements [Repository].
func (repository *PostgresRepository) FindBySlug(context context.Context, productSlug string) (*Product, error) {
	return repository.findOne(context, "get_product_by_slug", productTable.Slug, productSlug)
}

// LatestReviews returns the newest reviews of a product with their authors.
func (repository *PostgresRepository) LatestReviews(context context.Context, productID string, limit int) ([]ReviewSummary, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, u.%s, u.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC
		LIMIT $2
	`,
		reviewTable.ID, reviewTable.Rating, reviewTable.Comment, reviewTable.CreatedAt,
		profileTable.FullName, profileTable.AvatarURL,
		reviewTable.Table,
		profileTable.Table, profileTable.ID, reviewTable.UserID,
		reviewTable.ProductID,
		reviewTable.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, productID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_latest_reviews")
	}
	defer rows.Close()

	reviews := []ReviewSummary{}
	for rows.Next() {
		var r ReviewSummary
		if err := rows.Scan(&r.ID, &r.Rating, &r.Comment, &r.CreatedAt, &r.Reviewer.FullName, &r.Reviewer.AvatarURL); err != nil {
			return nil, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_latest_reviews")
	}
	return reviews, nil
}

// # Existence Checks

func (repository *PostgresRepository) exists(context context.Context, action, query string, args ...any) (bool, error) {
	var found bool
	if err := repository.db.QueryRow(context, "SELECT EXISTS ("+query+")", args...).Scan(&found); err != nil {
		return false, dberr.Wrap(err, action)
	}
	return found, nil
}

// SlugTaken implements [Repository].
func (repository *PostgresRepository) SlugTaken(context context.Context, candidate, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 AND %s::text <> $2`, productTable.Table, productTable.Slug, productTable.ID)
	return repository.exists(context, "product_slug_taken", query, candidate, excludeID)
}

// SKUTaken implements [Repository].
func (repository *PostgresRepository) SKUTaken(context context.Context, sku, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 AND %s::text <> $2`, productTable.Table, productTable.SKU, productTable.ID)
	return repository.exists(context, "product_sku_taken", query, sku, excludeID)
}

// CategoryExists implements [Repository].
func (repository *PostgresRepository) CategoryExists(context context.Context, categoryID string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, categoryTable.Table, categoryTable.ID)
	return repository.exists(context, "category_exists", query, categoryID)
}

// HasOrders implements [Repository].
func (repository *PostgresRepository) HasOrders(context context.Context, productID string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, orderItemTable.Table, orderItemTable.ProductID)
	return repository.exists(context, "product_has_orders", query, productID)
}

// # Writes

// Create inserts the product and fills in its id and timestamps.
func (repository *PostgresRepository) Create(context context.Context, p *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING %s, %s
	`,
		productTable.Table,
		productTable.ID, productTable.Name, productTable.Slug, productTable.Description, productTable.Price,
		productTable.DiscountPrice, productTable.Stock, productTable.CategoryID, productTable.SKU, productTable.Sizes,
		productTable.Colors, productTable.Weight, productTable.Images, productTable.IsFeatured, productTable.IsActive,
		productTable.CreatedBy, productTable.CreatedAt, productTable.UpdatedAt,
		productTable.CreatedAt, productTable.UpdatedAt,
	)

	id := uuid.New()
	err := repository.db.QueryRow(context, query,
		id, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice, p.Stock, p.CategoryID, p.SKU,
		p.Sizes, p.Colors, p.Weight, p.Images, p.IsFeatured, p.IsActive, p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return writeError(err, "create_product")
	}

	p.ID = id
	return nil
}

// Update overwrites the mutable columns of the product.
func (repository *PostgresRepository) Update(context context.Context, p *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9,
			%s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = $15, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		productTable.Table,
		productTable.Name, productTable.Slug, productTable.Description, productTable.Price, productTable.DiscountPrice,
		productTable.Stock, productTable.CategoryID, productTable.SKU,
		productTable.Sizes, productTable.Colors, productTable.Weight, productTable.Images, productTable.IsFeatured,
		productTable.IsActive, productTable.UpdatedAt,
		productTable.ID,
		productTable.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice, p.Stock, p.CategoryID, p.SKU,
		p.Sizes, p.Colors, p.Weight, p.Images, p.IsFeatured, p.IsActive,
	).Scan(&p.UpdatedAt)
	if dberr.IsNoRows(err) {
		return apperr.NotFoundMessage(MsgNotFound)
	}
	if err != nil {
		return writeError(err, "update_product")
	}
	return nil
}

// UpdateStock sets the stock level and returns the refreshed product.
func (repository *PostgresRepository) UpdateStock(context context.Context, id string, stock int) (*Product, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		productTable.Table, productTable.Stock, productTable.UpdatedAt, productTable.ID,
	)
	return repository.mutate(context, "update_product_stock", query, id, stock)
}

// ToggleFeatured flips the featured flag and returns the refreshed product.
func (repository *PostgresRepository) ToggleFeatured(context context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOT %s, %s = NOW() WHERE %s = $1`,
		productTable.Table, productTable.IsFeatured, productTable.IsFeatured, productTable.UpdatedAt, productTable.ID,
	)
	return repository.mutate(context, "toggle_product_featured", query, id)
}

func (repository *PostgresRepository) mutate(context context.Context, action, query, id string, args ...any) (*Product, error) {
	cmd, err := repository.db.Exec(context, query, append([]any{id}, args...)...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	if cmd.RowsAffected() == 0 {
		return nil, apperr.NotFoundMessage(MsgNotFound)
	}
	return repository.FindByID(context, id)
}

// Delete removes the product. Order items referencing it block the delete.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, productTable.Table, productTable.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if dberr.IsForeignKeyViolation(err, "") {
		return apperr.Conflict(MsgHasOrders)
	}
	if err != nil {
		return dberr.Wrap(err, "delete_product")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundMessage(MsgNotFound)
	}
	return nil
}

// writeError maps unique and foreign-key violations of an insert or update.
func writeError(err error, action string) error {
	switch {
	case dberr.IsUniqueViolation(err, productTable.UniqueSlug):
		return slug.ErrTaken
	case dberr.IsUniqueViolation(err, productTable.UniqueSKU):
		return apperr.Conflict(MsgSKUTaken)
	case dberr.IsForeignKeyViolation(err, ""):
		return apperr.NotFoundMessage(MsgCategoryAbsent)
	default:
		return dberr.Wrap(err, action)
	}
}
