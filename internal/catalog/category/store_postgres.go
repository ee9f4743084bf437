// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

// PostgresRepository implements [Repository] on catalog.category.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed category store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Query Fragments

var (
	categoryTable = schema.CatalogCategory
	productTable  = schema.CatalogProduct
)

// selectColumns lists the category columns plus the product count subquery.
// When activeOnly is set only active products are counted.
func selectColumns(activeOnly bool) string {
	countFilter := ""
	if activeOnly {
		countFilter = fmt.Sprintf(" AND p.%s = TRUE", productTable.IsActive)
	}

	return fmt.Sprintf(`
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		(SELECT COUNT(*) FROM %s p WHERE p.%s = c.%s%s) AS productcount`,
		categoryTable.ID, categoryTable.Name, categoryTable.Slug, categoryTable.Description,
		categoryTable.ImageURL, categoryTable.IsActive, categoryTable.CreatedAt, categoryTable.UpdatedAt,
		productTable.Table, productTable.CategoryID, categoryTable.ID, countFilter,
	)
}

func scanCategory(row pgx.Row, extra ...any) (*Category, error) {
	c := &Category{}
	dest := []any{&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return c, nil
}

// # Reads

/*
List returns a filtered page of categories, newest first, and the total
number of matches.

Description: the total is computed with COUNT(*) OVER() so that a single
round-trip serves both the page and the pagination metadata.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Category, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s c WHERE TRUE`, selectColumns(false), categoryTable.Table))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (c.%s ILIKE $%d OR c.%s ILIKE $%d)", categoryTable.Name, argID, categoryTable.Description, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", categoryTable.IsActive, argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY c.%s DESC LIMIT $%d OFFSET $%d", categoryTable.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := []*Category{}
	total := 0
	for rows.Next() {
		c, err := scanCategory(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	return categories, total, nil
}

// ListActive returns every active category ordered by name, counting only
// active products.
func (repository *PostgresRepository) ListActive(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = TRUE ORDER BY c.%s ASC`,
		selectColumns(true), categoryTable.Table, categoryTable.IsActive, categoryTable.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_active_categories")
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_active_categories")
	}
	return categories, nil
}

// FindByID returns a category with its product count.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = $1`, selectColumns(false), categoryTable.Table, categoryTable.ID)

	c, err := scanCategory(repository.db.QueryRow(context, query, id))
	if dberr.IsNoRows(err) {
		return nil, apperr.NotFoundMessage(MsgNotFound)
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	return c, nil
}

// NameTaken checks names case-insensitively, skipping excludeID.
func (repository *PostgresRepository) NameTaken(context context.Context, name, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE LOWER(%s) = LOWER($1) AND %s::text <> $2)`,
		categoryTable.Table, categoryTable.Name, categoryTable.ID,
	)

	var taken bool
	if err := repository.db.QueryRow(context, query, name, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "category_name_taken")
	}
	return taken, nil
}

// SlugTaken checks slugs, skipping excludeID.
func (repository *PostgresRepository) SlugTaken(context context.Context, candidate, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s::text <> $2)`,
		categoryTable.Table, categoryTable.Slug, categoryTable.ID,
	)

	var taken bool
	if err := repository.db.QueryRow(context, query, candidate, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "category_slug_taken")
	}
	return taken, nil
}

// # Writes

// Create inserts the category and fills in its id and timestamps.
func (repository *PostgresRepository) Create(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s
	`,
		categoryTable.Table, categoryTable.ID, categoryTable.Name, categoryTable.Slug, categoryTable.Description,
		categoryTable.ImageURL, categoryTable.IsActive, categoryTable.CreatedAt, categoryTable.UpdatedAt,
		categoryTable.CreatedAt, categoryTable.UpdatedAt,
	)

	id := uuid.New()
	err := repository.db.QueryRow(context, query, id, c.Name, c.Slug, c.Description, c.ImageURL, c.IsActive).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return writeError(err, "create_category")
	}

	c.ID = id
	return nil
}

// Update overwrites the mutable columns of the category.
func (repository *PostgresRepository) Update(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		categoryTable.Table, categoryTable.Name, categoryTable.Slug, categoryTable.Description, categoryTable.ImageURL,
		categoryTable.IsActive, categoryTable.UpdatedAt, categoryTable.ID, categoryTable.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.IsActive).Scan(&c.UpdatedAt)
	if dberr.IsNoRows(err) {
		return apperr.NotFoundMessage(MsgNotFound)
	}
	if err != nil {
		return writeError(err, "update_category")
	}
	return nil
}

// Delete removes the category. Products still referencing it block the delete.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, categoryTable.Table, categoryTable.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if dberr.IsForeignKeyViolation(err, "") {
		return apperr.Conflict(MsgHasProducts)
	}
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundMessage(MsgNotFound)
	}
	return nil
}

// writeError maps unique violations of an insert or update.
func writeError(err error, action string) error {
	switch {
	case dberr.IsUniqueViolation(err, categoryTable.UniqueSlug):
		return slug.ErrTaken
	case dberr.IsUniqueViolation(err, categoryTable.UniqueName):
		return apperr.Conflict(MsgNameTaken)
	default:
		return dberr.Wrap(err, action)
	}
}
