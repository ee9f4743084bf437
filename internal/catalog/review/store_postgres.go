// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/database/schema"
	"github.com/taibuivan/shopora/internal/platform/dberr"
	"github.com/taibuivan/shopora/pkg/uuid"
)

var reviewTable = schema.CatalogReview

// PostgresRepository implements [Repository] on catalog.review.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the review. The (user, product) unique index turns a second
// review by the same author into a CONFLICT.
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	review.ID = uuid.New()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s, %s
	`,
		reviewTable.Table,
		reviewTable.ID, reviewTable.ProductID, reviewTable.UserID, reviewTable.Rating, reviewTable.Comment,
		reviewTable.CreatedAt, reviewTable.UpdatedAt,
		reviewTable.CreatedAt, reviewTable.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt, &review.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, reviewTable.UniqueAuthorProduct):
		return apperr.Conflict(MsgDuplicate)
	case dberr.IsForeignKeyViolation(err, ""):
		return apperr.NotFound("Product")
	default:
		return dberr.Wrap(err, "create_review")
	}
}
