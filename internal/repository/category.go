package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftline/storefront/internal/storage/db"
)

type CategoryRepository interface {
	WithDB(db db.DB) CategoryRepository

	// FindIDsByNameMatch returns the ids of every category whose name
	// contains the given substring, case-insensitively.
	FindIDsByNameMatch(ctx context.Context, nameSubstring string) ([]uuid.UUID, error)
}

type categoryRepository struct {
	db db.DB
}

func NewCategoryRepository(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) WithDB(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) FindIDsByNameMatch(ctx context.Context, nameSubstring string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id
		FROM product_categories
		WHERE name ILIKE '%' || @name || '%'`,
		pgx.NamedArgs{"name": nameSubstring})
	if err != nil {
		return nil, fmt.Errorf("find category ids by name: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
