package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

type providerRepository struct {
	db *sqlx.DB
}

func NewProviderRepository(db *sqlx.DB) repository.ProviderRepository {
	return &providerRepository{db: db}
}

const providerColumns = `id, name, category, specialties, role, fee, rating,
	review_count, location, years_experience, created_at, updated_at`

func (r *providerRepository) Create(ctx context.Context, provider *model.Provider) error {
	query := `
		INSERT INTO providers (
			id, name, category, specialties, role, fee, rating,
			review_count, location, years_experience, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		provider.ID,
		provider.Name,
		provider.Category,
		provider.Specialties,
		provider.Role,
		provider.Fee,
		provider.Rating,
		provider.ReviewCount,
		provider.Location,
		provider.YearsExperience,
		provider.CreatedAt,
		provider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *providerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE id = $1`, providerColumns)

	var provider model.Provider
	err := r.db.GetContext(ctx, &provider, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) List(ctx context.Context) ([]*model.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers ORDER BY name`, providerColumns)

	providers := []*model.Provider{}
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) ListByCategory(ctx context.Context, category string) ([]*model.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE category = $1 ORDER BY name`, providerColumns)

	providers := []*model.Provider{}
	if err := r.db.SelectContext(ctx, &providers, query, category); err != nil {
		return nil, fmt.Errorf("failed to list providers by category: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) Search(ctx context.Context, query string) ([]*model.Provider, error) {
	sqlQuery := fmt.Sprintf(`
		SELECT %s FROM providers
		WHERE name ILIKE $1
		   OR category ILIKE $1
		   OR EXISTS (
				SELECT 1 FROM unnest(specialties) AS s WHERE s ILIKE $1
		   )
		ORDER BY name
	`, providerColumns)

	providers := []*model.Provider{}
	if err := r.db.SelectContext(ctx, &providers, sqlQuery, "%"+query+"%"); err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}
	return providers, nil
}
