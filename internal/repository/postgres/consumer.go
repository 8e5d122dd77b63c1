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

type consumerRepository struct {
	db *sqlx.DB
}

func NewConsumerRepository(db *sqlx.DB) repository.ConsumerRepository {
	return &consumerRepository{db: db}
}

func (r *consumerRepository) Create(ctx context.Context, consumer *model.Consumer) error {
	query := `
		INSERT INTO consumers (
			id, email, name, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	if consumer.ID == uuid.Nil {
		consumer.ID = uuid.New()
	}
	consumer.CreatedAt = time.Now()
	consumer.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		consumer.ID,
		consumer.Email,
		consumer.Name,
		consumer.PasswordHash,
		consumer.CreatedAt,
		consumer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}
	return nil
}

func (r *consumerRepository) GetByEmail(ctx context.Context, email string) (*model.Consumer, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM consumers
		WHERE email = $1
	`
	var consumer model.Consumer
	err := r.db.GetContext(ctx, &consumer, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrConsumerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consumer: %w", err)
	}
	return &consumer, nil
}
