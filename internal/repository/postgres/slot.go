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

type slotRepository struct {
	db *sqlx.DB
}

func NewSlotRepository(db *sqlx.DB) repository.SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO availability_slots (
			id, provider_id, day, start_time, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	if slot.Status == "" {
		slot.Status = model.SlotOpen
	}
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		slot.ID,
		slot.ProviderID,
		slot.Day,
		slot.StartTime,
		slot.Status,
		slot.CreatedAt,
		slot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	return nil
}

func (r *slotRepository) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `
		SELECT id, provider_id, day, start_time, status, created_at, updated_at
		FROM availability_slots
		WHERE id = $1
	`
	var slot model.Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

func (r *slotRepository) Find(ctx context.Context, providerID uuid.UUID, day int, startTime string) (*model.Slot, error) {
	query := `
		SELECT id, provider_id, day, start_time, status, created_at, updated_at
		FROM availability_slots
		WHERE provider_id = $1 AND day = $2 AND start_time = $3
	`
	var slot model.Slot
	err := r.db.GetContext(ctx, &slot, query, providerID, day, startTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

func (r *slotRepository) ListForDay(ctx context.Context, providerID uuid.UUID, day int) ([]*model.Slot, error) {
	query := `
		SELECT id, provider_id, day, start_time, status, created_at, updated_at
		FROM availability_slots
		WHERE provider_id = $1 AND day = $2
		ORDER BY start_time
	`
	slots := []*model.Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, providerID, day); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// Reserve flips an open slot to reserved with a conditional update. The
// WHERE clause is the check-and-set: of any number of concurrent callers,
// only one update matches a row.
func (r *slotRepository) Reserve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, model.SlotReserved, time.Now(), id, model.SlotOpen)
	if err != nil {
		return fmt.Errorf("failed to reserve slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrSlotUnavailable
	}
	return nil
}

// Release flips a reserved slot back to open. Releasing an already-open
// slot is a programming error and surfaces as ErrInvalidState.
func (r *slotRepository) Release(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, model.SlotOpen, time.Now(), id, model.SlotReserved)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrInvalidState
	}
	return nil
}
