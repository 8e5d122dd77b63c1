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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, provider_id, slot_id, consumer_id, specialty, session_type,
			status, day, start_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ProviderID,
		appointment.SlotID,
		appointment.ConsumerID,
		appointment.Specialty,
		appointment.SessionType,
		appointment.Status,
		appointment.Day,
		appointment.StartTime,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, provider_id, slot_id, consumer_id, specialty, session_type,
			   status, day, start_time, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET slot_id = $1, status = $2, day = $3, start_time = $4, updated_at = $5
		WHERE id = $6
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.SlotID,
		appointment.Status,
		appointment.Day,
		appointment.StartTime,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepository) ListForConsumer(ctx context.Context, consumerID string) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, slot_id, consumer_id, specialty, session_type,
			   status, day, start_time, created_at, updated_at
		FROM appointments
		WHERE consumer_id = $1
		ORDER BY day, start_time
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, consumerID); err != nil {
		return nil, fmt.Errorf("failed to list appointments for consumer: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, slot_id, consumer_id, specialty, session_type,
			   status, day, start_time, created_at, updated_at
		FROM appointments
		WHERE provider_id = $1
		ORDER BY day, start_time
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to list appointments for provider: %w", err)
	}
	return appointments, nil
}
