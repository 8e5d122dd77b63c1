package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// ProviderRepository is the read-mostly provider directory store.
	// Population and refresh are the concern of the external data source;
	// Create exists for seeding and ingestion.
	ProviderRepository interface {
		Create(ctx context.Context, provider *model.Provider) error
		Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
		List(ctx context.Context) ([]*model.Provider, error)
		ListByCategory(ctx context.Context, category string) ([]*model.Provider, error)
		Search(ctx context.Context, query string) ([]*model.Provider, error)
	}

	// SlotRepository stores availability slots. Reserve is the single
	// serializing mutation point: it must succeed for at most one of any
	// set of concurrent callers targeting the same slot.
	SlotRepository interface {
		Create(ctx context.Context, slot *model.Slot) error
		Get(ctx context.Context, id uuid.UUID) (*model.Slot, error)
		Find(ctx context.Context, providerID uuid.UUID, day int, startTime string) (*model.Slot, error)
		ListForDay(ctx context.Context, providerID uuid.UUID, day int) ([]*model.Slot, error)
		Reserve(ctx context.Context, id uuid.UUID) error
		Release(ctx context.Context, id uuid.UUID) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		ListForConsumer(ctx context.Context, consumerID string) ([]*model.Appointment, error)
		ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Appointment, error)
	}

	ConsumerRepository interface {
		Create(ctx context.Context, consumer *model.Consumer) error
		GetByEmail(ctx context.Context, email string) (*model.Consumer, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	}
)
