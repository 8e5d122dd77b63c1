// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back unit tests and demo runs without a
// database; the slot repository's Reserve is a real check-and-set under a
// single lock, so the concurrency guarantees match the postgres version.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

type providerRepository struct {
	mu        sync.RWMutex
	providers map[uuid.UUID]*model.Provider
}

func NewProviderRepository() repository.ProviderRepository {
	return &providerRepository{providers: make(map[uuid.UUID]*model.Provider)}
}

func (r *providerRepository) Create(_ context.Context, provider *model.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()
	cp := *provider
	r.providers[provider.ID] = &cp
	return nil
}

func (r *providerRepository) Get(_ context.Context, id uuid.UUID) (*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return nil, model.ErrProviderNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *providerRepository) List(_ context.Context) ([]*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*model.Provider) bool { return true }), nil
}

func (r *providerRepository) ListByCategory(_ context.Context, category string) ([]*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(p *model.Provider) bool { return p.Category == category }), nil
}

func (r *providerRepository) Search(_ context.Context, query string) ([]*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(p *model.Provider) bool { return p.Matches(query) }), nil
}

func (r *providerRepository) collect(match func(*model.Provider) bool) []*model.Provider {
	out := []*model.Provider{}
	for _, p := range r.providers {
		if match(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

type slotRepository struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*model.Slot
}

func NewSlotRepository() repository.SlotRepository {
	return &slotRepository{slots: make(map[uuid.UUID]*model.Slot)}
}

func (r *slotRepository) Create(_ context.Context, slot *model.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	if slot.Status == "" {
		slot.Status = model.SlotOpen
	}
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = time.Now()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *slotRepository) Get(_ context.Context, id uuid.UUID) (*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, model.ErrSlotUnavailable
	}
	cp := *s
	return &cp, nil
}

func (r *slotRepository) Find(_ context.Context, providerID uuid.UUID, day int, startTime string) (*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.ProviderID == providerID && s.Day == day && s.StartTime == startTime {
			cp := *s
			return &cp, nil
		}
	}
	return nil, model.ErrSlotUnavailable
}

func (r *slotRepository) ListForDay(_ context.Context, providerID uuid.UUID, day int) ([]*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := []*model.Slot{}
	for _, s := range r.slots {
		if s.ProviderID == providerID && s.Day == day {
			cp := *s
			slots = append(slots, &cp)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].MinuteOfDay() < slots[j].MinuteOfDay()
	})
	return slots, nil
}

// Reserve is the check-and-set under the repository lock: of concurrent
// callers for the same slot, exactly one observes Open and wins.
func (r *slotRepository) Reserve(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok || s.Status != model.SlotOpen {
		return model.ErrSlotUnavailable
	}
	s.Status = model.SlotReserved
	s.UpdatedAt = time.Now()
	return nil
}

func (r *slotRepository) Release(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok || s.Status != model.SlotReserved {
		return model.ErrInvalidState
	}
	s.Status = model.SlotOpen
	s.UpdatedAt = time.Now()
	return nil
}

type appointmentRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*model.Appointment
}

func NewAppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepository{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *appointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()
	cp := *appointment
	r.appointments[appointment.ID] = &cp
	return nil
}

func (r *appointmentRepository) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, model.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *appointmentRepository) Update(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[appointment.ID]; !ok {
		return model.ErrAppointmentNotFound
	}
	appointment.UpdatedAt = time.Now()
	cp := *appointment
	r.appointments[appointment.ID] = &cp
	return nil
}

func (r *appointmentRepository) ListForConsumer(_ context.Context, consumerID string) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(a *model.Appointment) bool { return a.ConsumerID == consumerID }), nil
}

func (r *appointmentRepository) ListForProvider(_ context.Context, providerID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(a *model.Appointment) bool { return a.ProviderID == providerID }), nil
}

func (r *appointmentRepository) collect(match func(*model.Appointment) bool) []*model.Appointment {
	out := []*model.Appointment{}
	for _, a := range r.appointments {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		mi, _ := model.MinuteOfDay(out[i].StartTime)
		mj, _ := model.MinuteOfDay(out[j].StartTime)
		return mi < mj
	})
	return out
}

type consumerRepository struct {
	mu        sync.RWMutex
	consumers map[string]*model.Consumer
}

func NewConsumerRepository() repository.ConsumerRepository {
	return &consumerRepository{consumers: make(map[string]*model.Consumer)}
}

func (r *consumerRepository) Create(_ context.Context, consumer *model.Consumer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if consumer.ID == uuid.Nil {
		consumer.ID = uuid.New()
	}
	consumer.CreatedAt = time.Now()
	consumer.UpdatedAt = time.Now()
	cp := *consumer
	r.consumers[consumer.Email] = &cp
	return nil
}

func (r *consumerRepository) GetByEmail(_ context.Context, email string) (*model.Consumer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.consumers[email]
	if !ok {
		return nil, model.ErrConsumerNotFound
	}
	cp := *c
	return &cp, nil
}

type outboxRepository struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func NewOutboxRepository() repository.OutboxRepository {
	return &outboxRepository{}
}

func (r *outboxRepository) Create(_ context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *outboxRepository) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.OutboxEvent{}
	for _, e := range r.events {
		if e.Status != model.OutboxStatusPending {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *outboxRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.ID == id {
			now := time.Now()
			e.Status = status
			e.ErrorMessage = errorMessage
			e.ProcessedAt = &now
			e.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("outbox event not found")
}
