package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotOpen     SlotStatus = "open"
	SlotReserved SlotStatus = "reserved"
)

// Slot is a bookable (day, time) opportunity for a single provider.
// (ProviderID, Day, StartTime) is unique; a reserved slot is held by at most
// one appointment.
type Slot struct {
	Base
	ProviderID uuid.UUID  `db:"provider_id" json:"provider_id"`
	Day        int        `db:"day" json:"day"`
	StartTime  string     `db:"start_time" json:"start_time"`
	Status     SlotStatus `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

func (s *Slot) IsOpen() bool {
	return s.Status == SlotOpen
}

// MinuteOfDay converts the slot's HH:MM start time to minutes since
// midnight, the sort key for a day's slots. Malformed times sort last.
func (s *Slot) MinuteOfDay() int {
	m, err := MinuteOfDay(s.StartTime)
	if err != nil {
		return 24 * 60
	}
	return m
}

// MinuteOfDay parses an HH:MM time-of-day string.
func MinuteOfDay(startTime string) (int, error) {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", startTime, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateDay checks a calendar day of month.
func ValidateDay(day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("day must be between 1 and 31, got %d", day)
	}
	return nil
}
