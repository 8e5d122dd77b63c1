package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusUnconfirmed AppointmentStatus = "unconfirmed"
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

type SessionType string

const (
	SessionInPerson SessionType = "in_person"
	SessionAudio    SessionType = "audio_call"
	SessionVideo    SessionType = "video_session"
)

// allowedTransitions is the closed status graph. Cancelled is terminal.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusUnconfirmed: {
		AppointmentStatusScheduled,
		AppointmentStatusRescheduled,
		AppointmentStatusCancelled,
	},
	AppointmentStatusScheduled: {
		AppointmentStatusRescheduled,
		AppointmentStatusCancelled,
	},
	AppointmentStatusRescheduled: {
		AppointmentStatusCancelled,
	},
	AppointmentStatusCancelled: {},
}

// CanTransition reports whether from → to is an allowed status edge.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s AppointmentStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// ValidSessionType reports whether t is one of the known session types.
func ValidSessionType(t SessionType) bool {
	switch t {
	case SessionInPerson, SessionAudio, SessionVideo:
		return true
	}
	return false
}

// Appointment is a consumer's reservation of a specific slot. Day and
// StartTime are copied from the slot on create and reschedule so listings
// can order by (day, time) without a join.
type Appointment struct {
	Base
	ProviderID  uuid.UUID         `db:"provider_id" json:"provider_id"`
	SlotID      uuid.UUID         `db:"slot_id" json:"slot_id"`
	ConsumerID  string            `db:"consumer_id" json:"consumer_id"`
	Specialty   string            `db:"specialty" json:"specialty"`
	SessionType SessionType       `db:"session_type" json:"session_type"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Day         int               `db:"day" json:"day"`
	StartTime   string            `db:"start_time" json:"start_time"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

type BookingRequest struct {
	ProviderID  string      `json:"provider_id" validate:"required,uuid"`
	Day         int         `json:"day" validate:"required,min=1,max=31"`
	StartTime   string      `json:"start_time" validate:"required"`
	ConsumerID  string      `json:"consumer_id" validate:"required"`
	Specialty   string      `json:"specialty" validate:"required"`
	SessionType SessionType `json:"session_type" validate:"required,oneof=in_person audio_call video_session"`
}

type RescheduleRequest struct {
	Day       int    `json:"day" validate:"required,min=1,max=31"`
	StartTime string `json:"start_time" validate:"required"`
}
