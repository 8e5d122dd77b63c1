package model

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

const RoleProvider = "provider"

// Provider is a service professional in the directory. Rating, review count
// and experience are optional: absent means the upstream directory never
// supplied them, and any display default is applied at the handler boundary,
// never written back here.
type Provider struct {
	Base
	Name            string         `db:"name" json:"name"`
	Category        string         `db:"category" json:"category"`
	Specialties     pq.StringArray `db:"specialties" json:"specialties"`
	Role            string         `db:"role" json:"role"`
	Fee             float64        `db:"fee" json:"fee"`
	Rating          *float64       `db:"rating" json:"rating,omitempty"`
	ReviewCount     *int           `db:"review_count" json:"review_count,omitempty"`
	Location        string         `db:"location" json:"location"`
	YearsExperience *int           `db:"years_experience" json:"years_experience,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// OffersSpecialty reports whether the provider offers the given specialty.
// Matching is case-insensitive, the way the directory's search is.
func (p *Provider) OffersSpecialty(specialty string) bool {
	for _, s := range p.Specialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}

// Matches reports whether the provider matches a free-text query over name,
// category and specialties. An empty query matches everything.
func (p *Provider) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Category), q) {
		return true
	}
	for _, s := range p.Specialties {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
