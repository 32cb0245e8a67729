package domain

import "time"

// MaxParticipantsStandardCap is the largest group a non-premium organizer may
// declare. Premium organizers are uncapped.
const MaxParticipantsStandardCap = 10

type Outing struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	OutingDate      time.Time `json:"outing_date"`
	MaxParticipants int       `json:"max_participants"`
	OrganizerID     uint      `json:"organizer_id"`
	EventID         *uint     `json:"event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsLinkedToEvent reports whether the outing belongs to a business event,
// which is what makes its organizer eligible for event rewards.
func (o Outing) IsLinkedToEvent() bool {
	return o.EventID != nil
}

type Event struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	BusinessID  uint      `json:"business_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
