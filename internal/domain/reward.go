package domain

import "time"

// Reward is offered by a business user on one of its events. A premium
// organizer earns it by bringing RequiredParticipants approved participants
// to an outing linked to that event.
type Reward struct {
	ID                   uint      `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	RequiredParticipants int       `json:"required_participants"`
	EventID              uint      `json:"event_id"`
	BusinessID           uint      `json:"business_id"`
	CreatedAt            time.Time `json:"created_at"`
}
