package domain

import "time"

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "PENDING"
	ParticipationApproved ParticipationStatus = "APPROVED"
	ParticipationRejected ParticipationStatus = "REJECTED"
)

// Participation is one user's request to join one outing. At most one live
// record exists per (user, outing) pair; the organizer moves it from PENDING
// to APPROVED or REJECTED, and the requester may delete it at any time.
type Participation struct {
	ID        uint                `json:"id"`
	UserID    uint                `json:"user_id"`
	OutingID  uint                `json:"outing_id"`
	Status    ParticipationStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (p Participation) IsPending() bool {
	return p.Status == ParticipationPending
}

func (p Participation) IsApproved() bool {
	return p.Status == ParticipationApproved
}
