package domain

import "time"

type NotificationCategory string

const (
	NotificationParticipationRequest  NotificationCategory = "participation_request"
	NotificationParticipationApproved NotificationCategory = "participation_approved"
	NotificationParticipationRejected NotificationCategory = "participation_rejected"
	NotificationRewardEarned          NotificationCategory = "reward_earned"
	NotificationSystem                NotificationCategory = "system"
)

// Notification is a one-way, best-effort message to a user. RefID/RefType
// optionally point at the entity the message is about.
type Notification struct {
	ID        uint                 `json:"id"`
	UserID    uint                 `json:"user_id"`
	Category  NotificationCategory `json:"category"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	RefID     uint                 `json:"ref_id,omitempty"`
	RefType   string               `json:"ref_type,omitempty"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at"`
}
