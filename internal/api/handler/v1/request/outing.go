package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateOutingRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	OutingDate      string `json:"outing_date" format:"RFC3339"`
	MaxParticipants int    `json:"max_participants"`
	EventID         *uint  `json:"event_id,omitempty"`
}

func (req *CreateOutingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Required, validation.Length(2, 2000)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 500)),
		validation.Field(&req.OutingDate, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
		validation.Field(&req.MaxParticipants, validation.Required, validation.Min(1)),
	)
}

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at" format:"RFC3339"`
	EndsAt      string `json:"ends_at" format:"RFC3339"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 500)),
		validation.Field(&req.StartsAt, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
		validation.Field(&req.EndsAt, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
	)
}

type CreateRewardRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	RequiredParticipants int    `json:"required_participants"`
}

func (req *CreateRewardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Required, validation.Length(2, 2000)),
		validation.Field(&req.RequiredParticipants, validation.Required, validation.Min(1)),
	)
}
