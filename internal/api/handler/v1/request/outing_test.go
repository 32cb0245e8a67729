package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCreateOuting() CreateOutingRequest {
	return CreateOutingRequest{
		Title:           "Friday bouldering",
		Description:     "Casual session at the gym, beginners welcome.",
		Location:        "Block'Out Lyon",
		OutingDate:      "2026-09-18T19:00:00+02:00",
		MaxParticipants: 6,
	}
}

func TestCreateOutingRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateOutingRequest)
		wantErr bool
	}{
		{"valid", func(*CreateOutingRequest) {}, false},
		{"with event link", func(r *CreateOutingRequest) {
			id := uint(1)
			r.EventID = &id
		}, false},
		{"missing title", func(r *CreateOutingRequest) { r.Title = "" }, true},
		{"missing location", func(r *CreateOutingRequest) { r.Location = "" }, true},
		{"bad date format", func(r *CreateOutingRequest) { r.OutingDate = "18/09/2026 19:00" }, true},
		{"zero capacity", func(r *CreateOutingRequest) { r.MaxParticipants = 0 }, true},
		{"negative capacity", func(r *CreateOutingRequest) { r.MaxParticipants = -3 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateOuting()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateEventRequest_Validate(t *testing.T) {
	valid := CreateEventRequest{
		Name:     "Open doors week",
		Location: "Le Clos, Lyon",
		StartsAt: "2026-09-01T10:00:00+02:00",
		EndsAt:   "2026-09-07T22:00:00+02:00",
	}

	t.Run("valid", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("missing start date", func(t *testing.T) {
		req := valid
		req.StartsAt = ""
		assert.Error(t, req.Validate())
	})

	t.Run("bad end date", func(t *testing.T) {
		req := valid
		req.EndsAt = "next sunday"
		assert.Error(t, req.Validate())
	})
}

func TestCreateRewardRequest_Validate(t *testing.T) {
	valid := CreateRewardRequest{
		Title:                "Free bottle",
		Description:          "One free bottle for the organizer.",
		RequiredParticipants: 3,
	}

	t.Run("valid", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("zero threshold", func(t *testing.T) {
		req := valid
		req.RequiredParticipants = 0
		assert.Error(t, req.Validate())
	})
}
