package response

import "github.com/gathorapp/outings-api/internal/domain"

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
