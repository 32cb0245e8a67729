package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Email:           "alice@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		Name:            "Alice",
		Role:            "user",
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SignupRequest)
		wantErr bool
	}{
		{"valid", func(*SignupRequest) {}, false},
		{"premium role", func(r *SignupRequest) { r.Role = "premium" }, false},
		{"business role", func(r *SignupRequest) { r.Role = "business" }, false},
		{"missing email", func(r *SignupRequest) { r.Email = "" }, true},
		{"malformed email", func(r *SignupRequest) { r.Email = "not-an-email" }, true},
		{"admin role is not self-assignable", func(r *SignupRequest) { r.Role = "admin" }, true},
		{"unknown role", func(r *SignupRequest) { r.Role = "superuser" }, true},
		{"short name", func(r *SignupRequest) { r.Name = "A" }, true},
		{"password too short", func(r *SignupRequest) {
			r.Password = "pass1"
			r.ConfirmPassword = "pass1"
		}, true},
		{"password without digits", func(r *SignupRequest) {
			r.Password = "passwords"
			r.ConfirmPassword = "passwords"
		}, true},
		{"password without letters", func(r *SignupRequest) {
			r.Password = "123456789"
			r.ConfirmPassword = "123456789"
		}, true},
		{"confirm mismatch", func(r *SignupRequest) { r.ConfirmPassword = "password124" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
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

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{Email: "alice@example.com", Password: "password123"}, false},
		{"missing email", LoginRequest{Password: "password123"}, true},
		{"malformed email", LoginRequest{Email: "nope", Password: "password123"}, true},
		{"missing password", LoginRequest{Email: "alice@example.com"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
