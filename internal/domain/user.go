package domain

import "time"

const (
	RoleUser     = "user"
	RolePremium  = "premium"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPremium reports whether the user holds the premium role, which lifts the
// outing size cap and makes them eligible for reward vouchers.
func (u User) IsPremium() bool {
	return u.Role == RolePremium
}
