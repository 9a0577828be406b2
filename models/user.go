package models

import "time"

type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleOrganizer UserRole = "organizer"
	RoleSupport   UserRole = "support"
	RoleAdmin     UserRole = "admin"
)

// User is the minimal identity the engine needs: role for authorization
// gating, region for registration eligibility, rating for the rating engine.
// Account management itself lives in an external service.
type User struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Nickname  *string   `json:"nickname,omitempty" db:"nickname"`
	Role      UserRole  `json:"role" db:"role"`
	Region    string    `json:"region" db:"region"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (r UserRole) IsStaff() bool {
	return r == RoleSupport || r == RoleAdmin
}
