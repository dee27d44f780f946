package user

import (
	"strings"

	"github.com/kinora/kinora/pkg/date"
)

// User is a registered viewer who can like films and befriend other users.
//
// Friends holds DIRECTED edges: this user's outbound friendships. A being
// a friend of B does not imply the reverse edge exists.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Login    string    `json:"login"`
	Name     string    `json:"name"`
	Birthday date.Date `json:"birthday"`
	Friends  []int64   `json:"friends"`
}

// Normalize applies the write-boundary defaulting rules: a blank or
// whitespace-only display name falls back to the login. Applied once at
// add/update time so the stored representation is always canonical.
func (u *User) Normalize() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}

// Global field names for validation
const (
	FieldEmail    = "email"
	FieldLogin    = "login"
	FieldBirthday = "birthday"
)
