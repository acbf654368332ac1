package core

import (
	"encoding/json"
	"errors"
	"slices"
)

// Company is one tenant a user belongs to.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Membership links a user to a company with a per-company role.
type Membership struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// User is the authenticated identity held by the session.
type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	CompanyID   string       `json:"company_id,omitempty"`
	Status      string       `json:"status,omitempty"`
	Memberships []Membership `json:"companies,omitempty"`
}

var errInvalidUser = errors.New("user snapshot is invalid")

// ParseUser decodes a JSON user snapshot. A snapshot whose role is outside the
// closed set is rejected like any other malformed data.
func ParseUser(raw string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	if !u.Role.Valid() {
		return nil, errInvalidUser
	}
	return &u, nil
}

// clone returns a deep copy; the memberships are not shared with u.
func (u *User) clone() *User {
	cp := *u
	cp.Memberships = slices.Clone(u.Memberships)
	return &cp
}

// Companies returns the user's memberships as a company list.
func (u *User) Companies() []Company {
	out := make([]Company, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		out = append(out, Company{ID: m.CompanyID, Name: m.CompanyName})
	}
	return out
}

// DisplayName falls back to the email when the name is blank.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown"
}
