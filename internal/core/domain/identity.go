package domain

import "time"

// Identity is the authenticated user record. Its JSON form is the persisted
// `user` value, so field names must not change.
type Identity struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Avatar      string       `json:"avatar"`
	Role        Role         `json:"role"`
	Permissions []Capability `json:"permissions"`
}

// Clone returns a deep copy so callers cannot mutate session state through
// a returned pointer.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Permissions != nil {
		c.Permissions = make([]Capability, len(i.Permissions))
		copy(c.Permissions, i.Permissions)
	}
	return &c
}

// DisplayName joins first and last name.
func (i *Identity) DisplayName() string {
	if i.LastName == "" {
		return i.FirstName
	}
	if i.FirstName == "" {
		return i.LastName
	}
	return i.FirstName + " " + i.LastName
}

// Account is a credential-backed identity as stored by the account repository.
type Account struct {
	Identity
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Registration carries the data a visitor submits when signing up.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}
