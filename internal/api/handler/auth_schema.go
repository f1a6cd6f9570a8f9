package handler

import "github.com/spabook/portal/internal/core/domain"

// loginRequest carries no presence rules: empty credentials are an
// authentication failure, not a malformed request.
type loginRequest struct {
	Email    string `json:"email"    validate:"max=254"`
	Password string `json:"password" validate:"max=128"`
}

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email,max=254"`
	Password  string `json:"password"  validate:"required,min=6,max=128"`
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName"  validate:"required,max=80"`
	Phone     string `json:"phone"     validate:"omitempty,max=32"`
}

func (r registerRequest) toRegistration() domain.Registration {
	return domain.Registration{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
}

type authResponse struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user"`
}
