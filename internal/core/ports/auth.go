package ports

import (
	"context"

	"github.com/spabook/portal/internal/core/domain"
)

// Authenticator resolves credentials to an Identity. It never touches
// session state.
type Authenticator interface {
	// Authenticate returns domain.ErrAuthenticationFailed for bad credentials.
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
	// Register returns domain.ErrRegistrationConflict when the email is taken.
	Register(ctx context.Context, in domain.Registration) (*domain.Identity, error)
}

// TokenIssuer creates and checks the opaque `auth_token` value.
type TokenIssuer interface {
	Issue(identity *domain.Identity) (string, error)
	Verify(token string) error
}

// AccountRepository defines persistence for credential-backed accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
