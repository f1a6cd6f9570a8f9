package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
)

// CredentialAuthenticator verifies passwords against stored bcrypt hashes.
type CredentialAuthenticator struct {
	repo ports.AccountRepository
	cost int
	log  zerolog.Logger
}

func NewCredentialAuthenticator(repo ports.AccountRepository, log zerolog.Logger) *CredentialAuthenticator {
	return &CredentialAuthenticator{repo: repo, cost: bcrypt.DefaultCost, log: log}
}

func (a *CredentialAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	account, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown addresses look exactly like wrong passwords.
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		a.log.Debug().Str("email", email).Msg("password mismatch")
		return nil, domain.ErrAuthenticationFailed
	}

	return account.Identity.Clone(), nil
}

func (a *CredentialAuthenticator) Register(ctx context.Context, in domain.Registration) (*domain.Identity, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	account, err := NewAccount(newCustomerIdentity(uuid.NewString(), in), in.Password, a.cost)
	if err != nil {
		return nil, err
	}

	created, err := a.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	return created.Identity.Clone(), nil
}

// NewAccount hashes password and wraps identity into a storable Account.
func NewAccount(identity *domain.Identity, password string, cost int) (*domain.Account, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Account{
		Identity:     *identity.Clone(),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
