package ports

import (
	"context"

	"github.com/spabook/portal/internal/core/domain"
)

// AuditRepository persists session lifecycle changes.
type AuditRepository interface {
	InsertChange(ctx context.Context, change domain.SessionChange) error
}

// ChangePublisher accepts session changes for asynchronous processing.
type ChangePublisher interface {
	Publish(change domain.SessionChange)
}
