package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
)

// LogAudit writes session changes to the log when no database is configured.
type LogAudit struct {
	log zerolog.Logger
}

func NewLogAudit(log zerolog.Logger) *LogAudit {
	return &LogAudit{log: log}
}

func (a *LogAudit) InsertChange(_ context.Context, change domain.SessionChange) error {
	ev := a.log.Info().
		Str("session_id", change.SessionID).
		Str("kind", string(change.Kind)).
		Str("state", string(change.Snapshot.State)).
		Time("at", change.At)
	if id := change.Snapshot.Identity; id != nil {
		ev = ev.Str("user_id", id.ID).Str("role", string(id.Role))
	}
	ev.Msg("session change")
	return nil
}
