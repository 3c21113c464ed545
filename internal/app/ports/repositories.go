package ports

import (
	"context"
	"time"
)

type GuildSettingsRecord struct {
	GuildID             string
	DefaultDeleteDays   int
	PublicConfirmations bool
	UpdatedAt           time.Time
}

type GuildSettingsRepository interface {
	// GetByGuildID returns ErrNotFound when the guild has never been configured.
	GetByGuildID(ctx context.Context, guildID string) (GuildSettingsRecord, error)
	Save(ctx context.Context, settings GuildSettingsRecord) error
}
