package memory

import (
	"context"

	"easymod/internal/app/ports"
)

type GuildSettingsRepo struct {
	store *Store
}

func NewGuildSettingsRepo(store *Store) GuildSettingsRepo {
	return GuildSettingsRepo{store: store}
}

func (r GuildSettingsRepo) GetByGuildID(_ context.Context, guildID string) (ports.GuildSettingsRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.settings[guildID]
	if !ok {
		return ports.GuildSettingsRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r GuildSettingsRepo) Save(_ context.Context, settings ports.GuildSettingsRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.settings[settings.GuildID] = settings
	return nil
}
