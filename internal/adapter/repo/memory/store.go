package memory

import (
	"sync"

	"easymod/internal/app/ports"
)

type Store struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	settings map[string]ports.GuildSettingsRecord
}

func NewStore() *Store {
	return &Store{
		settings: make(map[string]ports.GuildSettingsRecord),
	}
}

func (s *Store) SeedSettings(rec ports.GuildSettingsRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[rec.GuildID] = rec
}
