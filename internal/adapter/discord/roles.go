package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type roleMemoKey struct{}

// roleMemo holds guild role positions for the lifetime of one command.
type roleMemo struct {
	mu        sync.Mutex
	positions map[string]map[string]int
}

// WithRoleMemo scopes role lookups to a single invocation: the first
// FetchOwner or FetchMember under ctx loads the guild's roles and later
// calls under the same ctx reuse them.
func WithRoleMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, roleMemoKey{}, &roleMemo{positions: make(map[string]map[string]int)})
}

func roleMemoFrom(ctx context.Context) *roleMemo {
	m, _ := ctx.Value(roleMemoKey{}).(*roleMemo)
	return m
}

func (m *roleMemo) get(guildID string) (map[string]int, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[guildID]
	return pos, ok
}

func (m *roleMemo) put(guildID string, pos map[string]int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[guildID] = pos
}

func rolePositions(roles []*discordgo.Role) map[string]int {
	positions := make(map[string]int, len(roles))
	for _, r := range roles {
		if r == nil {
			continue
		}
		positions[r.ID] = r.Position
	}
	return positions
}
