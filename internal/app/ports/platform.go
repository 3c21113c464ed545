package ports

import (
	"context"
	"time"

	"easymod/internal/domain/moderation"
)

// Platform is the remote chat platform. Implementations must not cache
// snapshots between calls.
type Platform interface {
	FetchOwner(ctx context.Context, guildID string) (moderation.ActorSnapshot, error)
	// FetchMember returns ErrNotFound when userID is not a member of guildID.
	FetchMember(ctx context.Context, guildID, userID string) (moderation.MemberSnapshot, error)
	// ApplyTimeout clears the timeout when until is nil.
	ApplyTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
	ApplyBan(ctx context.Context, guildID, userID string, deleteDays int, reason string) error
	ApplyKick(ctx context.Context, guildID, userID, reason string) error
}
