package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"easymod/internal/app/ports"
	"easymod/internal/domain/moderation"

	"github.com/bwmarrin/discordgo"
)

// Platform implements ports.Platform over the Discord REST API. The session
// state cache is never consulted. Role positions are shared only within a
// ctx prepared by WithRoleMemo.
type Platform struct {
	Session *discordgo.Session
}

func NewPlatform(s *discordgo.Session) Platform {
	return Platform{Session: s}
}

func (p Platform) FetchOwner(ctx context.Context, guildID string) (moderation.ActorSnapshot, error) {
	g, err := p.Session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return moderation.ActorSnapshot{}, fmt.Errorf("fetch guild %s: %w", guildID, mapError(err))
	}
	if len(g.Roles) > 0 {
		roleMemoFrom(ctx).put(guildID, rolePositions(g.Roles))
	}
	return moderation.ActorSnapshot{ID: g.OwnerID, IsOwner: true}, nil
}

func (p Platform) loadRolePositions(ctx context.Context, guildID string) (map[string]int, error) {
	memo := roleMemoFrom(ctx)
	if pos, ok := memo.get(guildID); ok {
		return pos, nil
	}
	roles, err := p.Session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	pos := rolePositions(roles)
	memo.put(guildID, pos)
	return pos, nil
}

func (p Platform) FetchMember(ctx context.Context, guildID, userID string) (moderation.MemberSnapshot, error) {
	positions, err := p.loadRolePositions(ctx, guildID)
	if err != nil {
		return moderation.MemberSnapshot{}, fmt.Errorf("fetch roles %s: %w", guildID, mapError(err))
	}
	m, err := p.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return moderation.MemberSnapshot{}, fmt.Errorf("fetch member %s: %w", userID, mapError(err))
	}

	id := userID
	if m.User != nil && m.User.ID != "" {
		id = m.User.ID
	}
	return moderation.MemberSnapshot{
		ActorSnapshot: moderation.ActorSnapshot{
			ID:   id,
			Rank: moderation.EffectiveRank(guildID, m.Roles, positions),
		},
		TimedOutUntil: m.CommunicationDisabledUntil,
	}, nil
}

func (p Platform) ApplyTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	if err := p.Session.GuildMemberTimeout(guildID, userID, until, requestOptions(ctx, reason)...); err != nil {
		return fmt.Errorf("timeout member %s: %w", userID, mapError(err))
	}
	return nil
}

func (p Platform) ApplyBan(ctx context.Context, guildID, userID string, deleteDays int, reason string) error {
	if err := p.Session.GuildBanCreateWithReason(guildID, userID, reason, deleteDays, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("ban member %s: %w", userID, mapError(err))
	}
	return nil
}

func (p Platform) ApplyKick(ctx context.Context, guildID, userID, reason string) error {
	if err := p.Session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("kick member %s: %w", userID, mapError(err))
	}
	return nil
}

func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts
}

// mapError translates discordgo failures into the port's error vocabulary.
func mapError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
		}
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	status := restErr.Response.StatusCode
	switch status {
	case http.StatusNotFound:
		return ports.ErrNotFound
	case http.StatusForbidden:
		return ports.ErrForbidden
	}
	apiErr := &ports.APIError{Status: status}
	if restErr.Message != nil {
		apiErr.Code = restErr.Message.Code
		apiErr.Message = restErr.Message.Message
	}
	return apiErr
}
