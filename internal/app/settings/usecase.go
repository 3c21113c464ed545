package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"easymod/internal/app/ports"
	"easymod/internal/domain/moderation"
)

var (
	ErrInvalidRequest    = errors.New("invalid settings request")
	ErrInvalidDeleteDays = errors.New("delete days out of range")
)

type Settings struct {
	GuildID             string    `json:"guild_id"`
	DefaultDeleteDays   int       `json:"default_delete_days"`
	PublicConfirmations bool      `json:"public_confirmations"`
	UpdatedAt           time.Time `json:"updated_at"`
	Stored              bool      `json:"stored"`
}

func Defaults(guildID string) Settings {
	return Settings{
		GuildID:             guildID,
		DefaultDeleteDays:   0,
		PublicConfirmations: true,
	}
}

type Patch struct {
	DefaultDeleteDays   *int
	PublicConfirmations *bool
}

func (p Patch) Empty() bool {
	return p.DefaultDeleteDays == nil && p.PublicConfirmations == nil
}

type UseCase struct {
	Repo      ports.GuildSettingsRepository
	TxManager ports.TxManager
	Now       func() time.Time
}

func (u UseCase) Get(ctx context.Context, guildID string) (Settings, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return Settings{}, ErrInvalidRequest
	}
	if u.Repo == nil {
		return Defaults(guildID), nil
	}
	rec, err := u.Repo.GetByGuildID(ctx, guildID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Defaults(guildID), nil
		}
		return Settings{}, err
	}
	return fromRecord(rec), nil
}

func (u UseCase) Update(ctx context.Context, guildID string, patch Patch) (Settings, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" || u.Repo == nil || u.TxManager == nil {
		return Settings{}, ErrInvalidRequest
	}
	if patch.DefaultDeleteDays != nil && !moderation.ValidDeleteDays(*patch.DefaultDeleteDays) {
		return Settings{}, ErrInvalidDeleteDays
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out Settings
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := u.Get(txCtx, guildID)
		if err != nil {
			return err
		}
		if patch.DefaultDeleteDays != nil {
			current.DefaultDeleteDays = *patch.DefaultDeleteDays
		}
		if patch.PublicConfirmations != nil {
			current.PublicConfirmations = *patch.PublicConfirmations
		}
		current.UpdatedAt = nowFn().UTC()
		current.Stored = true
		if err := u.Repo.Save(txCtx, toRecord(current)); err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return Settings{}, err
	}
	return out, nil
}

func fromRecord(rec ports.GuildSettingsRecord) Settings {
	return Settings{
		GuildID:             rec.GuildID,
		DefaultDeleteDays:   rec.DefaultDeleteDays,
		PublicConfirmations: rec.PublicConfirmations,
		UpdatedAt:           rec.UpdatedAt,
		Stored:              true,
	}
}

func toRecord(s Settings) ports.GuildSettingsRecord {
	return ports.GuildSettingsRecord{
		GuildID:             s.GuildID,
		DefaultDeleteDays:   s.DefaultDeleteDays,
		PublicConfirmations: s.PublicConfirmations,
		UpdatedAt:           s.UpdatedAt,
	}
}
