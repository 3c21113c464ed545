package gormrepo

import (
	"context"
	"errors"

	"easymod/internal/adapter/repo/gorm/model"
	"easymod/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GuildSettingsRepo struct {
	db *gorm.DB
}

func NewGuildSettingsRepo(db *gorm.DB) GuildSettingsRepo {
	return GuildSettingsRepo{db: db}
}

func (r GuildSettingsRepo) GetByGuildID(ctx context.Context, guildID string) (ports.GuildSettingsRecord, error) {
	var row model.GuildSetting
	if err := dbFor(ctx, r.db).Where("guild_id = ?", guildID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.GuildSettingsRecord{}, ports.ErrNotFound
		}
		return ports.GuildSettingsRecord{}, err
	}
	return ports.GuildSettingsRecord{
		GuildID:             row.GuildID,
		DefaultDeleteDays:   int(row.DefaultDeleteDays),
		PublicConfirmations: row.PublicConfirmations,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func (r GuildSettingsRepo) Save(ctx context.Context, settings ports.GuildSettingsRecord) error {
	row := model.GuildSetting{
		GuildID:             settings.GuildID,
		DefaultDeleteDays:   int32(settings.DefaultDeleteDays),
		PublicConfirmations: settings.PublicConfirmations,
		CreatedAt:           settings.UpdatedAt,
		UpdatedAt:           settings.UpdatedAt,
	}
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"default_delete_days", "public_confirmations", "updated_at"}),
	}).Create(&row).Error
}
