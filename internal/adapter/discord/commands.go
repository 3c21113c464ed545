package discord

import (
	"context"
	"fmt"

	"easymod/internal/domain/moderation"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandTimeout   = "timeout"
	CommandUntimeout = "untimeout"
	CommandBan       = "ban"
	CommandKick      = "kick"
	CommandPing      = "ping"
	CommandAbout     = "about"
	CommandModConfig = "modconfig"

	SubcommandShow = "show"
	SubcommandSet  = "set"

	OptionUser                = "user"
	OptionDuration            = "duration"
	OptionReason              = "reason"
	OptionDeleteDays          = "delete_days"
	OptionPublicConfirmations = "public_confirmations"
)

func permission(p int64) *int64 {
	return &p
}

func guildOnly() *bool {
	v := false
	return &v
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        OptionUser,
		Description: description,
		Required:    true,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        OptionReason,
		Description: "Reason recorded with the action",
		MaxLength:   512,
	}
}

func deleteDaysOption(description string) *discordgo.ApplicationCommandOption {
	minDays := float64(0)
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        OptionDeleteDays,
		Description: description,
		MinValue:    &minDays,
		MaxValue:    float64(moderation.MaxBanDeleteDays),
	}
}

// Definitions returns every slash command the bot serves.
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandTimeout,
			Description:              "Time out a member",
			DefaultMemberPermissions: permission(discordgo.PermissionModerateMembers),
			DMPermission:             guildOnly(),
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to time out"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionDuration,
					Description: "How long, e.g. 10m, 2h30m, 1w2d (max 28d)",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Name:                     CommandUntimeout,
			Description:              "Remove a member's timeout",
			DefaultMemberPermissions: permission(discordgo.PermissionModerateMembers),
			DMPermission:             guildOnly(),
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member whose timeout to remove"),
				reasonOption(),
			},
		},
		{
			Name:                     CommandBan,
			Description:              "Ban a user from the server",
			DefaultMemberPermissions: permission(discordgo.PermissionBanMembers),
			DMPermission:             guildOnly(),
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to ban"),
				reasonOption(),
				deleteDaysOption("Days of messages to delete (0-7)"),
			},
		},
		{
			Name:                     CommandKick,
			Description:              "Kick a member from the server",
			DefaultMemberPermissions: permission(discordgo.PermissionKickMembers),
			DMPermission:             guildOnly(),
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to kick"),
				reasonOption(),
			},
		},
		{
			Name:        CommandPing,
			Description: "Check that the bot is responding",
		},
		{
			Name:        CommandAbout,
			Description: "Show bot version",
		},
		{
			Name:                     CommandModConfig,
			Description:              "Show or change moderation settings for this server",
			DefaultMemberPermissions: permission(discordgo.PermissionManageServer),
			DMPermission:             guildOnly(),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandShow,
					Description: "Show current settings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandSet,
					Description: "Change settings",
					Options: []*discordgo.ApplicationCommandOption{
						deleteDaysOption("Default days of messages to delete on ban (0-7)"),
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        OptionPublicConfirmations,
							Description: "Post confirmations visibly in the channel",
						},
					},
				},
			},
		},
	}
}

// CommandRegistrar is the slice of *discordgo.Session used to publish commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands replaces the application's commands. An empty guildID
// registers them globally.
func RegisterCommands(ctx context.Context, r CommandRegistrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	if appID == "" {
		return nil, fmt.Errorf("register commands: application id is required")
	}
	out, err := r.ApplicationCommandBulkOverwrite(appID, guildID, Definitions(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", mapError(err))
	}
	return out, nil
}
