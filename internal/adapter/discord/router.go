package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"easymod/internal/app/action"
	"easymod/internal/app/settings"
	"easymod/internal/domain/moderation"

	"github.com/bwmarrin/discordgo"
	"github.com/carlmjohnson/versioninfo"
)

const (
	msgUnknownCommand     = "Unknown command."
	msgUnsupported        = "Unsupported interaction."
	msgGuildOnly          = "This command only works in a server."
	msgSomethingWentWrong = "Sorry, something went wrong while handling that command."
	msgNothingToChange    = "Nothing to change. Pass delete_days or public_confirmations."
)

type Moderator interface {
	Timeout(ctx context.Context, req action.Request) action.Response
	RemoveTimeout(ctx context.Context, req action.Request) action.Response
	Ban(ctx context.Context, req action.Request) action.Response
	Kick(ctx context.Context, req action.Request) action.Response
}

type SettingsService interface {
	Get(ctx context.Context, guildID string) (settings.Settings, error)
	Update(ctx context.Context, guildID string, patch settings.Patch) (settings.Settings, error)
}

// Router turns one interaction into exactly one response.
type Router struct {
	Moderation Moderator
	Settings   SettingsService
	Logger     *slog.Logger
	// Version shown by /about; empty uses the build's version info.
	Version string
}

func (r Router) Route(ctx context.Context, i *discordgo.Interaction) (resp *discordgo.InteractionResponse) {
	if i == nil {
		return message(msgUnsupported, true)
	}
	logger := r.logger().With("interaction", i.ID, "guild", i.GuildID)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("interaction handler panicked", "err", rec)
			resp = message(msgSomethingWentWrong, true)
		}
	}()

	switch i.Type {
	case discordgo.InteractionPing:
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
	case discordgo.InteractionApplicationCommand:
		return r.routeCommand(ctx, logger, i)
	default:
		logger.Debug("unsupported interaction type", "type", i.Type)
		return message(msgUnsupported, true)
	}
}

func (r Router) routeCommand(ctx context.Context, logger *slog.Logger, i *discordgo.Interaction) *discordgo.InteractionResponse {
	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)
	logger = logger.With("command", data.Name)

	switch data.Name {
	case CommandTimeout, CommandUntimeout, CommandBan, CommandKick:
		if r.Moderation == nil {
			logger.Error("moderation not configured")
			return message(msgSomethingWentWrong, true)
		}
		return fromAction(r.moderate(ctx, data.Name, i, opts))
	case CommandPing:
		return message("Pong!", true)
	case CommandAbout:
		return message(fmt.Sprintf("EasyMod %s", r.version()), true)
	case CommandModConfig:
		return r.modConfig(ctx, logger, i, data.Options)
	default:
		logger.Info("unknown command")
		return message(msgUnknownCommand, true)
	}
}

func (r Router) moderate(ctx context.Context, name string, i *discordgo.Interaction, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) action.Response {
	ctx = WithRoleMemo(ctx)
	req := action.Request{
		GuildID:   i.GuildID,
		InvokerID: invokerID(i),
		TargetID:  stringOption(opts, OptionUser),
		Reason:    stringOption(opts, OptionReason),
	}
	switch name {
	case CommandTimeout:
		req.Duration = stringOption(opts, OptionDuration)
		return r.Moderation.Timeout(ctx, req)
	case CommandUntimeout:
		return r.Moderation.RemoveTimeout(ctx, req)
	case CommandBan:
		req.DeleteDays = intOption(opts, OptionDeleteDays)
		return r.Moderation.Ban(ctx, req)
	default:
		return r.Moderation.Kick(ctx, req)
	}
}

func (r Router) modConfig(ctx context.Context, logger *slog.Logger, i *discordgo.Interaction, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionResponse {
	if i.GuildID == "" {
		return message(msgGuildOnly, true)
	}
	if r.Settings == nil || len(options) == 0 || options[0] == nil {
		return message(msgUnknownCommand, true)
	}
	sub := options[0]
	switch sub.Name {
	case SubcommandShow:
		s, err := r.Settings.Get(ctx, i.GuildID)
		if err != nil {
			logger.Error("read guild settings", "err", err)
			return message(msgSomethingWentWrong, true)
		}
		return message(describeSettings(s), true)
	case SubcommandSet:
		opts := optionMap(sub.Options)
		patch := settings.Patch{
			DefaultDeleteDays:   intOption(opts, OptionDeleteDays),
			PublicConfirmations: boolOption(opts, OptionPublicConfirmations),
		}
		if patch.Empty() {
			return message(msgNothingToChange, true)
		}
		s, err := r.Settings.Update(ctx, i.GuildID, patch)
		if err != nil {
			if errors.Is(err, settings.ErrInvalidDeleteDays) {
				return message(fmt.Sprintf("delete_days must be between 0 and %d.", moderation.MaxBanDeleteDays), true)
			}
			logger.Error("update guild settings", "err", err)
			return message(msgSomethingWentWrong, true)
		}
		logger.Info("guild settings updated", "invoker", invokerID(i), "delete_days", s.DefaultDeleteDays, "public", s.PublicConfirmations)
		return message("Settings updated. "+describeSettings(s), true)
	default:
		return message(msgUnknownCommand, true)
	}
}

func describeSettings(s settings.Settings) string {
	visibility := "private"
	if s.PublicConfirmations {
		visibility = "public"
	}
	return fmt.Sprintf("Messages deleted on ban: %d day(s). Confirmations: %s.", s.DefaultDeleteDays, visibility)
}

func (r Router) version() string {
	if r.Version != "" {
		return r.Version
	}
	return versioninfo.Short()
}

func (r Router) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func fromAction(out action.Response) *discordgo.InteractionResponse {
	return message(out.Content, out.Ephemeral)
}

func message(content string, ephemeral bool) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func invokerID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		if o != nil {
			out[o.Name] = o
		}
	}
	return out
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	o, ok := opts[name]
	if !ok {
		return ""
	}
	s, _ := o.Value.(string)
	return s
}

// intOption returns nil when the option is absent. Values decoded from JSON
// arrive as float64.
func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *int {
	o, ok := opts[name]
	if !ok {
		return nil
	}
	var n int
	switch v := o.Value.(type) {
	case float64:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	default:
		return nil
	}
	return &n
}

func boolOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *bool {
	o, ok := opts[name]
	if !ok {
		return nil
	}
	b, ok := o.Value.(bool)
	if !ok {
		return nil
	}
	return &b
}
