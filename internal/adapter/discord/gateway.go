package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

type InteractionRouter interface {
	Route(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse
}

type InteractionResponder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Gateway receives interactions over the websocket session. discordgo
// dispatches each event on its own goroutine.
type Gateway struct {
	Session *discordgo.Session
	Router  InteractionRouter
	Logger  *slog.Logger
}

func (g Gateway) Run(ctx context.Context) error {
	g.Session.Identify.Intents = discordgo.IntentsGuilds
	removeReady := g.Session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		g.logger().Info("gateway ready", "session", r.SessionID, "guilds", len(r.Guilds))
	})
	defer removeReady()
	removeInteraction := g.Session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		g.Handle(ctx, s, ic.Interaction)
	})
	defer removeInteraction()

	if err := g.Session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	g.logger().Info("gateway connected")

	<-ctx.Done()
	g.logger().Info("gateway shutting down")
	if err := g.Session.Close(); err != nil {
		return fmt.Errorf("close gateway: %w", err)
	}
	return nil
}

// Handle routes one interaction and sends its single response.
func (g Gateway) Handle(ctx context.Context, responder InteractionResponder, i *discordgo.Interaction) {
	if i == nil {
		return
	}
	resp := g.Router.Route(ctx, i)
	if err := responder.InteractionRespond(i, resp, discordgo.WithContext(ctx)); err != nil {
		g.logger().Error("send interaction response", "interaction", i.ID, "guild", i.GuildID, "err", mapError(err))
	}
}

func (g Gateway) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
