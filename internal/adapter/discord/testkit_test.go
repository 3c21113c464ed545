package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"easymod/internal/app/action"
	"easymod/internal/app/settings"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// rewriteTransport sends every API request to a local test server.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	req.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestSession(t *testing.T, handler http.Handler) (*discordgo.Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	s, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	s.Client = &http.Client{Transport: rewriteTransport{target: target}}
	s.MaxRestRetries = 0
	s.StateEnabled = false
	return s, srv
}

type moderatorCall struct {
	Entry string
	Req   action.Request
}

type stubModerator struct {
	mu    sync.Mutex
	calls []moderatorCall
	resp  action.Response
	panic bool
}

func (m *stubModerator) record(entry string, req action.Request) action.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panic {
		panic("moderator exploded")
	}
	m.calls = append(m.calls, moderatorCall{Entry: entry, Req: req})
	return m.resp
}

func (m *stubModerator) Timeout(_ context.Context, req action.Request) action.Response {
	return m.record("timeout", req)
}

func (m *stubModerator) RemoveTimeout(_ context.Context, req action.Request) action.Response {
	return m.record("remove_timeout", req)
}

func (m *stubModerator) Ban(_ context.Context, req action.Request) action.Response {
	return m.record("ban", req)
}

func (m *stubModerator) Kick(_ context.Context, req action.Request) action.Response {
	return m.record("kick", req)
}

type stubSettings struct {
	current   settings.Settings
	getErr    error
	updateErr error
	lastPatch *settings.Patch
}

func (s *stubSettings) Get(_ context.Context, guildID string) (settings.Settings, error) {
	if s.getErr != nil {
		return settings.Settings{}, s.getErr
	}
	out := s.current
	out.GuildID = guildID
	return out, nil
}

func (s *stubSettings) Update(_ context.Context, guildID string, patch settings.Patch) (settings.Settings, error) {
	s.lastPatch = &patch
	if s.updateErr != nil {
		return settings.Settings{}, s.updateErr
	}
	if patch.DefaultDeleteDays != nil {
		s.current.DefaultDeleteDays = *patch.DefaultDeleteDays
	}
	if patch.PublicConfirmations != nil {
		s.current.PublicConfirmations = *patch.PublicConfirmations
	}
	s.current.GuildID = guildID
	s.current.Stored = true
	return s.current, nil
}

func commandInteraction(guildID, invoker, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:      "int-1",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  &discordgo.Member{User: &discordgo.User{ID: invoker}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}
}

func opt(name string, typ discordgo.ApplicationCommandOptionType, value interface{}) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: typ, Value: value}
}
