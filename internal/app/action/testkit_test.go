package action

import (
	"context"
	"sync"
	"time"

	"easymod/internal/app/ports"
	"easymod/internal/app/settings"
	"easymod/internal/domain/moderation"
)

const (
	testGuild   = "g1"
	testOwner   = "owner"
	testAgent   = "bot"
	testInvoker = "mod"
	testTarget  = "spammer"
)

type timeoutCall struct {
	GuildID string
	UserID  string
	Until   *time.Time
	Reason  string
}

type banCall struct {
	UserID     string
	DeleteDays int
	Reason     string
}

type stubPlatform struct {
	mu       sync.Mutex
	members  map[string]moderation.MemberSnapshot
	ownerID  string
	ownerErr error
	// memberErr forces FetchMember to fail for the given user id.
	memberErr map[string]error
	applyErr  error
	panicOn   string

	fetches  int
	timeouts []timeoutCall
	bans     []banCall
	kicks    []string
}

func newStubPlatform() *stubPlatform {
	return &stubPlatform{
		ownerID: testOwner,
		members: map[string]moderation.MemberSnapshot{
			testOwner:   member(testOwner, moderation.NoRank()),
			testAgent:   member(testAgent, moderation.RankAt(10)),
			testInvoker: member(testInvoker, moderation.RankAt(5)),
			testTarget:  member(testTarget, moderation.RankAt(3)),
		},
		memberErr: map[string]error{},
	}
}

func member(id string, rank moderation.RoleRank) moderation.MemberSnapshot {
	return moderation.MemberSnapshot{ActorSnapshot: moderation.ActorSnapshot{ID: id, Rank: rank}}
}

func (p *stubPlatform) FetchOwner(_ context.Context, _ string) (moderation.ActorSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.ownerErr != nil {
		return moderation.ActorSnapshot{}, p.ownerErr
	}
	return moderation.ActorSnapshot{ID: p.ownerID, IsOwner: true}, nil
}

func (p *stubPlatform) FetchMember(_ context.Context, _ string, userID string) (moderation.MemberSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.panicOn == userID {
		panic("boom")
	}
	if err := p.memberErr[userID]; err != nil {
		return moderation.MemberSnapshot{}, err
	}
	m, ok := p.members[userID]
	if !ok {
		return moderation.MemberSnapshot{}, ports.ErrNotFound
	}
	return m, nil
}

func (p *stubPlatform) ApplyTimeout(_ context.Context, guildID, userID string, until *time.Time, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applyErr != nil {
		return p.applyErr
	}
	p.timeouts = append(p.timeouts, timeoutCall{GuildID: guildID, UserID: userID, Until: until, Reason: reason})
	return nil
}

func (p *stubPlatform) ApplyBan(_ context.Context, _ string, userID string, deleteDays int, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applyErr != nil {
		return p.applyErr
	}
	p.bans = append(p.bans, banCall{UserID: userID, DeleteDays: deleteDays, Reason: reason})
	return nil
}

func (p *stubPlatform) ApplyKick(_ context.Context, _ string, userID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applyErr != nil {
		return p.applyErr
	}
	p.kicks = append(p.kicks, userID)
	return nil
}

func (p *stubPlatform) applied() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timeouts) + len(p.bans) + len(p.kicks)
}

type stubSettings struct {
	s   settings.Settings
	err error
}

func (s stubSettings) Get(_ context.Context, guildID string) (settings.Settings, error) {
	if s.err != nil {
		return settings.Settings{}, s.err
	}
	out := s.s
	out.GuildID = guildID
	return out, nil
}

type stubMetrics struct {
	mu       sync.Mutex
	success  int
	denied   map[string]int
	failures map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{denied: map[string]int{}, failures: map[string]int{}}
}

func (m *stubMetrics) RecordSuccess(moderation.ActionKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.success++
}

func (m *stubMetrics) RecordDenied(_ moderation.ActionKind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[outcome]++
}

func (m *stubMetrics) RecordFailure(_ moderation.ActionKind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[outcome]++
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newUseCase(p *stubPlatform) UseCase {
	return UseCase{
		Platform: p,
		AgentID:  testAgent,
		Now:      func() time.Time { return fixedNow },
	}
}

func baseRequest() Request {
	return Request{GuildID: testGuild, InvokerID: testInvoker, TargetID: testTarget}
}
