package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"easymod/internal/app/ports"
	"easymod/internal/app/settings"
	"easymod/internal/domain/moderation"
)

func TestTimeout_EndToEndAllowed(t *testing.T) {
	p := newStubPlatform()
	metrics := newStubMetrics()
	uc := newUseCase(p)
	uc.Metrics = metrics

	req := baseRequest()
	req.Duration = "2h30m"
	req.Reason = "spam"
	resp := uc.Timeout(context.Background(), req)

	if resp.Outcome != OutcomeSuccess {
		t.Fatalf("outcome=%s want success (content=%q)", resp.Outcome, resp.Content)
	}
	for _, want := range []string{"<@spammer>", "2:30:00", "spam"} {
		if !strings.Contains(resp.Content, want) {
			t.Fatalf("confirmation %q missing %q", resp.Content, want)
		}
	}
	if resp.Ephemeral {
		t.Fatalf("confirmation should be public by default")
	}
	if len(p.timeouts) != 1 {
		t.Fatalf("timeouts applied=%d want 1", len(p.timeouts))
	}
	call := p.timeouts[0]
	if call.Until == nil || !call.Until.Equal(fixedNow.Add(9000*time.Second)) {
		t.Fatalf("until=%v want now+9000s", call.Until)
	}
	if call.Reason != "spam" || call.UserID != testTarget || call.GuildID != testGuild {
		t.Fatalf("unexpected timeout call: %+v", call)
	}
	if metrics.success != 1 {
		t.Fatalf("success metric=%d want 1", metrics.success)
	}
}

func TestTimeout_InvalidDurationSkipsPlatform(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"soon", "couldn't understand"},
		{"28d1s", "28 days"},
		{"0m", "longer than zero"},
		{"99999999999999999999h", "too large"},
	}
	for _, tc := range cases {
		p := newStubPlatform()
		req := baseRequest()
		req.Duration = tc.in
		resp := newUseCase(p).Timeout(context.Background(), req)
		if resp.Outcome != OutcomeInvalidDuration || !resp.Ephemeral {
			t.Fatalf("%q: resp=%+v want ephemeral invalid_duration", tc.in, resp)
		}
		if !strings.Contains(resp.Content, tc.want) {
			t.Fatalf("%q: content=%q want substring %q", tc.in, resp.Content, tc.want)
		}
		if p.fetches != 0 || p.applied() != 0 {
			t.Fatalf("%q: platform must not be called (fetches=%d applied=%d)", tc.in, p.fetches, p.applied())
		}
	}
}

func TestTimeout_BoundaryDurationAllowed(t *testing.T) {
	p := newStubPlatform()
	req := baseRequest()
	req.Duration = "28d"
	resp := newUseCase(p).Timeout(context.Background(), req)
	if resp.Outcome != OutcomeSuccess {
		t.Fatalf("outcome=%s want success", resp.Outcome)
	}
	if !strings.Contains(resp.Content, "28 days.") {
		t.Fatalf("whole-day duration should omit clock part: %q", resp.Content)
	}
}

func TestSelfTargetDeniedWithoutLookups(t *testing.T) {
	for _, target := range []string{testInvoker, testAgent} {
		p := newStubPlatform()
		req := baseRequest()
		req.TargetID = target
		resp := newUseCase(p).Kick(context.Background(), req)
		if !resp.Ephemeral || resp.Content != msgSelfTarget || resp.Outcome != Outcome(moderation.DeniedSelfTarget) {
			t.Fatalf("target=%s: resp=%+v want self-target denial", target, resp)
		}
		if p.fetches != 0 {
			t.Fatalf("target=%s: fetches=%d want 0", target, p.fetches)
		}
	}
}

func TestNotInServerWhenNoGuild(t *testing.T) {
	p := newStubPlatform()
	req := baseRequest()
	req.GuildID = ""
	resp := newUseCase(p).Kick(context.Background(), req)
	if resp.Outcome != Outcome(moderation.DeniedNotInServer) {
		t.Fatalf("outcome=%s want %s", resp.Outcome, moderation.DeniedNotInServer)
	}
}

func TestNotInServerWhenInvokerNotMember(t *testing.T) {
	p := newStubPlatform()
	delete(p.members, testInvoker)
	resp := newUseCase(p).Kick(context.Background(), baseRequest())
	if resp.Outcome != Outcome(moderation.DeniedNotInServer) {
		t.Fatalf("outcome=%s want %s", resp.Outcome, moderation.DeniedNotInServer)
	}
	if p.applied() != 0 {
		t.Fatalf("no action should be applied")
	}
}

func TestOwnerTargetDenied(t *testing.T) {
	p := newStubPlatform()
	req := baseRequest()
	req.TargetID = testOwner
	resp := newUseCase(p).Ban(context.Background(), req)
	if resp.Outcome != Outcome(moderation.DeniedOwnerTarget) {
		t.Fatalf("outcome=%s want %s", resp.Outcome, moderation.DeniedOwnerTarget)
	}
	if resp.Content != "You can't ban the server owner." {
		t.Fatalf("content=%q", resp.Content)
	}
}

func TestInvokerRankDeniedOnEqualRank(t *testing.T) {
	p := newStubPlatform()
	p.members[testTarget] = member(testTarget, moderation.RankAt(5))
	resp := newUseCase(p).Kick(context.Background(), baseRequest())
	if resp.Outcome != Outcome(moderation.DeniedInvokerRank) {
		t.Fatalf("outcome=%s want %s", resp.Outcome, moderation.DeniedInvokerRank)
	}
	if !strings.Contains(resp.Content, "You can't kick <@spammer>") {
		t.Fatalf("content=%q", resp.Content)
	}
}

func TestOwnerInvokerBypassesRank(t *testing.T) {
	p := newStubPlatform()
	p.members[testTarget] = member(testTarget, moderation.RankAt(8))
	req := baseRequest()
	req.InvokerID = testOwner
	resp := newUseCase(p).Kick(context.Background(), req)
	if resp.Outcome != OutcomeSuccess {
		t.Fatalf("outcome=%s want success", resp.Outcome)
	}
}

func TestAgentRankDenied(t *testing.T) {
	p := newStubPlatform()
	p.members[testInvoker] = member(testInvoker, moderation.RankAt(50))
	p.members[testTarget] = member(testTarget, moderation.RankAt(20))
	metrics := newStubMetrics()
	uc := newUseCase(p)
	uc.Metrics = metrics
	resp := uc.Kick(context.Background(), baseRequest())
	if resp.Outcome != Outcome(moderation.DeniedAgentRank) {
		t.Fatalf("outcome=%s want %s", resp.Outcome, moderation.DeniedAgentRank)
	}
	if !strings.HasPrefix(resp.Content, "I can't kick") {
		t.Fatalf("content=%q", resp.Content)
	}
	if metrics.denied[string(moderation.DeniedAgentRank)] != 1 {
		t.Fatalf("denied metric not recorded: %+v", metrics.denied)
	}
}

func TestKickNonMemberRejected(t *testing.T) {
	p := newStubPlatform()
	delete(p.members, testTarget)
	resp := newUseCase(p).Kick(context.Background(), baseRequest())
	if resp.Outcome != OutcomeTargetNotMember || !resp.Ephemeral {
		t.Fatalf("resp=%+v want ephemeral target_not_member", resp)
	}
}

func TestBanNonMemberAllowed(t *testing.T) {
	p := newStubPlatform()
	delete(p.members, testTarget)
	req := baseRequest()
	req.Reason = "raid"
	resp := newUseCase(p).Ban(context.Background(), req)
	if resp.Outcome != OutcomeSuccess {
		t.Fatalf("outcome=%s want success (%q)", resp.Outcome, resp.Content)
	}
	if len(p.bans) != 1 || p.bans[0].UserID != testTarget || p.bans[0].Reason != "raid" {
		t.Fatalf("unexpected bans: %+v", p.bans)
	}
}

func TestBanDeleteDays(t *testing.T) {
	days := func(v int) *int { return &v }

	p := newStubPlatform()
	uc := newUseCase(p)
	uc.Settings = stubSettings{s: settings.Settings{DefaultDeleteDays: 2, PublicConfirmations: true}}
	resp := uc.Ban(context.Background(), baseRequest())
	if resp.Outcome != OutcomeSuccess || p.bans[0].DeleteDays != 2 {
		t.Fatalf("guild default not applied: resp=%+v bans=%+v", resp, p.bans)
	}
	if !strings.Contains(resp.Content, "last 2 days") {
		t.Fatalf("content=%q", resp.Content)
	}

	req := baseRequest()
	req.DeleteDays = days(7)
	uc.Ban(context.Background(), req)
	if p.bans[1].DeleteDays != 7 {
		t.Fatalf("explicit delete days ignored: %+v", p.bans[1])
	}

	req.DeleteDays = days(8)
	resp = uc.Ban(context.Background(), req)
	if resp.Outcome != OutcomeInvalidDeleteDays {
		t.Fatalf("outcome=%s want invalid_delete_days", resp.Outcome)
	}
	if len(p.bans) != 2 {
		t.Fatalf("invalid ban must not reach platform")
	}
}

func TestRemoveTimeout(t *testing.T) {
	p := newStubPlatform()
	resp := newUseCase(p).RemoveTimeout(context.Background(), baseRequest())
	if resp.Outcome != OutcomeNotTimedOut || resp.Content != "<@spammer> isn't timed out." {
		t.Fatalf("resp=%+v want not_timed_out", resp)
	}

	expired := fixedNow.Add(-time.Minute)
	target := p.members[testTarget]
	target.TimedOutUntil = &expired
	p.members[testTarget] = target
	resp = newUseCase(p).RemoveTimeout(context.Background(), baseRequest())
	if resp.Outcome != OutcomeNotTimedOut {
		t.Fatalf("expired timeout should count as not timed out, got %s", resp.Outcome)
	}

	active := fixedNow.Add(time.Hour)
	target.TimedOutUntil = &active
	p.members[testTarget] = target
	resp = newUseCase(p).RemoveTimeout(context.Background(), baseRequest())
	if resp.Outcome != OutcomeSuccess {
		t.Fatalf("outcome=%s want success", resp.Outcome)
	}
	if len(p.timeouts) != 1 || p.timeouts[0].Until != nil {
		t.Fatalf("remove timeout should clear with nil until: %+v", p.timeouts)
	}
}

func TestRemoveTimeoutPrecheckRunsBeforeAuthorization(t *testing.T) {
	p := newStubPlatform()
	p.members[testTarget] = member(testTarget, moderation.RankAt(99))
	resp := newUseCase(p).RemoveTimeout(context.Background(), baseRequest())
	if resp.Outcome != OutcomeNotTimedOut {
		t.Fatalf("outcome=%s want not_timed_out", resp.Outcome)
	}
}

func TestRemoveTimeoutNotTimedOutWinsOverSelfTarget(t *testing.T) {
	for _, target := range []string{testInvoker, testAgent} {
		p := newStubPlatform()
		req := baseRequest()
		req.TargetID = target
		resp := newUseCase(p).RemoveTimeout(context.Background(), req)
		if resp.Outcome != OutcomeNotTimedOut {
			t.Fatalf("target=%s: outcome=%s want not_timed_out", target, resp.Outcome)
		}
	}

	p := newStubPlatform()
	active := fixedNow.Add(time.Hour)
	self := p.members[testInvoker]
	self.TimedOutUntil = &active
	p.members[testInvoker] = self
	req := baseRequest()
	req.TargetID = testInvoker
	resp := newUseCase(p).RemoveTimeout(context.Background(), req)
	if resp.Outcome != Outcome(moderation.DeniedSelfTarget) {
		t.Fatalf("outcome=%s want %s", resp.Outcome, moderation.DeniedSelfTarget)
	}
	if len(p.timeouts) != 0 {
		t.Fatalf("self-targeted remove timeout must not apply: %+v", p.timeouts)
	}
}

func TestLookupFailureIsDistinctFromDenial(t *testing.T) {
	cases := []struct {
		name  string
		setup func(p *stubPlatform)
	}{
		{"owner", func(p *stubPlatform) { p.ownerErr = errors.New("timeout") }},
		{"agent", func(p *stubPlatform) { p.memberErr[testAgent] = ports.ErrUnavailable }},
		{"invoker", func(p *stubPlatform) { p.memberErr[testInvoker] = &ports.APIError{Status: 500} }},
		{"target", func(p *stubPlatform) { p.memberErr[testTarget] = ports.ErrForbidden }},
		{"agent missing", func(p *stubPlatform) { delete(p.members, testAgent) }},
	}
	for _, tc := range cases {
		p := newStubPlatform()
		tc.setup(p)
		metrics := newStubMetrics()
		uc := newUseCase(p)
		uc.Metrics = metrics
		resp := uc.Kick(context.Background(), baseRequest())
		if resp.Outcome != OutcomeLookupFailed || resp.Content != msgLookupFailed {
			t.Fatalf("%s: resp=%+v want lookup_failed", tc.name, resp)
		}
		if metrics.failures[string(OutcomeLookupFailed)] != 1 {
			t.Fatalf("%s: failure metric not recorded", tc.name)
		}
		if p.applied() != 0 {
			t.Fatalf("%s: no action may be applied", tc.name)
		}
	}
}

func TestExternalFailuresAreGeneric(t *testing.T) {
	cases := []struct {
		err     error
		outcome Outcome
		content string
	}{
		{ports.ErrForbidden, OutcomeForbidden, msgForbidden},
		{&ports.APIError{Status: 500, Code: 0, Message: "internal detail"}, OutcomeAPIError, msgAPIError},
		{fmt.Errorf("%w: dial tcp", ports.ErrUnavailable), OutcomeUnavailable, msgAPIError},
		{errors.New("surprise"), OutcomeInternalError, msgInternalError},
	}
	for _, tc := range cases {
		p := newStubPlatform()
		p.applyErr = tc.err
		resp := newUseCase(p).Ban(context.Background(), baseRequest())
		if resp.Outcome != tc.outcome || resp.Content != tc.content || !resp.Ephemeral {
			t.Fatalf("err=%v: resp=%+v want %s", tc.err, resp, tc.outcome)
		}
		if strings.Contains(resp.Content, "internal detail") {
			t.Fatalf("platform detail leaked into reply")
		}
	}
}

func TestPanicIsContained(t *testing.T) {
	p := newStubPlatform()
	p.panicOn = testTarget
	resp := newUseCase(p).Kick(context.Background(), baseRequest())
	if resp.Outcome != OutcomeInternalError || resp.Content != msgInternalError {
		t.Fatalf("resp=%+v want internal_error", resp)
	}
}

func TestMissingTargetIsInvalidRequest(t *testing.T) {
	p := newStubPlatform()
	req := baseRequest()
	req.TargetID = "  "
	resp := newUseCase(p).Kick(context.Background(), req)
	if resp.Outcome != OutcomeInvalidRequest {
		t.Fatalf("outcome=%s want invalid_request", resp.Outcome)
	}
}

func TestUnknownActionIsInvalidRequest(t *testing.T) {
	req := baseRequest()
	req.Action = moderation.ActionKind("mute")
	resp := newUseCase(newStubPlatform()).Execute(context.Background(), req)
	if resp.Outcome != OutcomeInvalidRequest {
		t.Fatalf("outcome=%s want invalid_request", resp.Outcome)
	}
}

func TestPrivateConfirmationsFollowSettings(t *testing.T) {
	p := newStubPlatform()
	uc := newUseCase(p)
	uc.Settings = stubSettings{s: settings.Settings{PublicConfirmations: false}}
	resp := uc.Kick(context.Background(), baseRequest())
	if resp.Outcome != OutcomeSuccess || !resp.Ephemeral {
		t.Fatalf("resp=%+v want ephemeral success", resp)
	}
}

func TestSettingsFailureFallsBackToDefaults(t *testing.T) {
	p := newStubPlatform()
	uc := newUseCase(p)
	uc.Settings = stubSettings{err: errors.New("db down")}
	resp := uc.Kick(context.Background(), baseRequest())
	if resp.Outcome != OutcomeSuccess || resp.Ephemeral {
		t.Fatalf("resp=%+v want public success", resp)
	}
}

func TestConfirmationWithoutReason(t *testing.T) {
	p := newStubPlatform()
	resp := newUseCase(p).Kick(context.Background(), baseRequest())
	if resp.Content != "<@spammer> has been kicked." {
		t.Fatalf("content=%q", resp.Content)
	}
}

func TestConcurrentInvocationsAreIndependent(t *testing.T) {
	p := newStubPlatform()
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("user-%d", i)
		p.members[id] = member(id, moderation.RankAt(i%4))
	}
	uc := newUseCase(p)

	var wg sync.WaitGroup
	results := make([]Response, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := baseRequest()
			req.TargetID = fmt.Sprintf("user-%d", i)
			req.Duration = fmt.Sprintf("%dm", i+1)
			results[i] = uc.Timeout(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.Outcome != OutcomeSuccess {
			t.Fatalf("invocation %d outcome=%s", i, r.Outcome)
		}
	}
	if len(p.timeouts) != 20 {
		t.Fatalf("timeouts=%d want 20", len(p.timeouts))
	}
}
