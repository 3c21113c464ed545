package action

import (
	"context"
	"errors"
	"strings"

	"easymod/internal/app/ports"
	"easymod/internal/app/settings"
	"easymod/internal/domain/moderation"
)

func (u UseCase) ValidateRequest(req Request) (ActionContext, error) {
	req.GuildID = strings.TrimSpace(req.GuildID)
	req.InvokerID = strings.TrimSpace(req.InvokerID)
	req.TargetID = strings.TrimSpace(req.TargetID)
	req.Reason = strings.TrimSpace(req.Reason)

	if req.InvokerID == "" || req.TargetID == "" || !isSupportedActionKind(req.Action) {
		return ActionContext{In: ActionInput{Req: req}}, ErrInvalidRequest
	}
	if u.Platform == nil {
		return ActionContext{In: ActionInput{Req: req}}, errors.New("moderation platform not configured")
	}
	return ActionContext{In: ActionInput{Req: req}}, nil
}

func (u UseCase) ResolveSpec(ac *ActionContext) error {
	spec, ok := actionRegistry()[ac.In.Req.Action]
	if !ok {
		return ErrInvalidRequest
	}
	ac.View.Spec = spec
	return nil
}

func (u UseCase) PrepareInput(ac *ActionContext) error {
	if ac.View.Spec.Handler == nil {
		return nil
	}
	return ac.View.Spec.Handler.Prepare(u, ac)
}

// GuardSelfTarget runs the first authorization rule on identities alone so a
// self-targeted command never reaches the platform.
func (u UseCase) GuardSelfTarget(ac *ActionContext) error {
	if v, denied := moderation.IsSelfTarget(ac.In.Req.InvokerID, ac.In.Req.TargetID, u.AgentID); denied {
		return &DeniedError{Verdict: v}
	}
	return nil
}

func (u UseCase) RequireGuild(ac *ActionContext) error {
	if ac.In.Req.GuildID == "" {
		return &DeniedError{Verdict: moderation.DeniedNotInServer}
	}
	return nil
}

// LoadSettings never fails the command: an unreadable configuration falls
// back to defaults.
func (u UseCase) LoadSettings(ctx context.Context, ac *ActionContext) error {
	ac.View.Settings = settings.Defaults(ac.In.Req.GuildID)
	if u.Settings == nil {
		return nil
	}
	s, err := u.Settings.Get(ctx, ac.In.Req.GuildID)
	if err != nil {
		u.logger().Warn("guild settings unavailable, using defaults", "guild", ac.In.Req.GuildID, "err", err)
		return nil
	}
	ac.View.Settings = s
	return nil
}

func (u UseCase) LoadTarget(ctx context.Context, ac *ActionContext) error {
	target, err := u.Platform.FetchMember(ctx, ac.In.Req.GuildID, ac.In.Req.TargetID)
	switch {
	case err == nil:
		ac.View.Target = target
		ac.View.TargetIsMember = true
		return nil
	case errors.Is(err, ports.ErrNotFound):
		if ac.View.Spec.RequiresMembership {
			return ErrTargetNotMember
		}
		ac.View.Target = moderation.MemberSnapshot{
			ActorSnapshot: moderation.ActorSnapshot{ID: ac.In.Req.TargetID, Rank: moderation.NoRank()},
		}
		return nil
	default:
		return &LookupError{Subject: "target", Err: err}
	}
}

func (u UseCase) RunPrechecks(ctx context.Context, ac *ActionContext) error {
	if ac.View.Spec.Handler == nil {
		return nil
	}
	return ac.View.Spec.Handler.Precheck(ctx, u, ac)
}

func (u UseCase) LoadActors(ctx context.Context, ac *ActionContext) error {
	guildID := ac.In.Req.GuildID

	invoker, err := u.Platform.FetchMember(ctx, guildID, ac.In.Req.InvokerID)
	switch {
	case err == nil:
		ac.View.Invoker = invoker
		ac.View.InvokerInGuild = true
	case errors.Is(err, ports.ErrNotFound):
		ac.View.Invoker = moderation.MemberSnapshot{
			ActorSnapshot: moderation.ActorSnapshot{ID: ac.In.Req.InvokerID},
		}
	default:
		return &LookupError{Subject: "invoker", Err: err}
	}

	owner, err := u.Platform.FetchOwner(ctx, guildID)
	if err != nil {
		return &LookupError{Subject: "owner", Err: err}
	}
	ac.View.Owner = owner

	agent, err := u.Platform.FetchMember(ctx, guildID, u.AgentID)
	if err != nil {
		return &LookupError{Subject: "agent", Err: err}
	}
	ac.View.Agent = agent

	ac.View.Invoker.IsOwner = ac.View.Invoker.ID == owner.ID
	ac.View.Target.IsOwner = ac.View.Target.ID == owner.ID
	ac.View.Agent.IsOwner = ac.View.Agent.ID == owner.ID
	return nil
}

func (u UseCase) Authorize(ac *ActionContext) error {
	verdict := moderation.Authorize(moderation.AuthorizationInput{
		Action:   ac.View.Spec.Kind,
		InServer: ac.View.InvokerInGuild,
		Invoker:  ac.View.Invoker.ActorSnapshot,
		Target:   ac.View.Target.ActorSnapshot,
		Agent:    ac.View.Agent.ActorSnapshot,
	})
	ac.Tmp.Verdict = verdict
	if !verdict.Allowed() {
		return &DeniedError{Verdict: verdict}
	}
	return nil
}

func (u UseCase) ApplyAction(ctx context.Context, ac *ActionContext) error {
	if ac.View.Spec.Handler == nil {
		return ErrInvalidRequest
	}
	return ac.View.Spec.Handler.Apply(ctx, u, ac)
}
