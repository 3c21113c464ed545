package action

import (
	"context"
	"time"

	"easymod/internal/app/settings"
	"easymod/internal/domain/moderation"
)

type ActionSpec struct {
	Kind moderation.ActionKind
	// Verb completes "You can't ... <target>" in denial replies.
	Verb               string
	RequiresMembership bool
	// PrecheckFirst lets the action's precheck outcome win over the
	// self-target guard.
	PrecheckFirst bool
	Handler       ActionHandler
}

type ActionHandler interface {
	// Prepare validates action-specific input before any platform call.
	Prepare(uc UseCase, ac *ActionContext) error
	// Precheck runs once the target snapshot is loaded, before authorization.
	Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error
	Apply(ctx context.Context, uc UseCase, ac *ActionContext) error
	Confirm(ac *ActionContext) string
}

type BaseHandler struct{}

func (BaseHandler) Prepare(UseCase, *ActionContext) error                   { return nil }
func (BaseHandler) Precheck(context.Context, UseCase, *ActionContext) error { return nil }

type ActionInput struct {
	Req   Request
	NowAt time.Time
}

type ActionView struct {
	Spec           ActionSpec
	Settings       settings.Settings
	Owner          moderation.ActorSnapshot
	Invoker        moderation.MemberSnapshot
	InvokerInGuild bool
	Target         moderation.MemberSnapshot
	TargetIsMember bool
	Agent          moderation.MemberSnapshot
}

type ActionTmp struct {
	Duration   moderation.ResolvedDuration
	DeleteDays int
	Verdict    moderation.Verdict
}

type ActionContext struct {
	In   ActionInput
	View ActionView
	Tmp  ActionTmp
}

func actionRegistry() map[moderation.ActionKind]ActionSpec {
	return map[moderation.ActionKind]ActionSpec{
		moderation.ActionTimeout:       {Kind: moderation.ActionTimeout, Verb: "time out", RequiresMembership: true, Handler: timeoutActionHandler{}},
		moderation.ActionRemoveTimeout: {Kind: moderation.ActionRemoveTimeout, Verb: "remove the timeout of", RequiresMembership: true, PrecheckFirst: true, Handler: removeTimeoutActionHandler{}},
		moderation.ActionBan:           {Kind: moderation.ActionBan, Verb: "ban", RequiresMembership: false, Handler: banActionHandler{}},
		moderation.ActionKick:          {Kind: moderation.ActionKick, Verb: "kick", RequiresMembership: true, Handler: kickActionHandler{}},
	}
}

func supportedActionKinds() []moderation.ActionKind {
	return []moderation.ActionKind{
		moderation.ActionTimeout,
		moderation.ActionRemoveTimeout,
		moderation.ActionBan,
		moderation.ActionKick,
	}
}

func isSupportedActionKind(k moderation.ActionKind) bool {
	for _, kind := range supportedActionKinds() {
		if k == kind {
			return true
		}
	}
	return false
}
