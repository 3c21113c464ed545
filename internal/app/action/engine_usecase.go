package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"easymod/internal/app/ports"
	"easymod/internal/app/settings"
	"easymod/internal/domain/moderation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("easymod/internal/app/action")

var (
	ErrInvalidRequest    = errors.New("invalid moderation request")
	ErrInvalidDeleteDays = errors.New("delete days out of range")
	ErrTargetNotMember   = errors.New("target is not a member of the guild")
	ErrNotTimedOut       = errors.New("target is not timed out")
	ErrDenied            = errors.New("moderation denied")
	ErrLookupFailed      = errors.New("snapshot lookup failed")
)

type DeniedError struct {
	Verdict moderation.Verdict
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDenied, e.Verdict)
}

func (e *DeniedError) Unwrap() error {
	return ErrDenied
}

// LookupError reports that a snapshot needed for authorization could not be
// fetched. It is distinct from a denial: permission was never decided.
type LookupError struct {
	Subject string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Subject, e.Err)
}

func (e *LookupError) Unwrap() []error {
	return []error{ErrLookupFailed, e.Err}
}

type SettingsReader interface {
	Get(ctx context.Context, guildID string) (settings.Settings, error)
}

type UseCase struct {
	Platform ports.Platform
	Settings SettingsReader
	Metrics  ports.ModerationMetrics
	Logger   *slog.Logger
	// AgentID is the user id of the bot account acting on the platform.
	AgentID string
	Now     func() time.Time
}

func (u UseCase) Timeout(ctx context.Context, req Request) Response {
	req.Action = moderation.ActionTimeout
	return u.Execute(ctx, req)
}

func (u UseCase) RemoveTimeout(ctx context.Context, req Request) Response {
	req.Action = moderation.ActionRemoveTimeout
	return u.Execute(ctx, req)
}

func (u UseCase) Ban(ctx context.Context, req Request) Response {
	req.Action = moderation.ActionBan
	return u.Execute(ctx, req)
}

func (u UseCase) Kick(ctx context.Context, req Request) Response {
	req.Action = moderation.ActionKick
	return u.Execute(ctx, req)
}

// Execute runs one moderation command and always yields exactly one reply.
// Failures, including panics, are contained here.
func (u UseCase) Execute(ctx context.Context, req Request) (out Response) {
	ctx, span := tracer.Start(ctx, "moderation."+string(req.Action))
	defer span.End()
	span.SetAttributes(
		attribute.String("guild_id", req.GuildID),
		attribute.String("target_id", req.TargetID),
	)

	logger := u.logger().With("action", req.Action, "guild", req.GuildID, "invoker", req.InvokerID, "target", req.TargetID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("moderation command panicked", "err", r)
			span.SetStatus(codes.Error, "panic")
			u.recordFailure(req.Action, OutcomeInternalError)
			out = Response{Content: msgInternalError, Ephemeral: true, Outcome: OutcomeInternalError}
		}
	}()

	ac, err := u.run(ctx, req)
	if err != nil {
		out = replyForError(req.Action, req.TargetID, err)
		span.SetAttributes(attribute.String("outcome", string(out.Outcome)))
		u.observeFailure(logger, req.Action, out.Outcome, err)
		if isFault(out.Outcome) {
			span.SetStatus(codes.Error, err.Error())
		}
		return out
	}

	out = Response{
		Content:   withReason(ac.View.Spec.Handler.Confirm(&ac), ac.In.Req.Reason),
		Ephemeral: !ac.View.Settings.PublicConfirmations,
		Outcome:   OutcomeSuccess,
	}
	span.SetAttributes(attribute.String("outcome", string(out.Outcome)))
	logger.Info("moderation action applied")
	if u.Metrics != nil {
		u.Metrics.RecordSuccess(req.Action)
	}
	return out
}

func (u UseCase) run(ctx context.Context, req Request) (ActionContext, error) {
	ac, err := u.ValidateRequest(req)
	if err != nil {
		return ac, err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	ac.In.NowAt = nowFn()

	if err := u.ResolveSpec(&ac); err != nil {
		return ac, err
	}
	if err := u.PrepareInput(&ac); err != nil {
		return ac, err
	}
	if !ac.View.Spec.PrecheckFirst {
		if err := u.GuardSelfTarget(&ac); err != nil {
			return ac, err
		}
	}
	if err := u.RequireGuild(&ac); err != nil {
		return ac, err
	}
	if err := u.LoadSettings(ctx, &ac); err != nil {
		return ac, err
	}
	if err := u.LoadTarget(ctx, &ac); err != nil {
		return ac, err
	}
	if err := u.RunPrechecks(ctx, &ac); err != nil {
		return ac, err
	}
	if ac.View.Spec.PrecheckFirst {
		if err := u.GuardSelfTarget(&ac); err != nil {
			return ac, err
		}
	}
	if err := u.LoadActors(ctx, &ac); err != nil {
		return ac, err
	}
	if err := u.Authorize(&ac); err != nil {
		return ac, err
	}
	if err := u.ApplyAction(ctx, &ac); err != nil {
		return ac, err
	}
	return ac, nil
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

func (u UseCase) observeFailure(logger *slog.Logger, action moderation.ActionKind, outcome Outcome, err error) {
	switch {
	case isFault(outcome):
		logger.Error("moderation command failed", "outcome", outcome, "err", err)
		u.recordFailure(action, outcome)
	case errors.Is(err, ErrDenied):
		logger.Info("moderation command denied", "outcome", outcome)
		if u.Metrics != nil {
			u.Metrics.RecordDenied(action, string(outcome))
		}
	default:
		logger.Debug("moderation command rejected", "outcome", outcome, "err", err)
		if u.Metrics != nil {
			u.Metrics.RecordDenied(action, string(outcome))
		}
	}
}

func (u UseCase) recordFailure(action moderation.ActionKind, outcome Outcome) {
	if u.Metrics != nil {
		u.Metrics.RecordFailure(action, string(outcome))
	}
}

func isFault(o Outcome) bool {
	switch o {
	case OutcomeLookupFailed, OutcomeForbidden, OutcomeAPIError, OutcomeUnavailable, OutcomeInternalError:
		return true
	}
	return false
}
