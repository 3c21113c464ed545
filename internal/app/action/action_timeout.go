package action

import (
	"context"
	"fmt"

	"easymod/internal/domain/moderation"
)

type timeoutActionHandler struct{}

func (timeoutActionHandler) Prepare(_ UseCase, ac *ActionContext) error {
	d, err := moderation.ParseDuration(ac.In.Req.Duration)
	if err != nil {
		return err
	}
	ac.Tmp.Duration = d
	return nil
}

func (timeoutActionHandler) Precheck(context.Context, UseCase, *ActionContext) error {
	return nil
}

func (timeoutActionHandler) Apply(ctx context.Context, uc UseCase, ac *ActionContext) error {
	until := ac.In.NowAt.Add(ac.Tmp.Duration.Duration())
	return uc.Platform.ApplyTimeout(ctx, ac.In.Req.GuildID, ac.In.Req.TargetID, &until, ac.In.Req.Reason)
}

func (timeoutActionHandler) Confirm(ac *ActionContext) string {
	return fmt.Sprintf("%s has been timed out for %s.", moderation.Mention(ac.In.Req.TargetID), moderation.FormatDuration(ac.Tmp.Duration))
}
