package action

import (
	"context"
	"fmt"

	"easymod/internal/domain/moderation"
)

type removeTimeoutActionHandler struct {
	BaseHandler
}

func (removeTimeoutActionHandler) Precheck(_ context.Context, _ UseCase, ac *ActionContext) error {
	if !ac.View.Target.TimedOutAt(ac.In.NowAt) {
		return ErrNotTimedOut
	}
	return nil
}

func (removeTimeoutActionHandler) Apply(ctx context.Context, uc UseCase, ac *ActionContext) error {
	return uc.Platform.ApplyTimeout(ctx, ac.In.Req.GuildID, ac.In.Req.TargetID, nil, ac.In.Req.Reason)
}

func (removeTimeoutActionHandler) Confirm(ac *ActionContext) string {
	return fmt.Sprintf("%s's timeout has been removed.", moderation.Mention(ac.In.Req.TargetID))
}
