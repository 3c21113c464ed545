package action

import (
	"context"
	"fmt"

	"easymod/internal/domain/moderation"
)

type kickActionHandler struct {
	BaseHandler
}

func (kickActionHandler) Apply(ctx context.Context, uc UseCase, ac *ActionContext) error {
	return uc.Platform.ApplyKick(ctx, ac.In.Req.GuildID, ac.In.Req.TargetID, ac.In.Req.Reason)
}

func (kickActionHandler) Confirm(ac *ActionContext) string {
	return fmt.Sprintf("%s has been kicked.", moderation.Mention(ac.In.Req.TargetID))
}
