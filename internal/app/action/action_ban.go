package action

import (
	"context"
	"fmt"

	"easymod/internal/domain/moderation"
)

type banActionHandler struct {
	BaseHandler
}

func (banActionHandler) Prepare(_ UseCase, ac *ActionContext) error {
	if ac.In.Req.DeleteDays != nil && !moderation.ValidDeleteDays(*ac.In.Req.DeleteDays) {
		return ErrInvalidDeleteDays
	}
	return nil
}

func (banActionHandler) Apply(ctx context.Context, uc UseCase, ac *ActionContext) error {
	days := ac.View.Settings.DefaultDeleteDays
	if ac.In.Req.DeleteDays != nil {
		days = *ac.In.Req.DeleteDays
	}
	if !moderation.ValidDeleteDays(days) {
		days = 0
	}
	ac.Tmp.DeleteDays = days
	return uc.Platform.ApplyBan(ctx, ac.In.Req.GuildID, ac.In.Req.TargetID, days, ac.In.Req.Reason)
}

func (banActionHandler) Confirm(ac *ActionContext) string {
	msg := fmt.Sprintf("%s has been banned.", moderation.Mention(ac.In.Req.TargetID))
	switch ac.Tmp.DeleteDays {
	case 0:
	case 1:
		msg += " Deleted their messages from the last day."
	default:
		msg += fmt.Sprintf(" Deleted their messages from the last %d days.", ac.Tmp.DeleteDays)
	}
	return msg
}
