package ports

import "easymod/internal/domain/moderation"

type ModerationMetrics interface {
	RecordSuccess(action moderation.ActionKind)
	RecordDenied(action moderation.ActionKind, outcome string)
	RecordFailure(action moderation.ActionKind, outcome string)
}
