package metrics

import (
	"easymod/internal/app/ports"
	"easymod/internal/domain/moderation"
)

// Tee forwards every observation to each recorder in order.
type Tee []ports.ModerationMetrics

func (t Tee) RecordSuccess(action moderation.ActionKind) {
	for _, m := range t {
		m.RecordSuccess(action)
	}
}

func (t Tee) RecordDenied(action moderation.ActionKind, outcome string) {
	for _, m := range t {
		m.RecordDenied(action, outcome)
	}
}

func (t Tee) RecordFailure(action moderation.ActionKind, outcome string) {
	for _, m := range t {
		m.RecordFailure(action, outcome)
	}
}
