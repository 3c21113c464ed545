package prom

import (
	"easymod/internal/domain/moderation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	commands *prometheus.CounterVec
}

// NewRecorder registers the moderation counters on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		commands: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "easymod_moderation_commands_total",
			Help: "Moderation commands handled, by action, result and outcome",
		}, []string{"action", "result", "outcome"}),
	}
}

func (r *Recorder) RecordSuccess(action moderation.ActionKind) {
	r.commands.WithLabelValues(string(action), "success", "success").Inc()
}

func (r *Recorder) RecordDenied(action moderation.ActionKind, outcome string) {
	r.commands.WithLabelValues(string(action), "denied", outcome).Inc()
}

func (r *Recorder) RecordFailure(action moderation.ActionKind, outcome string) {
	r.commands.WithLabelValues(string(action), "failure", outcome).Inc()
}
