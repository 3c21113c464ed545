package action

import "easymod/internal/domain/moderation"

type Request struct {
	Action    moderation.ActionKind
	GuildID   string
	InvokerID string
	TargetID  string
	Duration  string
	Reason    string
	// DeleteDays is only read by ban; nil falls back to the guild default.
	DeleteDays *int
}

type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeInvalidRequest    Outcome = "invalid_request"
	OutcomeInvalidDuration   Outcome = "invalid_duration"
	OutcomeInvalidDeleteDays Outcome = "invalid_delete_days"
	OutcomeTargetNotMember   Outcome = "target_not_member"
	OutcomeNotTimedOut       Outcome = "not_timed_out"
	OutcomeLookupFailed      Outcome = "lookup_failed"
	OutcomeForbidden         Outcome = "forbidden"
	OutcomeAPIError          Outcome = "api_error"
	OutcomeUnavailable       Outcome = "unavailable"
	OutcomeInternalError     Outcome = "internal_error"
)

func verdictOutcome(v moderation.Verdict) Outcome {
	return Outcome(v)
}

// Response is the single reply for one invocation.
type Response struct {
	Content   string  `json:"content"`
	Ephemeral bool    `json:"ephemeral"`
	Outcome   Outcome `json:"outcome"`
}

func (r Response) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
