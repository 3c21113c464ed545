package action

import (
	"errors"
	"fmt"

	"easymod/internal/app/ports"
	"easymod/internal/domain/moderation"
)

const (
	msgInternalError  = "Sorry, something went wrong while running that command."
	msgInvalidRequest = "That command needs a member to act on."
	msgDeleteDays     = "Message deletion must be between 0 and 7 days."
	msgNotInServer    = "This command can only be used inside a server."
	msgSelfTarget     = "You can't target yourself or me."
	msgLookupFailed   = "I couldn't check this server's roles right now. Please try again in a moment."
	msgForbidden      = "I don't have permission to do that in this server."
	msgAPIError       = "Discord didn't accept that request. Please try again later."
)

var durationMessages = map[moderation.RejectionReason]string{
	moderation.RejectNoMatch:        "I couldn't understand that duration. Use values like 10m, 2h30m or 1d.",
	moderation.RejectBadMagnitude:   "That duration contains a number that is too large.",
	moderation.RejectNonPositive:    "The duration must be longer than zero seconds.",
	moderation.RejectExceedsMaximum: "Timeouts can't be longer than 28 days.",
}

func replyForError(action moderation.ActionKind, targetID string, err error) Response {
	outcome, content := classify(action, targetID, err)
	return Response{Content: content, Ephemeral: true, Outcome: outcome}
}

func classify(action moderation.ActionKind, targetID string, err error) (Outcome, string) {
	var rejection *moderation.DurationRejection
	var denied *DeniedError
	var apiErr *ports.APIError
	switch {
	case errors.As(err, &rejection):
		return OutcomeInvalidDuration, durationMessages[rejection.Reason]
	case errors.As(err, &denied):
		return verdictOutcome(denied.Verdict), deniedMessage(action, targetID, denied.Verdict)
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalidRequest, msgInvalidRequest
	case errors.Is(err, ErrInvalidDeleteDays):
		return OutcomeInvalidDeleteDays, msgDeleteDays
	case errors.Is(err, ErrTargetNotMember):
		return OutcomeTargetNotMember, fmt.Sprintf("%s isn't a member of this server.", moderation.Mention(targetID))
	case errors.Is(err, ErrNotTimedOut):
		return OutcomeNotTimedOut, fmt.Sprintf("%s isn't timed out.", moderation.Mention(targetID))
	case errors.Is(err, ErrLookupFailed):
		return OutcomeLookupFailed, msgLookupFailed
	case errors.Is(err, ports.ErrForbidden):
		return OutcomeForbidden, msgForbidden
	case errors.As(err, &apiErr):
		return OutcomeAPIError, msgAPIError
	case errors.Is(err, ports.ErrUnavailable):
		return OutcomeUnavailable, msgAPIError
	default:
		return OutcomeInternalError, msgInternalError
	}
}

func deniedMessage(action moderation.ActionKind, targetID string, v moderation.Verdict) string {
	verb := actionRegistry()[action].Verb
	target := moderation.Mention(targetID)
	switch v {
	case moderation.DeniedSelfTarget:
		return msgSelfTarget
	case moderation.DeniedNotInServer:
		return msgNotInServer
	case moderation.DeniedOwnerTarget:
		return fmt.Sprintf("You can't %s the server owner.", verb)
	case moderation.DeniedInvokerRank:
		return fmt.Sprintf("You can't %s %s: their highest role is at or above yours.", verb, target)
	case moderation.DeniedAgentRank:
		return fmt.Sprintf("I can't %s %s: their highest role is at or above mine.", verb, target)
	default:
		return msgInternalError
	}
}

func withReason(msg, reason string) string {
	if reason == "" {
		return msg
	}
	return msg + " Reason: " + reason
}
