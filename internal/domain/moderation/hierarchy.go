package moderation

type Verdict string

const (
	Allowed           Verdict = "allowed"
	DeniedSelfTarget  Verdict = "denied_self_target"
	DeniedOwnerTarget Verdict = "denied_owner_target"
	DeniedInvokerRank Verdict = "denied_invoker_rank"
	DeniedAgentRank   Verdict = "denied_agent_rank"
	DeniedNotInServer Verdict = "denied_not_in_server"
)

func (v Verdict) Allowed() bool {
	return v == Allowed
}

type AuthorizationInput struct {
	Action ActionKind
	// InServer is false when the command came from outside a server or the
	// invoker's membership could not be resolved.
	InServer bool
	Invoker  ActorSnapshot
	Target   ActorSnapshot
	Agent    ActorSnapshot
}

// IsSelfTarget is the first authorization guard. Targeting the agent counts
// as targeting oneself. It needs only identities, so callers can run it
// before fetching any snapshot.
func IsSelfTarget(invokerID, targetID, agentID string) (Verdict, bool) {
	if targetID == invokerID || targetID == agentID {
		return DeniedSelfTarget, true
	}
	return Allowed, false
}

// Authorize applies the hierarchy checks in fixed order; the first failing
// check decides the verdict. The action does not influence the outcome.
func Authorize(in AuthorizationInput) Verdict {
	if v, denied := IsSelfTarget(in.Invoker.ID, in.Target.ID, in.Agent.ID); denied {
		return v
	}
	if !in.InServer {
		return DeniedNotInServer
	}
	if in.Target.IsOwner {
		return DeniedOwnerTarget
	}
	if !in.Invoker.IsOwner && in.Target.Rank.Ranked && in.Target.Rank.AtLeast(in.Invoker.Rank) {
		return DeniedInvokerRank
	}
	if in.Target.Rank.Ranked && in.Target.Rank.AtLeast(in.Agent.Rank) {
		return DeniedAgentRank
	}
	return Allowed
}
