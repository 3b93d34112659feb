package moderation

// Denial reasons returned by CanModerate. The exact wording is presented to
// the invoking moderator, so treat these as part of the contract.
const (
	ReasonSelf        = "you cannot moderate yourself"
	ReasonAgentTarget = "I cannot moderate myself"
	ReasonAutomated   = "bot accounts cannot be moderated"
	ReasonProtected   = "this user is protected (dev/owner)"
	ReasonAgentRank   = "my highest role is too low to moderate this user"
	ReasonActorRank   = "this user has an equal or higher role than you"
)

// Guard bundles the hierarchy rules that decide whether an actor may run a
// moderation action against a target at all. It is stateless apart from
// configuration and safe for concurrent use.
type Guard struct {
	perms             *Permissions
	ownerBypass       bool
	exemptAutomations map[string]bool
	selfTargetActions map[string]bool
}

// NewGuard builds a Guard. exemptAutomations lists bot accounts the agent is
// still allowed to act on; selfTargetActions lists actions that explicitly
// permit self-targeting.
func NewGuard(perms *Permissions, ownerBypass bool, exemptAutomations, selfTargetActions []string) *Guard {
	g := &Guard{
		perms:             perms,
		ownerBypass:       ownerBypass,
		exemptAutomations: make(map[string]bool, len(exemptAutomations)),
		selfTargetActions: make(map[string]bool, len(selfTargetActions)),
	}
	for _, id := range exemptAutomations {
		g.exemptAutomations[id] = true
	}
	for _, action := range selfTargetActions {
		g.selfTargetActions[action] = true
	}
	return g
}

// CanModerate evaluates the hierarchy rules in order and short-circuits on
// the first failing one. target may be nil for actions without a target.
// agent is the bot's own member snapshot; its rank bounds every action no
// matter who invokes it.
func (g *Guard) CanModerate(actor Member, target *Member, agent Member, action string) (bool, string) {
	if target == nil {
		return true, ""
	}

	if actor.ID == target.ID && !g.selfTargetActions[action] {
		return false, ReasonSelf
	}

	if target.ID == agent.ID {
		return false, ReasonAgentTarget
	}

	if target.IsAutomated && !g.exemptAutomations[target.ID] {
		return false, ReasonAutomated
	}

	if g.perms.EffectiveLevel(*target) >= LevelDev {
		return false, ReasonProtected
	}

	// The owner may skip the actor/target rank comparison, but cannot make
	// the agent exceed its own standing on the platform.
	if actor.IsOwner && g.ownerBypass {
		if agent.TopRank <= target.TopRank {
			return false, ReasonAgentRank
		}
		return true, ""
	}

	if agent.TopRank <= target.TopRank {
		return false, ReasonAgentRank
	}

	if actor.TopRank <= target.TopRank {
		return false, ReasonActorRank
	}

	return true, ""
}
