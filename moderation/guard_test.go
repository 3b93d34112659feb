package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T, ownerBypass bool, exempt []string) *Guard {
	t.Helper()
	perms, err := NewPermissions(map[string]string{
		"role-mod": "mod",
		"role-dev": "dev",
	}, nil, true, false)
	require.NoError(t, err)
	return NewGuard(perms, ownerBypass, exempt, nil)
}

func TestCanModerateNoTarget(t *testing.T) {
	guard := newTestGuard(t, true, nil)
	allowed, reason := guard.CanModerate(Member{ID: "actor"}, nil, Member{ID: "agent"}, "sync")
	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestCanModerateDenialClasses(t *testing.T) {
	guard := newTestGuard(t, true, nil)
	agent := Member{ID: "agent", TopRank: 10}

	tests := []struct {
		name   string
		actor  Member
		target Member
		reason string
	}{
		{
			name:   "self",
			actor:  Member{ID: "u1", TopRank: 5},
			target: Member{ID: "u1", TopRank: 5},
			reason: ReasonSelf,
		},
		{
			name:   "agent as target",
			actor:  Member{ID: "u1", TopRank: 5},
			target: Member{ID: "agent", TopRank: 1},
			reason: ReasonAgentTarget,
		},
		{
			name:   "automated account",
			actor:  Member{ID: "u1", TopRank: 5},
			target: Member{ID: "b1", TopRank: 1, IsAutomated: true},
			reason: ReasonAutomated,
		},
		{
			name:   "protected tier",
			actor:  Member{ID: "u1", TopRank: 5},
			target: Member{ID: "u2", TopRank: 1, RoleIDs: []string{"role-dev"}},
			reason: ReasonProtected,
		},
		{
			name:   "agent rank too low",
			actor:  Member{ID: "u1", TopRank: 99},
			target: Member{ID: "u2", TopRank: 10},
			reason: ReasonAgentRank,
		},
		{
			name:   "actor rank too low",
			actor:  Member{ID: "u1", TopRank: 3},
			target: Member{ID: "u2", TopRank: 3},
			reason: ReasonActorRank,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			allowed, reason := guard.CanModerate(tc.actor, &tc.target, agent, "warn")
			assert.False(t, allowed)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestCanModerateAllowed(t *testing.T) {
	guard := newTestGuard(t, true, nil)
	actor := Member{ID: "u1", TopRank: 5, RoleIDs: []string{"role-mod"}}
	target := Member{ID: "u2", TopRank: 2}
	agent := Member{ID: "agent", TopRank: 10}

	allowed, reason := guard.CanModerate(actor, &target, agent, "warn")
	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestCanModerateOwnerBypass(t *testing.T) {
	agent := Member{ID: "agent", TopRank: 10}
	owner := Member{ID: "owner", TopRank: 1, IsOwner: true}
	target := Member{ID: "u2", TopRank: 5}

	guard := newTestGuard(t, true, nil)
	allowed, _ := guard.CanModerate(owner, &target, agent, "warn")
	assert.True(t, allowed, "owner bypass skips the actor rank comparison")

	// The bypass never lets the agent exceed its own standing.
	strongTarget := Member{ID: "u3", TopRank: 10}
	allowed, reason := guard.CanModerate(owner, &strongTarget, agent, "warn")
	assert.False(t, allowed)
	assert.Equal(t, ReasonAgentRank, reason)

	// With the bypass disabled the owner is bound by rank like anyone else.
	noBypass := newTestGuard(t, false, nil)
	allowed, reason = noBypass.CanModerate(owner, &target, agent, "warn")
	assert.False(t, allowed)
	assert.Equal(t, ReasonActorRank, reason)
}

func TestCanModerateExemptAutomation(t *testing.T) {
	guard := newTestGuard(t, true, []string{"helper-bot"})
	actor := Member{ID: "u1", TopRank: 5}
	agent := Member{ID: "agent", TopRank: 10}

	exempt := Member{ID: "helper-bot", TopRank: 1, IsAutomated: true}
	allowed, _ := guard.CanModerate(actor, &exempt, agent, "warn")
	assert.True(t, allowed)

	other := Member{ID: "other-bot", TopRank: 1, IsAutomated: true}
	allowed, reason := guard.CanModerate(actor, &other, agent, "warn")
	assert.False(t, allowed)
	assert.Equal(t, ReasonAutomated, reason)
}
