package moderation

import (
	"fmt"
	"testing"
	"time"

	"warden/utils/database/warndb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	calls []string
	err   error
}

func (f *fakeExecutor) Timeout(guildID, userID string, until time.Time, reason string) error {
	f.calls = append(f.calls, "timeout")
	return f.err
}

func (f *fakeExecutor) ClearTimeout(guildID, userID, reason string) error {
	f.calls = append(f.calls, "clear-timeout")
	return f.err
}

func (f *fakeExecutor) Kick(guildID, userID, reason string) error {
	f.calls = append(f.calls, "kick")
	return f.err
}

func (f *fakeExecutor) Ban(guildID, userID, reason string, purge time.Duration) error {
	f.calls = append(f.calls, "ban")
	return f.err
}

func (f *fakeExecutor) Unban(guildID, userID, reason string) error {
	f.calls = append(f.calls, "unban")
	return f.err
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Notify(ev Event) {
	n.events = append(n.events, ev)
}

func newTestStore(t *testing.T) *warndb.Store {
	t.Helper()
	db, err := warndb.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return warndb.NewStore(db)
}

func testThresholds() Thresholds {
	return Thresholds{
		TimeoutWarnings: 2,
		KickWarnings:    3,
		BanWarnings:     5,
		TimeoutDuration: 300 * time.Second,
	}
}

func newTestEngine(t *testing.T, th Thresholds) (*Engine, *warndb.Store, *fakeExecutor, *recordingNotifier) {
	t.Helper()
	store := newTestStore(t)
	exec := &fakeExecutor{}
	notifier := &recordingNotifier{}
	perms, err := NewPermissions(map[string]string{"role-dev": "dev"}, nil, true, false)
	require.NoError(t, err)
	return NewEngine(store, exec, perms, th, notifier), store, exec, notifier
}

func TestDecideDominance(t *testing.T) {
	th := testThresholds()

	assert.Equal(t, ActionNone, Decide(1, ActionNone, th))
	assert.Equal(t, ActionTimeout, Decide(2, ActionNone, th))
	assert.Equal(t, ActionKick, Decide(3, ActionNone, th))
	// A count jumping straight past every threshold picks the highest tier.
	assert.Equal(t, ActionBan, Decide(5, ActionNone, th))

	// Consumed tiers do not fire again.
	assert.Equal(t, ActionKick, Decide(3, ActionTimeout, th))
	assert.Equal(t, ActionNone, Decide(4, ActionKick, th))
	assert.Equal(t, ActionBan, Decide(5, ActionKick, th))
	assert.Equal(t, ActionNone, Decide(100, ActionBan, th))
}

func TestProcessWarningLadderScenario(t *testing.T) {
	engine, store, exec, _ := newTestEngine(t, testThresholds())
	target := Member{ID: "u1", TopRank: 1}
	agent := Member{ID: "agent", TopRank: 5}

	warn := func() Result {
		id, err := store.AddWarning("g1", "u1", "mod1", "test")
		require.NoError(t, err)
		count, err := store.CountWarnings("g1", "u1")
		require.NoError(t, err)
		return engine.Process("g1", target, agent, id, count)
	}

	// Warn 1: below every threshold.
	assert.Equal(t, OutcomeNone, warn().Kind)

	// Warn 2: timeout tier.
	res := warn()
	assert.Equal(t, OutcomeApplied, res.Kind)
	assert.Equal(t, ActionTimeout, res.Action)

	// Warn 3: kick tier, timeout already consumed.
	res = warn()
	assert.Equal(t, OutcomeApplied, res.Kind)
	assert.Equal(t, ActionKick, res.Action)

	// Warn 4: kick consumed, below ban threshold.
	assert.Equal(t, OutcomeNone, warn().Kind)

	// Warn 5: ban tier.
	res = warn()
	assert.Equal(t, OutcomeApplied, res.Kind)
	assert.Equal(t, ActionBan, res.Action)

	// Warn 6: ladder exhausted.
	assert.Equal(t, OutcomeNone, warn().Kind)

	assert.Equal(t, []string{"timeout", "kick", "ban"}, exec.calls)

	last, _, err := store.GetLastAutoAction("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, string(ActionBan), last)

	record, err := store.GetPunishment("g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.ActiveBan)
}

func TestProcessAnnotatesTriggeringWarning(t *testing.T) {
	engine, store, _, _ := newTestEngine(t, testThresholds())
	target := Member{ID: "u1", TopRank: 1}
	agent := Member{ID: "agent", TopRank: 5}

	_, err := store.AddWarning("g1", "u1", "mod1", "first")
	require.NoError(t, err)
	id, err := store.AddWarning("g1", "u1", "mod1", "second")
	require.NoError(t, err)

	res := engine.Process("g1", target, agent, id, 2)
	require.Equal(t, OutcomeApplied, res.Kind)

	warnings, err := store.GetWarnings("g1", "u1", 10)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	// Newest first: the triggering warning carries the annotation.
	require.NotNil(t, warnings[0].AutoActionType)
	assert.Equal(t, string(ActionTimeout), *warnings[0].AutoActionType)
	assert.Nil(t, warnings[1].AutoActionType)
}

func TestProcessExecutorFailureLeavesLedgerUntouched(t *testing.T) {
	for name, execErr := range map[string]error{
		"forbidden": fmt.Errorf("%w: 403", ErrExecutorForbidden),
		"transient": fmt.Errorf("%w: 502", ErrExecutorTransient),
	} {
		t.Run(name, func(t *testing.T) {
			engine, store, exec, notifier := newTestEngine(t, testThresholds())
			exec.err = execErr
			target := Member{ID: "u1", TopRank: 1}
			agent := Member{ID: "agent", TopRank: 5}

			id, err := store.AddWarning("g1", "u1", "mod1", "test")
			require.NoError(t, err)

			res := engine.Process("g1", target, agent, id, 5)
			assert.Equal(t, OutcomeFailed, res.Kind)
			assert.Equal(t, ActionBan, res.Action)
			assert.ErrorIs(t, res.Err, execErr)

			// A failed ban never degrades to kick or timeout in the same pass.
			assert.Equal(t, []string{"ban"}, exec.calls)

			last, _, err := store.GetLastAutoAction("g1", "u1")
			require.NoError(t, err)
			assert.Empty(t, last)

			record, err := store.GetPunishment("g1", "u1")
			require.NoError(t, err)
			assert.Nil(t, record)

			require.NotEmpty(t, notifier.events)
			assert.Equal(t, EventAutoActionFailed, notifier.events[len(notifier.events)-1].Type)
		})
	}
}

func TestProcessHierarchyPreCheck(t *testing.T) {
	agent := Member{ID: "agent", TopRank: 5}

	tests := []struct {
		name   string
		target Member
		reason string
	}{
		{"automated", Member{ID: "b1", TopRank: 1, IsAutomated: true}, ReasonAutomated},
		{"protected", Member{ID: "u1", TopRank: 1, RoleIDs: []string{"role-dev"}}, ReasonProtected},
		{"agent outranked", Member{ID: "u2", TopRank: 5}, ReasonAgentRank},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine, _, exec, notifier := newTestEngine(t, testThresholds())
			res := engine.Process("g1", tc.target, agent, 1, 100)
			assert.Equal(t, OutcomeBlocked, res.Kind)
			assert.Equal(t, tc.reason, res.Reason)
			assert.Empty(t, exec.calls)
			require.Len(t, notifier.events, 1)
			assert.Equal(t, EventAutoActionBlocked, notifier.events[0].Type)
		})
	}
}

func TestProcessCooldownSuppression(t *testing.T) {
	th := testThresholds()
	th.Cooldown = time.Minute
	engine, store, exec, _ := newTestEngine(t, th)
	target := Member{ID: "u1", TopRank: 1}
	agent := Member{ID: "agent", TopRank: 5}

	base := time.Now()
	require.NoError(t, store.SetLastAutoAction("g1", "u1", string(ActionTimeout), base))

	engine.now = func() time.Time { return base.Add(10 * time.Second) }
	res := engine.Process("g1", target, agent, 1, 3)
	assert.Equal(t, OutcomeSuppressed, res.Kind)
	assert.Empty(t, exec.calls)

	engine.now = func() time.Time { return base.Add(2 * time.Minute) }
	res = engine.Process("g1", target, agent, 1, 3)
	assert.Equal(t, OutcomeApplied, res.Kind)
	assert.Equal(t, ActionKick, res.Action)
}
