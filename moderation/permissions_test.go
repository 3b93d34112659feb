package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPermissions(t *testing.T, actions map[string]string) *Permissions {
	t.Helper()
	perms, err := NewPermissions(map[string]string{
		"role-member":  "member",
		"role-support": "support",
		"role-mod":     "mod",
		"role-admin":   "admin",
		"role-dev":     "dev",
		"role-owner":   "owner",
	}, actions, true, false)
	require.NoError(t, err)
	return perms
}

func TestEffectiveLevelIsMaxOfHeldRoles(t *testing.T) {
	perms := newTestPermissions(t, nil)

	m := Member{ID: "1", RoleIDs: []string{"role-member", "role-mod", "role-support"}}
	assert.Equal(t, LevelMod, perms.EffectiveLevel(m))

	assert.Equal(t, LevelMember, perms.EffectiveLevel(Member{ID: "2"}))
	assert.Equal(t, LevelMember, perms.EffectiveLevel(Member{ID: "3", RoleIDs: []string{"unbound-role"}}))
}

func TestEffectiveLevelAdminFallback(t *testing.T) {
	perms := newTestPermissions(t, nil)
	admin := Member{ID: "1", IsAdministrator: true}
	assert.Equal(t, LevelOwner, perms.EffectiveLevel(admin))

	noFallback, err := NewPermissions(nil, nil, false, false)
	require.NoError(t, err)
	assert.Equal(t, LevelMember, noFallback.EffectiveLevel(admin))

	ownerRoleOnly, err := NewPermissions(nil, nil, true, true)
	require.NoError(t, err)
	assert.Equal(t, LevelMember, ownerRoleOnly.EffectiveLevel(admin))
}

func TestRequiredLevelFailsClosed(t *testing.T) {
	perms := newTestPermissions(t, map[string]string{"warn": "mod"})

	assert.Equal(t, LevelMod, perms.RequiredLevel("warn"))
	assert.True(t, perms.RequiredLevel("ban") > LevelOwner)

	// Even an owner-level member is denied an unconfigured action.
	owner := Member{ID: "1", RoleIDs: []string{"role-owner"}}
	assert.False(t, perms.HasPermission(owner, "ban"))

	configured := newTestPermissions(t, map[string]string{"warn": "mod", "ban": "admin"})
	assert.True(t, configured.HasPermission(owner, "ban"))
}

func TestHasPermissionThreshold(t *testing.T) {
	perms := newTestPermissions(t, map[string]string{"warn": "mod"})

	support := Member{ID: "1", RoleIDs: []string{"role-support"}}
	assert.False(t, perms.HasPermission(support, "warn"))

	// Raising a single role to the required level flips the check.
	promoted := Member{ID: "1", RoleIDs: []string{"role-support", "role-mod"}}
	assert.True(t, perms.HasPermission(promoted, "warn"))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("Moderator")
	require.NoError(t, err)
	assert.Equal(t, LevelMod, level)

	_, err = ParseLevel("sorcerer")
	assert.Error(t, err)
}
