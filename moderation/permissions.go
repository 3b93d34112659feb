package moderation

import (
	"fmt"
	"strings"
)

// PermLevel is the ordinal trust tier used for authorization checks.
// Comparisons are always numeric; the gaps leave room for intermediate
// levels without renumbering.
type PermLevel int

const (
	LevelMember  PermLevel = 0
	LevelSupport PermLevel = 5
	LevelMod     PermLevel = 10
	LevelAdmin   PermLevel = 20
	LevelDev     PermLevel = 30
	LevelCoOwner PermLevel = 35
	LevelOwner   PermLevel = 40

	// levelUnconfigured sits above every real level so that an action
	// missing from the permissions config denies everyone, owners included.
	levelUnconfigured PermLevel = 100
)

func (l PermLevel) String() string {
	switch l {
	case LevelMember:
		return "member"
	case LevelSupport:
		return "support"
	case LevelMod:
		return "mod"
	case LevelAdmin:
		return "admin"
	case LevelDev:
		return "dev"
	case LevelCoOwner:
		return "co_owner"
	case LevelOwner:
		return "owner"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a config-file level name to a PermLevel.
func ParseLevel(s string) (PermLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return LevelMember, nil
	case "support", "supporter":
		return LevelSupport, nil
	case "mod", "moderator":
		return LevelMod, nil
	case "admin":
		return LevelAdmin, nil
	case "dev", "developer":
		return LevelDev, nil
	case "co_owner", "co-owner":
		return LevelCoOwner, nil
	case "owner":
		return LevelOwner, nil
	}
	return LevelMember, fmt.Errorf("unknown permission level: %q", s)
}

// Member is a point-in-time snapshot of one member's role data, supplied by
// the platform collaborator. Permission and hierarchy checks never cache it.
type Member struct {
	ID              string
	RoleIDs         []string
	TopRank         int  // position of the member's highest role
	IsAutomated     bool // bot account
	IsAdministrator bool // platform-native administrator capability
	IsOwner         bool // community owner
}

// Permissions maps roles to trust levels and actions to required levels.
// Built once from configuration; reads are lock-free.
type Permissions struct {
	roleLevels    map[string]PermLevel
	actionLevels  map[string]PermLevel
	adminIsOwner  bool
	ownerRoleOnly bool
}

// NewPermissions builds the binding tables. roleLevels maps role ID to a
// level name, actionLevels maps an action name to its minimum level name.
func NewPermissions(roleLevels, actionLevels map[string]string, adminIsOwner, ownerRoleOnly bool) (*Permissions, error) {
	p := &Permissions{
		roleLevels:    make(map[string]PermLevel, len(roleLevels)),
		actionLevels:  make(map[string]PermLevel, len(actionLevels)),
		adminIsOwner:  adminIsOwner,
		ownerRoleOnly: ownerRoleOnly,
	}
	for roleID, name := range roleLevels {
		level, err := ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", roleID, err)
		}
		p.roleLevels[roleID] = level
	}
	for action, name := range actionLevels {
		level, err := ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", action, err)
		}
		p.actionLevels[action] = level
	}
	return p, nil
}

// EffectiveLevel returns the highest level among the member's roles, or
// LevelMember if none are bound. A platform administrator is promoted to
// LevelOwner when the admin_is_owner fallback is enabled.
func (p *Permissions) EffectiveLevel(m Member) PermLevel {
	if m.IsAdministrator && p.adminIsOwner && !p.ownerRoleOnly {
		return LevelOwner
	}
	highest := LevelMember
	for _, roleID := range m.RoleIDs {
		if level, ok := p.roleLevels[roleID]; ok && level > highest {
			highest = level
		}
	}
	return highest
}

// RequiredLevel returns the configured minimum level for an action. An
// unconfigured action fails closed: nobody passes until config names it.
func (p *Permissions) RequiredLevel(action string) PermLevel {
	if level, ok := p.actionLevels[action]; ok {
		return level
	}
	return levelUnconfigured
}

// HasPermission reports whether the member's effective level meets the
// action's required level.
func (p *Permissions) HasPermission(m Member, action string) bool {
	return p.EffectiveLevel(m) >= p.RequiredLevel(action)
}
