package roleguard

import (
	"strings"
)

// Requirement is an authorization predicate over registry roles.
//
// The zero value places no restriction: every actor is authorized. A
// positive requirement (Registry.Require) is satisfied by members of any of
// its roles, a negated one (Registry.Exclude, or Negate) by actors who are
// members of none. Requirements hold resolved role handles, so a role
// removed from its registry keeps participating in requirements built
// before its removal.
type Requirement struct {
	roles   []*Role
	negated bool
}

// Negate returns a copy of the requirement with inverted polarity.
func (req Requirement) Negate() Requirement {
	return Requirement{roles: req.roles, negated: !req.negated}
}

// Negated reports whether the requirement excludes its roles' members.
func (req Requirement) Negated() bool {
	return req.negated
}

// Empty reports whether the requirement places no restriction.
func (req Requirement) Empty() bool {
	return len(req.roles) == 0
}

// Roles returns the names of the requirement's roles, in build order.
func (req Requirement) Roles() []string {
	names := make([]string, 0, len(req.roles))
	for _, r := range req.roles {
		names = append(names, r.name)
	}
	return names
}

// String describes the requirement for logs.
func (req Requirement) String() string {
	if req.Empty() {
		return "unrestricted"
	}
	if req.negated {
		return "none-of " + strings.Join(req.Roles(), ",")
	}
	return "any-of " + strings.Join(req.Roles(), ",")
}

// anyMemberLocked reports whether the actor is a member, direct or
// inherited, of any requirement role. Callers hold the registry lock.
func (req Requirement) anyMemberLocked(actor string) bool {
	for _, r := range req.roles {
		if r.isMemberLocked(actor, make(map[*Role]bool)) {
			return true
		}
	}
	return false
}
