package roleguard

import (
	"sort"
	"time"
)

// Role is a named group of actors within a Registry. A role covers its own
// direct members plus the members of every role reachable through child
// links, so parents authorize everything their descendants authorize.
//
// Roles are created through Registry.AddRole and share their registry's
// lock; all methods are safe for concurrent use. A role removed from its
// registry stays usable: it keeps its member set and child links, it is
// only unlinked from the remaining roles.
type Role struct {
	reg      *Registry
	name     string
	members  map[string]struct{}
	children map[*Role]struct{}

	// Sourced membership, see BindSource.
	source    MemberSource
	sourceTTL time.Duration
	fetchedAt time.Time
}

func newRole(reg *Registry, name string, members ...string) *Role {
	r := &Role{
		reg:      reg,
		name:     name,
		members:  make(map[string]struct{}, len(members)),
		children: make(map[*Role]struct{}),
	}
	for _, id := range members {
		r.members[id] = struct{}{}
	}
	return r
}

// Name returns the role name. Names are unique within a registry.
func (r *Role) Name() string {
	return r.name
}

// AddMember adds an actor to the role's direct member set.
// Adding an existing member is a no-op.
func (r *Role) AddMember(id string) {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	r.members[id] = struct{}{}
}

// RemoveMember removes an actor from the role's direct member set.
// Removing an absent member is a no-op.
func (r *Role) RemoveMember(id string) {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	delete(r.members, id)
}

// Members returns the role's direct members, sorted.
func (r *Role) Members() []string {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return sortedSet(r.members)
}

// HasMember reports whether the actor is a direct member of this role.
// Child roles are not consulted, see IsMember.
func (r *Role) HasMember(id string) bool {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// IsMember reports whether the actor is a member of this role or of any
// role reachable through child links. The admin role gets no special
// treatment here; admin override applies only in Registry.Authorized.
func (r *Role) IsMember(id string) bool {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return r.isMemberLocked(id, make(map[*Role]bool))
}

// isMemberLocked walks the child graph. AddChild keeps the graph acyclic;
// the visited set guards the walk against hand-corrupted state.
func (r *Role) isMemberLocked(id string, seen map[*Role]bool) bool {
	if seen[r] {
		return false
	}
	seen[r] = true
	if _, ok := r.members[id]; ok {
		return true
	}
	for child := range r.children {
		if child.isMemberLocked(id, seen) {
			return true
		}
	}
	return false
}

// AddChild links another role below this one, so its members (and those of
// its descendants) count as members of this role for authorization.
// Returns false if the link already exists. Linking a role to itself or to
// one of its ancestors fails with ErrCyclicHierarchy and leaves the
// hierarchy unchanged.
func (r *Role) AddChild(child *Role) (bool, error) {
	if child == nil {
		return false, NewError(ErrUnknownRole, "nil child role").WithRole(r.name)
	}
	if child.reg != r.reg {
		return false, NewError(ErrUnknownRole, "child belongs to a different registry").
			WithRole(r.name).
			WithChild(child.name)
	}

	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()

	if child.coversLocked(r, make(map[*Role]bool)) {
		return false, NewError(ErrCyclicHierarchy, "link would create a cycle").
			WithRole(r.name).
			WithChild(child.name)
	}
	if _, ok := r.children[child]; ok {
		return false, nil
	}
	r.children[child] = struct{}{}
	r.reg.logger.Debug("child role linked", "role", r.name, "child", child.name)
	return true, nil
}

// RemoveChild unlinks a direct child role. Only the link is removed; the
// child keeps its own members and children. Returns false if there was no
// such link.
func (r *Role) RemoveChild(child *Role) bool {
	if child == nil {
		return false
	}
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	if _, ok := r.children[child]; !ok {
		return false
	}
	delete(r.children, child)
	r.reg.logger.Debug("child role unlinked", "role", r.name, "child", child.name)
	return true
}

// Children returns the direct child roles, sorted by name.
func (r *Role) Children() []*Role {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	children := make([]*Role, 0, len(r.children))
	for child := range r.children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i].name < children[j].name })
	return children
}

// Covers reports whether other is this role or one of its descendants. An
// actor authorized through other is then also authorized through this role.
// Roles form a partial order: two unrelated roles cover neither each other.
func (r *Role) Covers(other *Role) bool {
	if other == nil {
		return false
	}
	if other == r {
		return true
	}
	if other.reg != r.reg {
		return false
	}
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return r.coversLocked(other, make(map[*Role]bool))
}

// IsAncestorOf reports whether other is a proper descendant of this role.
func (r *Role) IsAncestorOf(other *Role) bool {
	if other == nil || other == r || other.reg != r.reg {
		return false
	}
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return r.coversLocked(other, make(map[*Role]bool))
}

// CoveredBy reports whether this role is other or one of its descendants.
func (r *Role) CoveredBy(other *Role) bool {
	if other == nil {
		return false
	}
	if other == r {
		return true
	}
	if other.reg != r.reg {
		return false
	}
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return other.coversLocked(r, make(map[*Role]bool))
}

// IsDescendantOf reports whether this role is a proper descendant of other.
func (r *Role) IsDescendantOf(other *Role) bool {
	if other == nil || other == r || other.reg != r.reg {
		return false
	}
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return other.coversLocked(r, make(map[*Role]bool))
}

func (r *Role) coversLocked(other *Role, seen map[*Role]bool) bool {
	if r == other {
		return true
	}
	if seen[r] {
		return false
	}
	seen[r] = true
	for child := range r.children {
		if child.coversLocked(other, seen) {
			return true
		}
	}
	return false
}

// Equivalent reports whether two roles have the same direct member set and
// structurally equivalent child sets. Names are not compared, and the roles
// may belong to different registries, e.g. before and after a snapshot
// round trip.
func (r *Role) Equivalent(other *Role) bool {
	if other == nil {
		return false
	}
	if other == r {
		return true
	}
	return r.view().equivalent(other.view())
}

// roleView is a deep copy of a role's members and child subtree, taken
// under the owning registry's read lock so roles from different registries
// compare without holding two locks at once.
type roleView struct {
	members  map[string]struct{}
	children []roleView
}

func (r *Role) view() roleView {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return r.viewLocked(make(map[*Role]bool))
}

// viewLocked tracks the current path only, so shared descendants in a
// diamond are expanded on every path while corrupt cycles still terminate.
func (r *Role) viewLocked(path map[*Role]bool) roleView {
	v := roleView{members: make(map[string]struct{}, len(r.members))}
	for id := range r.members {
		v.members[id] = struct{}{}
	}
	if path[r] {
		return v
	}
	path[r] = true
	for child := range r.children {
		v.children = append(v.children, child.viewLocked(path))
	}
	delete(path, r)
	return v
}

func (a roleView) equivalent(b roleView) bool {
	if len(a.members) != len(b.members) || len(a.children) != len(b.children) {
		return false
	}
	for id := range a.members {
		if _, ok := b.members[id]; !ok {
			return false
		}
	}
	used := make([]bool, len(b.children))
	for _, ca := range a.children {
		found := false
		for i, cb := range b.children {
			if used[i] || !ca.equivalent(cb) {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
