package roleguard

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// AdminRoleName is the reserved name of the distinguished admin role that
// sits at the top of every registry's hierarchy.
const AdminRoleName = "admins"

// Registry owns a hierarchy of roles and answers authorization queries
// against it. All roles of a registry share one lock, so every operation on
// the registry and on its roles is safe for concurrent use.
//
// There is no process-global registry. Construct one at startup, hand it to
// the dispatch layer by reference (or through WithRegistry), and mutate it
// at runtime as needed.
type Registry struct {
	mu     sync.RWMutex
	logger *slog.Logger

	roles  map[string]*Role
	admins *Role

	adminOverride  bool
	adminExclusion bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry's logger. Mutations log at debug level,
// rehydration at info, member source failures at warn. Defaults to a
// discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(reg *Registry) {
		if logger != nil {
			reg.logger = logger
		}
	}
}

// WithAdminOverride controls whether direct members of the admin role
// satisfy every positive requirement without holding the named roles.
// Enabled by default.
func WithAdminOverride(enabled bool) Option {
	return func(reg *Registry) {
		reg.adminOverride = enabled
	}
}

// WithAdminExclusion controls whether negated requirements apply to direct
// members of the admin role. Disabled by default: with admin override on,
// admins pass negated requirements like positive ones. When enabled, a
// negated requirement denies an admin who is a member of one of its roles.
func WithAdminExclusion(enabled bool) Option {
	return func(reg *Registry) {
		reg.adminExclusion = enabled
	}
}

// New creates an empty registry. The admin role exists from the start; it
// is not listed under Names and cannot be removed.
func New(opts ...Option) *Registry {
	reg := &Registry{
		logger:        slog.New(slog.DiscardHandler),
		roles:         make(map[string]*Role),
		adminOverride: true,
	}
	reg.admins = newRole(reg, AdminRoleName)
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// AddRole registers a new role, optionally with initial members. The new
// role is linked as a child of the admin role, so admins cover every
// registered role. Fails with ErrDuplicateRole if the name is taken or
// reserved.
func (reg *Registry) AddRole(name string, members ...string) (*Role, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if name == AdminRoleName {
		return nil, NewError(ErrDuplicateRole, "role name is reserved").WithRole(name)
	}
	if _, ok := reg.roles[name]; ok {
		return nil, NewError(ErrDuplicateRole, "role already registered").WithRole(name)
	}

	role := newRole(reg, name, members...)
	reg.roles[name] = role
	reg.admins.children[role] = struct{}{}
	reg.logger.Debug("role added", "role", name, "members", len(role.members))
	return role, nil
}

// RemoveRole unregisters a role and unlinks it from every remaining role,
// the admin role included. The detached role is returned and keeps its own
// members and children, so handles held elsewhere stay evaluable. Fails
// with ErrUnknownRole if the name is not registered.
func (reg *Registry) RemoveRole(name string) (*Role, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	role, ok := reg.roles[name]
	if !ok {
		return nil, NewError(ErrUnknownRole, "role not registered").WithRole(name)
	}

	delete(reg.roles, name)
	delete(reg.admins.children, role)
	for _, parent := range reg.roles {
		delete(parent.children, role)
	}
	reg.logger.Debug("role removed", "role", name)
	return role, nil
}

// Get returns a registered role by name, or ErrUnknownRole. The admin role
// is not registered under a name; use Admins.
func (reg *Registry) Get(name string) (*Role, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	role, ok := reg.roles[name]
	if !ok {
		return nil, NewError(ErrUnknownRole, "role not registered").WithRole(name)
	}
	return role, nil
}

// Has reports whether a role name is registered.
func (reg *Registry) Has(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.roles[name]
	return ok
}

// Names returns all registered role names, sorted. The admin role is not listed.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.roles))
	for name := range reg.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered roles, the admin role excluded.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.roles)
}

// Admins returns the registry's admin role.
func (reg *Registry) Admins() *Role {
	return reg.admins
}

// AddAdmin adds a direct member to the admin role.
func (reg *Registry) AddAdmin(id string) {
	reg.admins.AddMember(id)
}

// RemoveAdmin removes a direct member from the admin role.
func (reg *Registry) RemoveAdmin(id string) {
	reg.admins.RemoveMember(id)
}

// IsAdmin reports whether the actor is a direct member of the admin role.
func (reg *Registry) IsAdmin(id string) bool {
	return reg.admins.HasMember(id)
}

// Require builds a requirement satisfied by members of any of the named
// roles. Names resolve now: referencing an unregistered role fails with
// ErrUnknownRole at registration time, not at dispatch time. The reserved
// name "admins" resolves to the admin role. With no names the requirement
// is empty and authorizes every actor.
func (reg *Registry) Require(names ...string) (Requirement, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	roles := make([]*Role, 0, len(names))
	for _, name := range names {
		if name == AdminRoleName {
			roles = append(roles, reg.admins)
			continue
		}
		role, ok := reg.roles[name]
		if !ok {
			return Requirement{}, NewError(ErrUnknownRole, "requirement references unregistered role").WithRole(name)
		}
		roles = append(roles, role)
	}
	return Requirement{roles: roles}, nil
}

// Exclude builds a negated requirement satisfied by actors who are members
// of none of the named roles. Unregistered names fail with ErrUnknownRole.
func (reg *Registry) Exclude(names ...string) (Requirement, error) {
	req, err := reg.Require(names...)
	if err != nil {
		return Requirement{}, err
	}
	return req.Negate(), nil
}

// Authorized reports whether the actor satisfies the requirement.
//
// Positive requirements are satisfied by membership, direct or inherited,
// in any requirement role; with admin override enabled (the default),
// direct members of the admin role satisfy them all. Negated requirements
// are satisfied by actors who are members of none of the roles; with admin
// override on and admin exclusion off, admins pass those too.
//
// Stale sourced roles reachable from the requirement are refreshed first,
// see BindSource. Evaluation itself never blocks on I/O.
func (reg *Registry) Authorized(ctx context.Context, req Requirement, actor string) bool {
	if req.Empty() {
		return true
	}
	if actor == "" {
		return false
	}

	roots := req.roles
	if reg.adminOverride {
		roots = append(append(make([]*Role, 0, len(req.roles)+1), req.roles...), reg.admins)
	}
	reg.refreshStale(ctx, roots)

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	admin := false
	if reg.adminOverride {
		_, admin = reg.admins.members[actor]
	}

	if req.negated {
		if admin && !reg.adminExclusion {
			return true
		}
		if req.anyMemberLocked(actor) {
			reg.logger.Debug("actor denied", "actor", actor, "requirement", req.String())
			return false
		}
		return true
	}

	if admin || req.anyMemberLocked(actor) {
		return true
	}
	reg.logger.Debug("actor denied", "actor", actor, "requirement", req.String())
	return false
}
