package roleguard

import (
	"context"
	"fmt"
	"sort"
)

// RoleState is the persisted form of a single role.
type RoleState struct {
	Members  []string `json:"members"`
	Children []string `json:"children"`
}

// Snapshot is the persisted form of a registry, keyed by role name. The
// AdminRoleName entry carries the admin members; its children are implicit
// and ignored on restore.
type Snapshot map[string]RoleState

// Store persists registry snapshots.
//
// Load returns an empty snapshot, not an error, when the backend holds no
// data yet.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Snapshot captures the registry's current state. Child links to role
// handles that are no longer registered are omitted.
func (reg *Registry) Snapshot() Snapshot {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	snap := make(Snapshot, len(reg.roles)+1)
	snap[AdminRoleName] = RoleState{Members: sortedSet(reg.admins.members)}

	for name, role := range reg.roles {
		state := RoleState{Members: sortedSet(role.members)}
		for child := range role.children {
			if reg.roles[child.name] == child {
				state.Children = append(state.Children, child.name)
			}
		}
		sort.Strings(state.Children)
		snap[name] = state
	}
	return snap
}

// Restore builds a registry from a snapshot. Roles are created first and
// linked after, so entries may reference each other in any order. A child
// reference to a role the snapshot does not declare, or a link that would
// close a cycle, fails with ErrCorruptHierarchy and no registry is
// returned.
func Restore(snap Snapshot, opts ...Option) (*Registry, error) {
	reg := New(opts...)

	for name, state := range snap {
		if name == AdminRoleName {
			for _, id := range state.Members {
				reg.admins.members[id] = struct{}{}
			}
			continue
		}
		if _, err := reg.AddRole(name, state.Members...); err != nil {
			return nil, err
		}
	}

	for name, state := range snap {
		if name == AdminRoleName {
			continue
		}
		parent := reg.roles[name]
		for _, childName := range state.Children {
			child, ok := reg.roles[childName]
			if !ok {
				return nil, NewError(ErrCorruptHierarchy, "child reference to unknown role").
					WithRole(name).
					WithChild(childName)
			}
			if child.coversLocked(parent, make(map[*Role]bool)) {
				return nil, NewError(ErrCorruptHierarchy, "cyclic link in snapshot").
					WithRole(name).
					WithChild(childName)
			}
			parent.children[child] = struct{}{}
		}
	}
	return reg, nil
}

// Rehydrate loads a snapshot from the store and restores a registry from
// it. An empty backend yields an empty registry.
func Rehydrate(ctx context.Context, store Store, opts ...Option) (*Registry, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("roleguard: load snapshot: %w", err)
	}
	reg, err := Restore(snap, opts...)
	if err != nil {
		return nil, err
	}
	reg.logger.Info("registry rehydrated", "roles", reg.Len())
	return reg, nil
}

// Persist saves the registry's current snapshot to the store.
func (reg *Registry) Persist(ctx context.Context, store Store) error {
	if err := store.Save(ctx, reg.Snapshot()); err != nil {
		return fmt.Errorf("roleguard: save snapshot: %w", err)
	}
	return nil
}
