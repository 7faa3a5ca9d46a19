package roleguard

import (
	"context"
	"fmt"
	"time"
)

// MemberSource produces the current member set of a role from an external
// system, such as a chat platform's administrator list. Sources are invoked
// outside the registry lock and may block on network calls.
type MemberSource func(ctx context.Context) ([]string, error)

// BindSource attaches a member source to the role. The role's members are
// replaced from the source on Refresh, and automatically during
// authorization checks once the previous fetch is older than ttl. A ttl of
// zero refreshes on every check.
func (r *Role) BindSource(src MemberSource, ttl time.Duration) {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	r.source = src
	r.sourceTTL = ttl
	r.fetchedAt = time.Time{}
}

// ClearSource detaches the member source. The members from the last fetch
// remain in place.
func (r *Role) ClearSource() {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	r.source = nil
}

// Refresh fetches the member set from the bound source and replaces the
// role's members. It is a no-op for roles without a source. On error the
// previous members are kept.
func (r *Role) Refresh(ctx context.Context) error {
	r.reg.mu.RLock()
	src := r.source
	r.reg.mu.RUnlock()
	if src == nil {
		return nil
	}

	ids, err := src(ctx)
	if err != nil {
		return fmt.Errorf("roleguard: refresh %s: %w", r.name, err)
	}

	members := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}

	r.reg.mu.Lock()
	r.members = members
	r.fetchedAt = time.Now()
	r.reg.mu.Unlock()
	return nil
}

// staleLocked reports whether the role's source needs a refresh. Callers
// hold the registry lock.
func (r *Role) staleLocked(now time.Time) bool {
	if r.source == nil {
		return false
	}
	return r.fetchedAt.IsZero() || now.Sub(r.fetchedAt) > r.sourceTTL
}

// refreshStale refreshes every stale sourced role reachable from the given
// roots. Fetches run outside the lock; a failed fetch keeps the previous
// members so authorization degrades to the last known state.
func (reg *Registry) refreshStale(ctx context.Context, roots []*Role) {
	now := time.Now()
	var stale []*Role

	reg.mu.RLock()
	seen := make(map[*Role]bool)
	var walk func(r *Role)
	walk = func(r *Role) {
		if r == nil || seen[r] {
			return
		}
		seen[r] = true
		if r.staleLocked(now) {
			stale = append(stale, r)
		}
		for child := range r.children {
			walk(child)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	reg.mu.RUnlock()

	for _, r := range stale {
		if err := r.Refresh(ctx); err != nil {
			reg.logger.Warn("member source refresh failed, keeping previous members",
				"role", r.name, "error", err)
		}
	}
}
