package roleguard

import (
	"context"
	"fmt"
	"testing"
)

// newBenchRegistry builds a chain of roles of the given depth, with one
// member at the bottom. Requirement checks against the top role have to
// walk the full chain to find that member.
func newBenchRegistry(depth int) (*Registry, Requirement) {
	reg := New(WithLogger(NewTestLogger()))
	reg.AddAdmin("1")

	top, err := reg.AddRole("tier-0")
	if err != nil {
		panic(err)
	}
	parent := top
	for i := 1; i < depth; i++ {
		child, err := reg.AddRole(fmt.Sprintf("tier-%d", i))
		if err != nil {
			panic(err)
		}
		if _, err := parent.AddChild(child); err != nil {
			panic(err)
		}
		parent = child
	}
	parent.AddMember("4711")

	req, err := reg.Require("tier-0")
	if err != nil {
		panic(err)
	}
	return reg, req
}

// ============================================================================
// Membership
// ============================================================================

func BenchmarkIsMemberShallow(b *testing.B) {
	reg, _ := newBenchRegistry(1)
	role, _ := reg.Get("tier-0")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		role.IsMember("4711")
	}
}

func BenchmarkIsMemberDeep(b *testing.B) {
	reg, _ := newBenchRegistry(32)
	role, _ := reg.Get("tier-0")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		role.IsMember("4711")
	}
}

// ============================================================================
// Authorization
// ============================================================================

func BenchmarkAuthorizedPositive(b *testing.B) {
	ctx := context.Background()
	reg, req := newBenchRegistry(8)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Authorized(ctx, req, "4711")
	}
}

func BenchmarkAuthorizedNegated(b *testing.B) {
	ctx := context.Background()
	reg, req := newBenchRegistry(8)
	req = req.Negate()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Authorized(ctx, req, "99")
	}
}

func BenchmarkAuthorizedAdminOverride(b *testing.B) {
	ctx := context.Background()
	reg, req := newBenchRegistry(8)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Authorized(ctx, req, "1")
	}
}

func BenchmarkAuthorizedParallel(b *testing.B) {
	ctx := context.Background()
	reg, req := newBenchRegistry(8)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			reg.Authorized(ctx, req, "4711")
		}
	})
}

// ============================================================================
// Snapshots
// ============================================================================

func BenchmarkSnapshot(b *testing.B) {
	reg, _ := newBenchRegistry(32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Snapshot()
	}
}
