// Package roleguard provides hierarchical role-based access control for
// chat-bot update dispatch.
//
// Roles group actor IDs and form a directed acyclic hierarchy in which a
// parent role covers all members of its descendants. A registry owns the
// roles of one bot, carries the always-on-top admin role, and answers
// authorization queries built from requirements.
//
// # Core Concepts
//
// Actor: The ID of the user who triggered an update, as a string.
// A chat platform's numeric user ID is typically rendered with
// strconv.FormatInt.
//
// Role: A named member set plus child links. A role counts the members
// of every role below it as its own, so a requirement on a role admits
// its whole subtree, never the roles above it.
//
// Requirement: An authorization predicate built from roles. Positive
// requirements (Require) admit members of any listed role, negated ones
// (Exclude) admit everyone else. Admins satisfy requirements regardless,
// unless configured otherwise.
//
// # Basic Usage
//
//	// 1. Build the registry (at application startup)
//	reg := roleguard.New()
//	reg.AddAdmin("4711")
//
//	mods, err := reg.AddRole("moderators", "1003")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	helpers, err := reg.AddRole("helpers", "42")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 2. Link the hierarchy: moderators inherit the helpers tier
//	if _, err := helpers.AddChild(mods); err != nil {
//	    log.Fatal(err)
//	}
//
//	// 3. Build requirements
//	canBan, err := reg.Require("moderators")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	canHelp, err := reg.Require("helpers")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 4. Check actors
//	reg.Authorized(ctx, canBan, "1003")  // true, direct member
//	reg.Authorized(ctx, canBan, "42")    // false, helpers hold no moderator rights
//	reg.Authorized(ctx, canHelp, "42")   // true, direct member
//	reg.Authorized(ctx, canHelp, "1003") // true, moderators sit below helpers
//	reg.Authorized(ctx, canBan, "4711")  // true, admin
//
// # Dispatch Integration
//
// Gate guards handlers for any update type:
//
//	gate := roleguard.NewGate(reg, canBan, func(u Update) (string, bool) {
//	    if u.Sender == nil {
//	        return "", false
//	    }
//	    return strconv.FormatInt(u.Sender.ID, 10), true
//	})
//	dispatcher.Handle("/ban", gate.Wrap(banHandler))
//
// Wrapped handlers silently drop unauthorized updates, so a denied actor
// gets no reply. For HTTP surfaces, Middleware answers 403 instead:
//
//	mw := roleguard.NewMiddleware(reg,
//	    roleguard.WithActorExtractor(roleguard.ActorFromHeader("X-Actor-ID")))
//	router.With(mw.Require(canBan)).Post("/ban", banHandler)
//
// # Persistence
//
// Snapshots round-trip the full graph through a Store. PostgresStore and
// RedisStore are included; any Load/Save pair works.
//
//	store := roleguard.NewRedisStore(client)
//	reg, err := roleguard.Rehydrate(ctx, store)
//	if err != nil {
//	    log.Fatal(err) // corrupt data fails here, not at query time
//	}
//	defer reg.Persist(ctx, store)
//
// A registry is restored completely or not at all: snapshots with unknown
// child references or cyclic links fail with ErrCorruptHierarchy.
//
// # Sourced Roles
//
// A role can mirror an external member list, such as a chat's current
// administrators, and refresh it lazily during authorization checks:
//
//	chatAdmins, _ := reg.AddRole("chat-admins")
//	chatAdmins.BindSource(fetchChatAdmins, 10*time.Minute)
package roleguard
