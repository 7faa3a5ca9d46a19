package roleguard

import (
	"context"
	"log/slog"
)

// Gate guards a handler for updates of type U behind a requirement. The
// actor function extracts the acting user from an update; updates without
// an actor never satisfy a non-empty requirement.
type Gate[U any] struct {
	reg    *Registry
	req    Requirement
	actor  func(U) (string, bool)
	logger *slog.Logger
}

// GateOption configures a Gate.
type GateOption[U any] func(*Gate[U])

// WithGateLogger sets the logger used for dropped updates.
func WithGateLogger[U any](logger *slog.Logger) GateOption[U] {
	return func(g *Gate[U]) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate creates a gate over the registry for the given requirement.
//
// Example:
//
//	canBan, err := reg.Require("moderators")
//	if err != nil {
//		return err
//	}
//	gate := roleguard.NewGate(reg, canBan, func(u Update) (string, bool) {
//		if u.Sender == nil {
//			return "", false
//		}
//		return strconv.FormatInt(u.Sender.ID, 10), true
//	})
//	dispatcher.Handle("/ban", gate.Wrap(banHandler))
func NewGate[U any](reg *Registry, req Requirement, actor func(U) (string, bool), opts ...GateOption[U]) *Gate[U] {
	g := &Gate[U]{
		reg:    reg,
		req:    req,
		actor:  actor,
		logger: reg.logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow reports whether the update's actor satisfies the requirement.
func (g *Gate[U]) Allow(ctx context.Context, u U) bool {
	if g.req.Empty() {
		return true
	}
	actor, ok := g.actor(u)
	if !ok {
		return false
	}
	return g.reg.Authorized(ctx, g.req, actor)
}

// Check returns nil when the update's actor satisfies the requirement,
// ErrNoActor when the update carries no actor, and ErrUnauthorized
// otherwise.
func (g *Gate[U]) Check(ctx context.Context, u U) error {
	if g.req.Empty() {
		return nil
	}
	actor, ok := g.actor(u)
	if !ok {
		return NewError(ErrNoActor, "update carries no actor")
	}
	if !g.reg.Authorized(ctx, g.req, actor) {
		return NewError(ErrUnauthorized, "actor does not satisfy requirement").WithActor(actor)
	}
	return nil
}

// Wrap returns a handler that silently drops unauthorized updates and
// forwards the rest to next with the actor injected into the context.
func (g *Gate[U]) Wrap(next func(context.Context, U) error) func(context.Context, U) error {
	if g.req.Empty() {
		return next
	}
	return func(ctx context.Context, u U) error {
		actor, ok := g.actor(u)
		if !ok {
			g.logger.Debug("update dropped",
				"reason", "no actor", "requirement", g.req.String())
			return nil
		}
		if !g.reg.Authorized(ctx, g.req, actor) {
			g.logger.Debug("update dropped",
				"reason", "unauthorized", "actor", actor, "requirement", g.req.String())
			return nil
		}
		return next(WithActor(ctx, actor), u)
	}
}
