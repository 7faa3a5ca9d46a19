package roleguard

import (
	"errors"
	"log/slog"
	"net/http"
)

// Middleware provides HTTP middleware for requirement checking.
type Middleware struct {
	reg          *Registry
	getActor     ActorExtractor
	errorHandler func(http.ResponseWriter, *http.Request, error)
	logger       *slog.Logger
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := roleguard.NewMiddleware(reg,
//	    roleguard.WithActorExtractor(roleguard.ActorFromHeader("X-Actor-ID")),
//	)
func NewMiddleware(reg *Registry, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		reg:          reg,
		getActor:     defaultGetActor,
		errorHandler: defaultErrorHandler,
		logger:       reg.logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithActorExtractor sets a custom function to extract the actor from a request.
func WithActorExtractor(fn ActorExtractor) MiddlewareOption {
	return func(m *Middleware) {
		m.getActor = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

// WithMiddlewareLogger sets the logger used for denied requests.
func WithMiddlewareLogger(logger *slog.Logger) MiddlewareOption {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func defaultGetActor(r *http.Request) string {
	return GetActor(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if errors.Is(err, ErrNoActor) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if IsUnknownRole(err) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// ActorExtractor extracts the acting user's ID from an HTTP request.
type ActorExtractor func(*http.Request) string

// ActorFromHeader creates an ActorExtractor that reads the actor ID from a header.
//
// Example:
//
//	// For header X-Actor-ID: 4711
//	mw := roleguard.NewMiddleware(reg,
//	    roleguard.WithActorExtractor(roleguard.ActorFromHeader("X-Actor-ID")))
func ActorFromHeader(headerName string) ActorExtractor {
	return func(r *http.Request) string {
		return r.Header.Get(headerName)
	}
}

// ActorFromQuery creates an ActorExtractor that reads the actor ID from a query parameter.
//
// Example:
//
//	// For route /api/commands?actor=4711
//	mw := roleguard.NewMiddleware(reg,
//	    roleguard.WithActorExtractor(roleguard.ActorFromQuery("actor")))
func ActorFromQuery(queryParam string) ActorExtractor {
	return func(r *http.Request) string {
		return r.URL.Query().Get(queryParam)
	}
}

// StaticActor creates an ActorExtractor that always returns the same actor.
// Useful for tests and single-tenant deployments.
func StaticActor(actor string) ActorExtractor {
	return func(r *http.Request) string {
		return actor
	}
}

// Require creates middleware that enforces the given requirement.
//
// Example:
//
//	canBan, err := reg.Require("moderators")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.With(mw.Require(canBan)).Post("/ban", banHandler)
func (m *Middleware) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor := m.getActor(r)
			if actor == "" && !req.Empty() {
				m.errorHandler(w, r, NewError(ErrNoActor, "no actor in request"))
				return
			}

			if !m.reg.Authorized(ctx, req, actor) {
				m.logger.Debug("request denied",
					"actor", actor, "requirement", req.String(), "path", r.URL.Path)
				m.errorHandler(w, r, NewError(ErrUnauthorized, "actor does not satisfy requirement").
					WithActor(actor))
				return
			}

			if actor != "" {
				ctx = WithActor(ctx, actor)
			}
			ctx = WithRegistry(ctx, m.reg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MustRequire builds a positive requirement from role names and returns the
// enforcing middleware. Panics when a name is not registered, so misspelled
// roles surface at startup.
//
// Example:
//
//	router.With(mw.MustRequire("moderators")).Post("/ban", banHandler)
func (m *Middleware) MustRequire(names ...string) func(http.Handler) http.Handler {
	req, err := m.reg.Require(names...)
	if err != nil {
		panic(err)
	}
	return m.Require(req)
}

// MustExclude builds a negated requirement from role names and returns the
// enforcing middleware. Panics when a name is not registered.
//
// Example:
//
//	router.With(mw.MustExclude("muted")).Post("/report", reportHandler)
func (m *Middleware) MustExclude(names ...string) func(http.Handler) http.Handler {
	req, err := m.reg.Exclude(names...)
	if err != nil {
		panic(err)
	}
	return m.Require(req)
}

// LoadRegistry creates middleware that injects the registry and actor into
// the request context without enforcing anything. Use it when handlers do
// their own checks.
//
// Example:
//
//	router.With(mw.LoadRegistry()).Get("/roles", rolesHandler)
//
//	func rolesHandler(w http.ResponseWriter, r *http.Request) {
//	    reg := roleguard.FromContext(r.Context())
//	    actor := roleguard.GetActor(r.Context())
//	    // Inspect reg.Names(), reg.IsAdmin(actor), ...
//	}
func (m *Middleware) LoadRegistry() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRegistry(r.Context(), m.reg)
			if actor := m.getActor(r); actor != "" {
				ctx = WithActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
