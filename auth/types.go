package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the user-lookup collaborator the auth core depends on.
// Lookups exclude inactive accounts; a deactivated user behaves exactly
// like a missing one.
type UserStore interface {
	ByID(ctx context.Context, id int64) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
}

// Config holds the auth options the core consumes. It is built once at
// process start and handed to constructors explicitly; nothing in this
// package reads ambient state.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetAnonymousRejectInvalid() bool
}

// Module bundles the fully wired auth core for a single signing secret.
type Module struct {
	Tokens     *TokenService
	Service    *Service
	Strategies *Strategies
	Controller *Controller
}

// New wires the token service, auth service, strategies, and controller
// from a user store and configuration.
func New(users UserStore, cfg Config) *Module {
	tokens := NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenExpiration(), nil)
	service := NewService(users, tokens)
	strategies := NewStrategies(service, tokens).
		RejectInvalidAnonymous(cfg.GetAnonymousRejectInvalid())

	return &Module{
		Tokens:     tokens,
		Service:    service,
		Strategies: strategies,
		Controller: NewController(service, strategies),
	}
}

// WithLogger propagates a logger to every component in the module.
func (m *Module) WithLogger(logger Logger) *Module {
	m.Tokens.WithLogger(logger)
	m.Service.WithLogger(logger)
	m.Strategies.WithLogger(logger)
	m.Controller.Logger = logger
	return m
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
