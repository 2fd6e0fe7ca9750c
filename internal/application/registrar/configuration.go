package registrar

import (
	"time"

	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// Default combinatorial safety limits and registration timeout
const (
	DefaultMaxGenericParams        = 10
	DefaultMaxTypesClosingParam    = 100
	DefaultMaxGenericRegistrations = 1000
	DefaultTimeout                 = 15 * time.Second
)

// Limits are the combinatorial safety limits for closing open generic
// handlers. A value of zero disables that particular limit.
type Limits struct {
	// MaxGenericParams caps the number of generic parameters per handler
	MaxGenericParams int
	// MaxTypesClosingParam caps the candidate types per parameter
	MaxTypesClosingParam int
	// MaxGenericRegistrations caps the total combinations per handler
	MaxGenericRegistrations int
}

// Configuration holds everything the registration pass needs: the handler
// lifetime, the catalogs to scan, the ordered behaviors to register, the
// generic limits and the pass timeout. It is assembled once, consumed by
// AddMediator, and not revisited afterwards.
type Configuration struct {
	lifetime  services.Lifetime
	catalogs  []*TypeCatalog
	behaviors []services.Factory
	limits    Limits
	timeout   time.Duration

	registered bool
}

// Option customizes a Configuration
type Option func(*Configuration)

// NewConfiguration builds a Configuration with defaults applied
func NewConfiguration(opts ...Option) *Configuration {
	cfg := &Configuration{
		lifetime: services.Transient,
		limits: Limits{
			MaxGenericParams:        DefaultMaxGenericParams,
			MaxTypesClosingParam:    DefaultMaxTypesClosingParam,
			MaxGenericRegistrations: DefaultMaxGenericRegistrations,
		},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLifetime sets the lifetime handlers are registered under
func WithLifetime(lifetime services.Lifetime) Option {
	return func(cfg *Configuration) {
		cfg.lifetime = lifetime
	}
}

// WithCatalogs appends catalogs to scan, preserving order
func WithCatalogs(catalogs ...*TypeCatalog) Option {
	return func(cfg *Configuration) {
		cfg.catalogs = append(cfg.catalogs, catalogs...)
	}
}

// WithBehavior appends a behavior factory to the pipeline. Behaviors execute
// in the order they are added here; the order is semantically significant
// and preserved through the container.
func WithBehavior(factory services.Factory) Option {
	return func(cfg *Configuration) {
		cfg.behaviors = append(cfg.behaviors, factory)
	}
}

// WithLimits overrides the generic safety limits. Zero values disable the
// corresponding limit.
func WithLimits(limits Limits) Option {
	return func(cfg *Configuration) {
		cfg.limits = limits
	}
}

// WithTimeout sets the registration pass timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Configuration) {
		cfg.timeout = timeout
	}
}
