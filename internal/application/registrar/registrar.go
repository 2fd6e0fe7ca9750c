package registrar

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// AddMediator runs the registration pass and returns the dispatcher.
//
// It registers every closed handler from the configured catalogs, closes and
// registers every open generic handler under the configured limits, then
// registers the ordered behaviors and finally the dispatcher itself (kept
// out of the way of a pre-existing registration). The whole pass runs under
// the configured timeout; exceeding it fails with RegistrationTimeoutError.
//
// Registration is single-threaded startup work: it must complete before the
// first Send call and must not run twice.
func AddMediator(c services.Container, cfg *Configuration) (*mediator.Dispatcher, error) {
	if c == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if cfg == nil {
		cfg = NewConfiguration()
	}
	if cfg.registered {
		return nil, fmt.Errorf("mediator registration already completed")
	}

	ctx := context.Background()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	registry := mediator.NewRegistry()

	for _, catalog := range cfg.catalogs {
		if err := registerCatalog(ctx, c, registry, cfg, catalog); err != nil {
			return nil, err
		}
	}

	// Behaviors are transient and appended without the first-wins guard:
	// every configured behavior joins the pipeline, in order
	for _, factory := range cfg.behaviors {
		c.Register(mediator.BehaviorServiceType(), factory, services.Transient, false)
	}

	dispatcher := mediator.NewDispatcher(c, registry)
	c.Register(
		reflect.TypeFor[*mediator.Dispatcher](),
		func(services.Container) (any, error) { return dispatcher, nil },
		services.Singleton,
		true,
	)

	cfg.registered = true
	return dispatcher, nil
}

// registerCatalog registers one catalog's closed handlers, then its open
// generic handlers
func registerCatalog(ctx context.Context, c services.Container, registry *mediator.Registry, cfg *Configuration, catalog *TypeCatalog) error {
	for _, closed := range catalog.closed {
		if err := checkDeadline(ctx, cfg); err != nil {
			return err
		}
		closed.register(c, registry, cfg.lifetime)
	}

	for _, open := range catalog.open {
		if err := checkDeadline(ctx, cfg); err != nil {
			return err
		}
		if err := closeGeneric(ctx, c, registry, cfg, catalog, open); err != nil {
			return err
		}
	}
	return nil
}

// closeGeneric validates the limits for one open generic handler, then
// enumerates the cartesian product of per-parameter candidates and registers
// each combination that binds. Limits are proven before anything is
// registered, so a breached limit registers nothing from the handler.
func closeGeneric(ctx context.Context, c services.Container, registry *mediator.Registry, cfg *Configuration, catalog *TypeCatalog, open OpenRegistration) error {
	if open.Bind == nil {
		return fmt.Errorf("open generic handler %s in catalog %s has no bind function", open.Name, catalog.name)
	}

	limits := cfg.limits

	if limits.MaxGenericParams > 0 && len(open.Params) > limits.MaxGenericParams {
		return mediator.NewLimitExceededError(open.Name, "MaxGenericParams",
			limits.MaxGenericParams, len(open.Params))
	}

	candidates := make([][]reflect.Type, len(open.Params))
	total := 1
	for i, param := range open.Params {
		matched := catalog.candidatesFor(param.Constraint)
		if limits.MaxTypesClosingParam > 0 && len(matched) > limits.MaxTypesClosingParam {
			return mediator.NewLimitExceededError(open.Name, "MaxTypesClosingParam",
				limits.MaxTypesClosingParam, len(matched))
		}
		candidates[i] = matched
		total *= len(matched)
	}

	if limits.MaxGenericRegistrations > 0 && total > limits.MaxGenericRegistrations {
		return mediator.NewLimitExceededError(open.Name, "MaxGenericRegistrations",
			limits.MaxGenericRegistrations, total)
	}

	if len(open.Params) == 0 || total == 0 {
		return nil
	}

	combo := make([]reflect.Type, len(open.Params))
	var walk func(depth int) error
	walk = func(depth int) error {
		if err := checkDeadline(ctx, cfg); err != nil {
			return err
		}
		if depth == len(candidates) {
			closed, ok := open.Bind(append([]reflect.Type(nil), combo...))
			if !ok {
				return nil
			}
			closed.register(c, registry, cfg.lifetime)
			return nil
		}
		for _, candidate := range candidates[depth] {
			combo[depth] = candidate
			if err := walk(depth + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}

// checkDeadline maps an expired registration context to the timeout error
// kind, never to a limit error
func checkDeadline(ctx context.Context, cfg *Configuration) error {
	if ctx.Err() != nil {
		return mediator.NewRegistrationTimeoutError(cfg.timeout)
	}
	return nil
}
