package behaviors

import (
	"context"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
)

// ValidationBehavior validates struct requests against their validation
// tags before the handler runs. A failing request short-circuits with
// shared.ValidationError; the handler is never invoked.
type ValidationBehavior struct {
	validate *validator.Validate
}

// NewValidationBehavior creates a validation behavior with a fresh validator
func NewValidationBehavior() *ValidationBehavior {
	return &ValidationBehavior{validate: validator.New()}
}

func (b *ValidationBehavior) Handle(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
	if !isStructRequest(request) {
		return next(ctx)
	}

	if err := b.validate.StructCtx(ctx, request); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, shared.NewValidationError(shared.FieldErrorsFrom(err))
		}
		return nil, err
	}

	return next(ctx)
}

// isStructRequest reports whether the request is a struct or a non-nil
// pointer to one; anything else is passed through unvalidated
func isStructRequest(request mediator.Request) bool {
	t := reflect.TypeOf(request)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
