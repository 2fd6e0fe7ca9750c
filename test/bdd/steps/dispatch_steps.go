package steps

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/mediator-go/internal/application/behaviors"
	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/application/registrar"
	"github.com/andrescamacho/mediator-go/internal/application/services"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/test/helpers"
)

type dispatchContext struct {
	dispatcher *mediator.Dispatcher
	notify     *helpers.NotifyHandler

	result any
	err    error

	behaviorLog []string
	logMu       sync.Mutex
}

func (dc *dispatchContext) reset() {
	dc.dispatcher = nil
	dc.notify = nil
	dc.result = nil
	dc.err = nil
	dc.behaviorLog = nil
}

func (dc *dispatchContext) buildMediator(opts ...registrar.Option) error {
	dc.notify = &helpers.NotifyHandler{}
	opts = append([]registrar.Option{
		registrar.WithCatalogs(helpers.TestCatalog(dc.notify)),
	}, opts...)

	dispatcher, err := registrar.AddMediator(services.NewContainer(), registrar.NewConfiguration(opts...))
	if err != nil {
		return fmt.Errorf("mediator registration failed: %w", err)
	}
	dc.dispatcher = dispatcher
	return nil
}

func (dc *dispatchContext) recordingBehavior(name string) services.Factory {
	return func(services.Container) (any, error) {
		return mediator.BehaviorFunc(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			dc.logMu.Lock()
			dc.behaviorLog = append(dc.behaviorLog, name+":before")
			dc.logMu.Unlock()

			response, err := next(ctx)

			dc.logMu.Lock()
			dc.behaviorLog = append(dc.behaviorLog, name+":after")
			dc.logMu.Unlock()
			return response, err
		}), nil
	}
}

// Given steps

func (dc *dispatchContext) aMediatorWithFixtureHandlers() error {
	return dc.buildMediator()
}

func (dc *dispatchContext) aMediatorWithBehaviors(first, second string) error {
	return dc.buildMediator(
		registrar.WithBehavior(dc.recordingBehavior(first)),
		registrar.WithBehavior(dc.recordingBehavior(second)),
	)
}

func (dc *dispatchContext) aMediatorWithValidationBehavior() error {
	return dc.buildMediator(
		registrar.WithBehavior(func(services.Container) (any, error) {
			return behaviors.NewValidationBehavior(), nil
		}),
	)
}

// When steps

func (dc *dispatchContext) iSendAPing(message string) error {
	dc.result, dc.err = mediator.Send[string](context.Background(), dc.dispatcher, &helpers.PingCommand{Message: message})
	return nil
}

func (dc *dispatchContext) iSendAPingWithEmptyMessage() error {
	return dc.iSendAPing("")
}

func (dc *dispatchContext) iSendNotifications(count int, text string) error {
	for i := 0; i < count; i++ {
		if err := mediator.SendVoid(context.Background(), dc.dispatcher, &helpers.NotifyCommand{Text: text}); err != nil {
			return err
		}
	}
	return nil
}

func (dc *dispatchContext) iDynamicallySendAPing(message string) error {
	dc.result, dc.err = dc.dispatcher.Send(context.Background(), &helpers.PingCommand{Message: message})
	return nil
}

func (dc *dispatchContext) iSendAWithdrawal(amount int) error {
	dc.result, dc.err = mediator.Send[int](context.Background(), dc.dispatcher, &helpers.WithdrawCommand{Amount: amount})
	return nil
}

type unregisteredRequest struct{}

func (dc *dispatchContext) iDynamicallySendAnUnregisteredRequest() error {
	dc.result, dc.err = dc.dispatcher.Send(context.Background(), &unregisteredRequest{})
	return nil
}

// Then steps

func (dc *dispatchContext) theResultShouldBe(expected string) error {
	if dc.err != nil {
		return fmt.Errorf("expected success, got error: %w", dc.err)
	}
	if dc.result != expected {
		return fmt.Errorf("expected result %q, got %v", expected, dc.result)
	}
	return nil
}

func (dc *dispatchContext) theNotifyHandlerShouldHaveDelivered(count int) error {
	delivered := int(atomic.LoadInt32(&dc.notify.Delivered))
	if delivered != count {
		return fmt.Errorf("expected %d deliveries, got %d", count, delivered)
	}
	return nil
}

func (dc *dispatchContext) theDispatchShouldFailWithMessage(message string) error {
	if dc.err == nil {
		return fmt.Errorf("expected dispatch to fail, got result %v", dc.result)
	}
	if dc.err.Error() != message {
		return fmt.Errorf("expected error %q, got %q", message, dc.err.Error())
	}
	return nil
}

func (dc *dispatchContext) theDispatchShouldFailBecauseRequestTypeUnknown() error {
	var shapeErr *mediator.RequestShapeError
	if !errors.As(dc.err, &shapeErr) {
		return fmt.Errorf("expected a request shape error, got %v", dc.err)
	}
	return nil
}

func (dc *dispatchContext) theBehaviorLogShouldBe(table *godog.Table) error {
	var expected []string
	for _, row := range table.Rows {
		expected = append(expected, row.Cells[0].Value)
	}

	dc.logMu.Lock()
	defer dc.logMu.Unlock()
	if len(dc.behaviorLog) != len(expected) {
		return fmt.Errorf("expected %d log entries, got %d: %v", len(expected), len(dc.behaviorLog), dc.behaviorLog)
	}
	for i := range expected {
		if dc.behaviorLog[i] != expected[i] {
			return fmt.Errorf("log entry %d: expected %q, got %q", i, expected[i], dc.behaviorLog[i])
		}
	}
	return nil
}

func (dc *dispatchContext) theDispatchShouldFailWithValidationErrorOnField(field string) error {
	var validationErr *shared.ValidationError
	if !errors.As(dc.err, &validationErr) {
		return fmt.Errorf("expected a validation error, got %v", dc.err)
	}
	for _, f := range validationErr.Fields {
		if f.Field == field {
			return nil
		}
	}
	return fmt.Errorf("expected a failure on field %q, got %v", field, validationErr.Fields)
}

// InitializeDispatchScenario registers the dispatch step definitions
func InitializeDispatchScenario(sc *godog.ScenarioContext) {
	dc := &dispatchContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		dc.reset()
		return ctx, nil
	})

	sc.Step(`^a mediator with the fixture handlers registered$`, dc.aMediatorWithFixtureHandlers)
	sc.Step(`^a mediator with behaviors "([^"]*)" and "([^"]*)" registered$`, dc.aMediatorWithBehaviors)
	sc.Step(`^a mediator with the validation behavior registered$`, dc.aMediatorWithValidationBehavior)

	sc.Step(`^I send a ping with message "([^"]*)"$`, dc.iSendAPing)
	sc.Step(`^I send a ping with an empty message$`, dc.iSendAPingWithEmptyMessage)
	sc.Step(`^I send (\d+) notifications with text "([^"]*)"$`, dc.iSendNotifications)
	sc.Step(`^I dynamically send a ping with message "([^"]*)"$`, dc.iDynamicallySendAPing)
	sc.Step(`^I send a withdrawal of (\d+) credits$`, dc.iSendAWithdrawal)
	sc.Step(`^I dynamically send an unregistered request$`, dc.iDynamicallySendAnUnregisteredRequest)

	sc.Step(`^the result should be "([^"]*)"$`, dc.theResultShouldBe)
	sc.Step(`^the notify handler should have delivered (\d+) notifications?$`, dc.theNotifyHandlerShouldHaveDelivered)
	sc.Step(`^the dispatch should fail with message "([^"]*)"$`, dc.theDispatchShouldFailWithMessage)
	sc.Step(`^the dispatch should fail because the request type is unknown$`, dc.theDispatchShouldFailBecauseRequestTypeUnknown)
	sc.Step(`^the behavior log should be:$`, dc.theBehaviorLogShouldBe)
	sc.Step(`^the dispatch should fail with a validation error on field "([^"]*)"$`, dc.theDispatchShouldFailWithValidationErrorOnField)
}
