// Package common holds request-agnostic assertions on the last response.
package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context these steps need.
type TestContext interface {
	LastStatus() int
	Field(path string) (any, error)
	DrainEvents(ctx context.Context) (int, error)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^(\d+) notifications? should be published$`, steps.notificationsPublished)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) statusShouldBe(_ context.Context, want int) error {
	if got := s.tc.LastStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d", want, got)
	}
	return nil
}

func (s *commonSteps) errorCodeShouldBe(_ context.Context, want string) error {
	return s.fieldShouldBe(context.Background(), "error", want)
}

func (s *commonSteps) fieldShouldBe(_ context.Context, path, want string) error {
	got, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s to be %q, got %v", path, want, got)
	}
	return nil
}

func (s *commonSteps) notificationsPublished(ctx context.Context, want int) error {
	got, err := s.tc.DrainEvents(ctx)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %d notifications, got %d", want, got)
	}
	return nil
}
