// Package union drives the proposal and union endpoints.
package union

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"

	"together/pkg/domain"
)

type TestContext interface {
	Request(ctx context.Context, method, path, as string, body any) error
	Identity(name string) (domain.Identity, error)
	LastStatus() int
	Field(path string) (any, error)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &unionSteps{tc: tc}
	ctx.Step(`^"([^"]*)" proposes to "([^"]*)" paying "([^"]*)"$`, steps.propose)
	ctx.Step(`^"([^"]*)" proposed to "([^"]*)"$`, steps.proposed)
	ctx.Step(`^"([^"]*)" proposes to "([^"]*)" paying "([^"]*)" without authentication$`, steps.proposeAnonymously)
	ctx.Step(`^"([^"]*)" cancels the proposal$`, steps.cancel)
	ctx.Step(`^"([^"]*)" responds with (\d+)$`, steps.respond)
	ctx.Step(`^"([^"]*)" accepts as "([^"]*)" and "([^"]*)"$`, steps.acceptWithNames)
	ctx.Step(`^"([^"]*)" sets the union status to (\d+) paying "([^"]*)"$`, steps.updateStatus)
	ctx.Step(`^I look up the union of "([^"]*)"$`, steps.lookupUnion)
	ctx.Step(`^I look up registry entry (\d+)$`, steps.lookupRegistry)
	ctx.Step(`^"([^"]*)" should hold (\d+) tokens?$`, steps.shouldHoldTokens)
	ctx.Step(`^the uri of token (\d+) should be "([^"]*)"$`, steps.tokenURIShouldBe)
}

type unionSteps struct {
	tc TestContext
}

func (s *unionSteps) propose(ctx context.Context, from, to, payment string) error {
	id, err := s.tc.Identity(to)
	if err != nil {
		return err
	}
	return s.tc.Request(ctx, http.MethodPost, "/proposals", from, map[string]string{"to": id.String(), "payment": payment})
}

func (s *unionSteps) proposed(ctx context.Context, from, to string) error {
	if err := s.propose(ctx, from, to, "0.01"); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusCreated {
		return fmt.Errorf("proposal from %s to %s failed with %d", from, to, s.tc.LastStatus())
	}
	return nil
}

func (s *unionSteps) proposeAnonymously(ctx context.Context, _, to, payment string) error {
	id, err := s.tc.Identity(to)
	if err != nil {
		return err
	}
	return s.tc.Request(ctx, http.MethodPost, "/proposals", "", map[string]string{"to": id.String(), "payment": payment})
}

func (s *unionSteps) cancel(ctx context.Context, as string) error {
	return s.tc.Request(ctx, http.MethodPost, "/proposals/cancel", as, nil)
}

func (s *unionSteps) respond(ctx context.Context, as string, response int) error {
	return s.tc.Request(ctx, http.MethodPost, "/proposals/respond", as, map[string]any{"response": response})
}

func (s *unionSteps) acceptWithNames(ctx context.Context, as, nameFrom, nameTo string) error {
	return s.tc.Request(ctx, http.MethodPost, "/proposals/respond", as, map[string]any{
		"response":  2,
		"name_from": nameFrom,
		"name_to":   nameTo,
	})
}

func (s *unionSteps) updateStatus(ctx context.Context, as string, status int, payment string) error {
	return s.tc.Request(ctx, http.MethodPost, "/unions/status", as, map[string]any{"status": status, "payment": payment})
}

func (s *unionSteps) lookupUnion(ctx context.Context, name string) error {
	id, err := s.tc.Identity(name)
	if err != nil {
		return err
	}
	return s.tc.Request(ctx, http.MethodGet, "/unions/"+id.String(), "", nil)
}

func (s *unionSteps) lookupRegistry(ctx context.Context, n int) error {
	return s.tc.Request(ctx, http.MethodGet, fmt.Sprintf("/registry/%d", n), "", nil)
}

func (s *unionSteps) shouldHoldTokens(ctx context.Context, name string, want int) error {
	id, err := s.tc.Identity(name)
	if err != nil {
		return err
	}
	if err := s.tc.Request(ctx, http.MethodGet, "/tokens/owners/"+id.String(), "", nil); err != nil {
		return err
	}
	raw, err := s.tc.Field("token_ids")
	if err != nil {
		return err
	}
	ids, ok := raw.([]any)
	if !ok || len(ids) != want {
		return fmt.Errorf("expected %s to hold %d tokens, got %v", name, want, raw)
	}
	return nil
}

func (s *unionSteps) tokenURIShouldBe(ctx context.Context, id int, want string) error {
	if err := s.tc.Request(ctx, http.MethodGet, fmt.Sprintf("/tokens/%d/uri", id), "", nil); err != nil {
		return err
	}
	got, err := s.tc.Field("uri")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected uri %q, got %v", want, got)
	}
	return nil
}
