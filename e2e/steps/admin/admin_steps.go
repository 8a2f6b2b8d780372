// Package admin drives the owner-only endpoints.
package admin

import (
	"context"
	"net/http"

	"github.com/cucumber/godog"
)

type TestContext interface {
	Request(ctx context.Context, method, path, as string, body any) error
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}
	ctx.Step(`^"([^"]*)" sets the proposal cost to "([^"]*)"$`, steps.setProposalCost)
	ctx.Step(`^"([^"]*)" sets the status update cost to "([^"]*)"$`, steps.setStatusUpdateCost)
	ctx.Step(`^"([^"]*)" sets the time to respond to (\d+) seconds$`, steps.setTimeToRespond)
	ctx.Step(`^"([^"]*)" withdraws the treasury$`, steps.withdraw)
	ctx.Step(`^"([^"]*)" reads the audit trail$`, steps.readAudit)
	ctx.Step(`^I read the parameters$`, steps.readParams)
}

type adminSteps struct {
	tc TestContext
}

func (s *adminSteps) setProposalCost(ctx context.Context, as, value string) error {
	return s.tc.Request(ctx, http.MethodPut, "/admin/proposal-cost", as, map[string]string{"value": value})
}

func (s *adminSteps) setStatusUpdateCost(ctx context.Context, as, value string) error {
	return s.tc.Request(ctx, http.MethodPut, "/admin/status-update-cost", as, map[string]string{"value": value})
}

func (s *adminSteps) setTimeToRespond(ctx context.Context, as string, seconds int) error {
	return s.tc.Request(ctx, http.MethodPut, "/admin/time-to-respond", as, map[string]int{"value": seconds})
}

func (s *adminSteps) withdraw(ctx context.Context, as string) error {
	return s.tc.Request(ctx, http.MethodPost, "/admin/withdraw", as, nil)
}

func (s *adminSteps) readAudit(ctx context.Context, as string) error {
	return s.tc.Request(ctx, http.MethodGet, "/admin/audit", as, nil)
}

func (s *adminSteps) readParams(ctx context.Context) error {
	return s.tc.Request(ctx, http.MethodGet, "/params", "", nil)
}
