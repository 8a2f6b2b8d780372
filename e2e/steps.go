package e2e

import (
	"github.com/cucumber/godog"

	"together/e2e/steps/admin"
	"together/e2e/steps/common"
	"together/e2e/steps/union"
)

// RegisterSteps registers all step definitions from modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	union.RegisterSteps(ctx, tc)
	admin.RegisterSteps(ctx, tc)
}
