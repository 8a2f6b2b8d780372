package audit

import (
	"time"

	"together/pkg/domain"
)

// Action names an administrative action.
type Action string

const (
	ActionProposalCostChanged     Action = "proposal_cost_changed"
	ActionStatusUpdateCostChanged Action = "status_update_cost_changed"
	ActionResponseWindowChanged   Action = "response_window_changed"
	ActionTreasuryWithdrawn       Action = "treasury_withdrawn"
)

// Decision records whether the action was carried out.
type Decision string

const (
	DecisionGranted Decision = "granted"
	DecisionDenied  Decision = "denied"
	DecisionFailed  Decision = "failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Detail carries the new
// value or the withdrawn amount.
type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	Actor     domain.Identity `json:"actor"`
	Action    Action          `json:"action"`
	Decision  Decision        `json:"decision"`
	Detail    string          `json:"detail,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}
