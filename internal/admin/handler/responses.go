package handler

import (
	"together/internal/audit"
	"together/internal/union/models"
	"together/pkg/domain"
)

type SetCostRequest struct {
	Value domain.Amount `json:"value"`
}

// SetWindowRequest carries the response window in seconds.
type SetWindowRequest struct {
	Value int64 `json:"value"`
}

type ParamsResponse struct {
	Owner                 domain.Identity `json:"owner"`
	ProposalCost          domain.Amount   `json:"proposal_cost"`
	UpdateStatusCost      domain.Amount   `json:"update_status_cost"`
	ResponseWindowSeconds int64           `json:"response_window_seconds"`
}

func newParamsResponse(p models.Params) ParamsResponse {
	return ParamsResponse{
		Owner:                 p.Owner,
		ProposalCost:          p.ProposalCost,
		UpdateStatusCost:      p.UpdateStatusCost,
		ResponseWindowSeconds: int64(p.ResponseWindow.Seconds()),
	}
}

type WithdrawResponse struct {
	Withdrawn domain.Amount `json:"withdrawn"`
}

type TreasuryResponse struct {
	Balance domain.Amount `json:"balance"`
}

type AuditResponse struct {
	Events []audit.Event `json:"events"`
}
