package handler

import (
	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
)

// ProposeRequest carries the counterparty and the attached payment.
type ProposeRequest struct {
	To      domain.Identity `json:"to"`
	Payment domain.Amount   `json:"payment"`
}

func (r ProposeRequest) Validate() error {
	if r.To.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "to is required")
	}
	return nil
}

type RespondRequest struct {
	Response models.Response `json:"response"`
	NameFrom string          `json:"name_from"`
	NameTo   string          `json:"name_to"`
}

type UpdateStatusRequest struct {
	Status  models.RelationshipStatus `json:"status"`
	Payment domain.Amount             `json:"payment"`
}

type TokenIDsResponse struct {
	Identity domain.Identity  `json:"identity"`
	TokenIDs []domain.TokenID `json:"token_ids"`
}

type TokenURIResponse struct {
	TokenID domain.TokenID `json:"token_id"`
	URI     string         `json:"uri"`
}

// ParamsResponse is the public view of the economic parameters.
type ParamsResponse struct {
	Owner                 domain.Identity `json:"owner"`
	ProposalCost          domain.Amount   `json:"proposal_cost"`
	UpdateStatusCost      domain.Amount   `json:"update_status_cost"`
	ResponseWindowSeconds int64           `json:"response_window_seconds"`
	ProposalsCounter      uint64          `json:"proposals_counter"`
	RegistryCounter       uint64          `json:"registry_counter"`
}

func newParamsResponse(p models.Params, c models.Counters) ParamsResponse {
	return ParamsResponse{
		Owner:                 p.Owner,
		ProposalCost:          p.ProposalCost,
		UpdateStatusCost:      p.UpdateStatusCost,
		ResponseWindowSeconds: int64(p.ResponseWindow.Seconds()),
		ProposalsCounter:      c.Proposals,
		RegistryCounter:       c.Registry,
	}
}
