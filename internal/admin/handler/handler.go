// Package handler serves the owner-only administrative endpoints: fee and
// window setters, treasury withdrawal and the audit trail.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"together/internal/audit"
	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/platform/httputil"
	"together/pkg/requestcontext"
)

const defaultAuditLimit = 50

// Policy owns the economic parameters.
type Policy interface {
	IsOwner(caller domain.Identity) bool
	SetProposalCost(ctx context.Context, caller domain.Identity, cost domain.Amount) (models.Params, error)
	SetStatusUpdateCost(ctx context.Context, caller domain.Identity, cost domain.Amount) (models.Params, error)
	SetResponseWindow(ctx context.Context, caller domain.Identity, window time.Duration) (models.Params, error)
}

type Treasury interface {
	Balance(ctx context.Context) (domain.Amount, error)
	Withdraw(ctx context.Context, caller domain.Identity) (domain.Amount, error)
}

type AuditLog interface {
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	policy   Policy
	treasury Treasury
	audit    AuditLog
	logger   *slog.Logger
	auth     func(http.Handler) http.Handler
}

func New(policy Policy, treasury Treasury, auditLog AuditLog, logger *slog.Logger, auth func(http.Handler) http.Handler) *Handler {
	return &Handler{policy: policy, treasury: treasury, audit: auditLog, logger: logger, auth: auth}
}

// Register mounts the admin routes on r behind authentication.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		if h.auth != nil {
			r.Use(h.auth)
		}
		r.Put("/proposal-cost", h.handleSetProposalCost)
		r.Put("/status-update-cost", h.handleSetStatusUpdateCost)
		r.Put("/time-to-respond", h.handleSetTimeToRespond)
		r.Post("/withdraw", h.handleWithdraw)
		r.Get("/treasury", h.handleTreasury)
		r.Get("/audit", h.handleAudit)
	})
}

func (h *Handler) handleSetProposalCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SetCostRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.reject(ctx, w, "invalid proposal cost request", err)
		return
	}
	params, err := h.policy.SetProposalCost(ctx, requestcontext.Caller(ctx), req.Value)
	if err != nil {
		h.reject(ctx, w, "set proposal cost failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newParamsResponse(params))
}

func (h *Handler) handleSetStatusUpdateCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SetCostRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.reject(ctx, w, "invalid status update cost request", err)
		return
	}
	params, err := h.policy.SetStatusUpdateCost(ctx, requestcontext.Caller(ctx), req.Value)
	if err != nil {
		h.reject(ctx, w, "set status update cost failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newParamsResponse(params))
}

func (h *Handler) handleSetTimeToRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SetWindowRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.reject(ctx, w, "invalid time to respond request", err)
		return
	}
	params, err := h.policy.SetResponseWindow(ctx, requestcontext.Caller(ctx), time.Duration(req.Value)*time.Second)
	if err != nil {
		h.reject(ctx, w, "set time to respond failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newParamsResponse(params))
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	amount, err := h.treasury.Withdraw(ctx, requestcontext.Caller(ctx))
	if err != nil {
		h.reject(ctx, w, "withdraw failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WithdrawResponse{Withdrawn: amount})
}

func (h *Handler) handleTreasury(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.policy.IsOwner(requestcontext.Caller(ctx)) {
		h.reject(ctx, w, "treasury read denied", dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner"))
		return
	}
	balance, err := h.treasury.Balance(ctx)
	if err != nil {
		h.reject(ctx, w, "treasury read failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TreasuryResponse{Balance: balance})
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.policy.IsOwner(requestcontext.Caller(ctx)) {
		h.reject(ctx, w, "audit read denied", dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner"))
		return
	}
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	events, err := h.audit.Recent(ctx, limit)
	if err != nil {
		h.reject(ctx, w, "audit read failed", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, AuditResponse{Events: events})
}

func (h *Handler) reject(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"caller", requestcontext.Caller(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
