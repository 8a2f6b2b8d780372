// Package handler exposes the union state machine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"together/internal/union/models"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/platform/httputil"
	"together/pkg/requestcontext"
)

// Service is the union state machine as seen by transport.
type Service interface {
	Propose(ctx context.Context, caller, to domain.Identity, payment domain.Amount) (models.Union, error)
	CancelOrResetProposal(ctx context.Context, caller domain.Identity) error
	RespondToProposal(ctx context.Context, caller domain.Identity, response models.Response, nameFrom, nameTo string) (models.Union, error)
	UpdateUnion(ctx context.Context, caller domain.Identity, newStatus models.RelationshipStatus, payment domain.Amount) (models.Union, error)
	UnionWith(ctx context.Context, identity domain.Identity) (models.Union, error)
	RegistryEntry(ctx context.Context, n domain.RegistryNumber) (models.Union, error)
	TokenIDs(ctx context.Context, identity domain.Identity) ([]domain.TokenID, error)
	TokenURI(ctx context.Context, id domain.TokenID) (string, error)
	Counters(ctx context.Context) (models.Counters, error)
}

// ParamsReader returns the current economic parameters.
type ParamsReader interface {
	Params(ctx context.Context) (models.Params, error)
}

// Handler serves the public union endpoints.
type Handler struct {
	service Service
	params  ParamsReader
	logger  *slog.Logger
	auth    func(http.Handler) http.Handler
}

// New builds the handler. auth guards the state-changing routes and must put
// the caller identity into the request context.
func New(service Service, params ParamsReader, logger *slog.Logger, auth func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, params: params, logger: logger, auth: auth}
}

// Register mounts the union routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/unions/{identity}", h.handleUnionWith)
	r.Get("/registry/{number}", h.handleRegistryEntry)
	r.Get("/tokens/owners/{identity}", h.handleTokenIDs)
	r.Get("/tokens/{id}/uri", h.handleTokenURI)
	r.Get("/params", h.handleParams)

	r.Group(func(r chi.Router) {
		if h.auth != nil {
			r.Use(h.auth)
		}
		r.Post("/proposals", h.handlePropose)
		r.Post("/proposals/cancel", h.handleCancel)
		r.Post("/proposals/respond", h.handleRespond)
		r.Post("/unions/status", h.handleUpdateStatus)
	})
}

func (h *Handler) handlePropose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ProposeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.reject(ctx, w, "invalid propose request", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.reject(ctx, w, "invalid propose request", err)
		return
	}

	u, err := h.service.Propose(ctx, requestcontext.Caller(ctx), req.To, req.Payment)
	if err != nil {
		h.reject(ctx, w, "propose failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.CancelOrResetProposal(ctx, requestcontext.Caller(ctx)); err != nil {
		h.reject(ctx, w, "cancel failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RespondRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.reject(ctx, w, "invalid respond request", err)
		return
	}

	u, err := h.service.RespondToProposal(ctx, requestcontext.Caller(ctx), req.Response, req.NameFrom, req.NameTo)
	if err != nil {
		h.reject(ctx, w, "respond failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.reject(ctx, w, "invalid status request", err)
		return
	}

	u, err := h.service.UpdateUnion(ctx, requestcontext.Caller(ctx), req.Status, req.Payment)
	if err != nil {
		h.reject(ctx, w, "update union failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUnionWith(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := h.service.UnionWith(ctx, identity)
	if err != nil {
		h.reject(ctx, w, "union lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleRegistryEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := domain.ParseRegistryNumber(chi.URLParam(r, "number"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := h.service.RegistryEntry(ctx, n)
	if err != nil {
		h.reject(ctx, w, "registry lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleTokenIDs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ids, err := h.service.TokenIDs(ctx, identity)
	if err != nil {
		h.reject(ctx, w, "token lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenIDsResponse{Identity: identity, TokenIDs: ids})
}

func (h *Handler) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseTokenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	uri, err := h.service.TokenURI(ctx, id)
	if err != nil {
		h.reject(ctx, w, "token uri lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenURIResponse{TokenID: id, URI: uri})
}

func (h *Handler) handleParams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := h.params.Params(ctx)
	if err != nil {
		h.reject(ctx, w, "params lookup failed", err)
		return
	}
	counters, err := h.service.Counters(ctx)
	if err != nil {
		h.reject(ctx, w, "counters lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newParamsResponse(params, counters))
}

// reject logs at a level matching the failure and writes the error envelope.
func (h *Handler) reject(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.CategoryOf(dErrors.CodeOf(err)) == dErrors.CategoryInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
