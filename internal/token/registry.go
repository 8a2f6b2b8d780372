// Package token is the minting bridge: a token registry that mints one
// commemorative token per call for a single authorized minter.
package token

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/platform/sentinel"
	"together/pkg/requestcontext"
)

// Store persists token ownership. Mint assigns ids sequentially from 0.
type Store interface {
	Mint(ctx context.Context, owner domain.Identity, at time.Time) (domain.TokenID, error)
	OwnerOf(ctx context.Context, id domain.TokenID) (domain.Identity, error)
}

// Registry mints tokens on behalf of the one identity installed at
// construction and renders token metadata URIs.
type Registry struct {
	store   Store
	minter  domain.Identity
	baseURI string
	logger  *slog.Logger
	clock   func() time.Time
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// NewRegistry installs minter as the only identity allowed to mint.
func NewRegistry(store Store, minter domain.Identity, baseURI string, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, errors.New("token store is required")
	}
	if minter.IsZero() {
		return nil, errors.New("minter identity is required")
	}
	r := &Registry{
		store:   store,
		minter:  minter,
		baseURI: baseURI,
		logger:  slog.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MintTo mints the next token id to to. Only the installed minter may call it.
func (r *Registry) MintTo(ctx context.Context, caller, to domain.Identity) (domain.TokenID, error) {
	if caller != r.minter {
		r.logger.WarnContext(ctx, "mint rejected for unauthorized caller",
			"caller", caller,
			"request_id", requestcontext.RequestID(ctx),
		)
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller is not the registered minter")
	}
	if to.IsZero() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "mint recipient is required")
	}
	id, err := r.store.Mint(ctx, to, r.clock())
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint token")
	}
	r.logger.InfoContext(ctx, "token minted",
		"token_id", id,
		"owner", to,
		"request_id", requestcontext.RequestID(ctx),
	)
	return id, nil
}

// URI returns the metadata URI of a minted token.
func (r *Registry) URI(ctx context.Context, id domain.TokenID) (string, error) {
	if _, err := r.OwnerOf(ctx, id); err != nil {
		return "", err
	}
	return r.baseURI + id.String(), nil
}

// OwnerOf returns the identity the token was minted to.
func (r *Registry) OwnerOf(ctx context.Context, id domain.TokenID) (domain.Identity, error) {
	owner, err := r.store.OwnerOf(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.New(dErrors.CodeUnknownToken, "token "+id.String()+" does not exist")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up token")
	}
	return owner, nil
}
