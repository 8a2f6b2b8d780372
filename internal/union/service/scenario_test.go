package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"together/internal/ledger"
	"together/internal/names"
	"together/internal/policy"
	"together/internal/token"
	"together/internal/union/models"
	"together/internal/union/service"
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	"together/pkg/testutil"
)

var (
	a      = domain.MustIdentity("0x1000000000000000000000000000000000000001")
	b      = domain.MustIdentity("0x2000000000000000000000000000000000000002")
	c      = domain.MustIdentity("0x3000000000000000000000000000000000000003")
	owner  = domain.MustIdentity("0x00000000000000000000000000000000000000ff")
	bridge = domain.MustIdentity("0x000000000000000000000000000000000000a11a")
)

type world struct {
	ledger  *ledger.InMemory
	tokens  *token.InMemoryStore
	service *service.Service
}

func newWorld(t *testing.T) world {
	t.Helper()
	ctx := context.Background()
	l := ledger.NewInMemory()
	p, err := policy.New(l, owner)
	require.NoError(t, err)
	require.NoError(t, p.Seed(ctx, models.Params{
		ProposalCost:     domain.MustEther("0.01"),
		UpdateStatusCost: domain.MustEther("0.005"),
		ResponseWindow:   5 * time.Minute,
	}))

	tokens := token.NewInMemoryStore()
	registry, err := token.NewRegistry(tokens, bridge, "ipfs://together/")
	require.NoError(t, err)
	svc, err := service.New(l, names.NewStatic(a, b, c), registry, bridge)
	require.NoError(t, err)
	return world{ledger: l, tokens: tokens, service: svc}
}

func TestDeclineThenProposeAgain(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	testutil.Given(t, "A proposed to B with the exact cost", func(t *testing.T) {
		_, err := w.service.Propose(ctx, a, b, domain.MustEther("0.01"))
		require.NoError(t, err)
		counters, err := w.service.Counters(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), counters.Proposals)
	})

	testutil.When(t, "B declines", func(t *testing.T) {
		_, err := w.service.RespondToProposal(ctx, b, models.ResponseDecline, "", "")
		require.NoError(t, err)
	})

	testutil.Then(t, "no union is registered and A may propose again", func(t *testing.T) {
		counters, err := w.service.Counters(ctx)
		require.NoError(t, err)
		assert.Zero(t, counters.Registry)

		u, err := w.service.Propose(ctx, a, b, domain.MustEther("0.01"))
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalNumber(1), u.ProposalNumber)
	})
}

func TestUnionLifecycle(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	testutil.Given(t, "A proposed to B", func(t *testing.T) {
		_, err := w.service.Propose(ctx, a, b, domain.MustEther("0.01"))
		require.NoError(t, err)
	})

	testutil.When(t, "B accepts", func(t *testing.T) {
		_, err := w.service.RespondToProposal(ctx, b, models.ResponseAccept, "a.eth", "b.eth")
		require.NoError(t, err)
	})

	testutil.Then(t, "each party holds exactly one token and the union is registered", func(t *testing.T) {
		counters, err := w.service.Counters(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), counters.Registry)

		bIDs, err := w.service.TokenIDs(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []domain.TokenID{0}, bIDs)
		aIDs, err := w.service.TokenIDs(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, []domain.TokenID{1}, aIDs)

		holder, err := w.tokens.OwnerOf(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, b, holder)

		uri, err := w.service.TokenURI(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://together/1", uri)

		u, err := w.service.UnionWith(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, models.United, u.RelationshipStatus)
	})

	testutil.When(t, "A separates", func(t *testing.T) {
		u, err := w.service.UpdateUnion(ctx, a, models.Separated, domain.MustEther("0.005"))
		require.NoError(t, err)
		assert.True(t, u.Expired)
	})

	testutil.Then(t, "further updates fail with AlreadySeparated", func(t *testing.T) {
		_, err := w.service.UpdateUnion(ctx, a, models.Paused, domain.MustEther("0.005"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadySeparated))
	})

	testutil.And(t, "unknown token uris fail", func(t *testing.T) {
		_, err := w.service.TokenURI(ctx, 42)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownToken))
	})
}

func TestMintingIsCapabilityGated(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	registry, err := token.NewRegistry(w.tokens, bridge, "ipfs://together/")
	require.NoError(t, err)

	_, err = registry.MintTo(ctx, a, a)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenIDsAcrossTwoUnions(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	testutil.Given(t, "A was united with B and then separated", func(t *testing.T) {
		_, err := w.service.Propose(ctx, a, b, domain.MustEther("0.01"))
		require.NoError(t, err)
		_, err = w.service.RespondToProposal(ctx, b, models.ResponseAccept, "a.eth", "b.eth")
		require.NoError(t, err)
		u, err := w.service.UpdateUnion(ctx, a, models.Separated, domain.MustEther("0.005"))
		require.NoError(t, err)
		assert.True(t, u.Expired)
	})

	testutil.When(t, "A proposes to C and C accepts", func(t *testing.T) {
		_, err := w.service.Propose(ctx, a, c, domain.MustEther("0.01"))
		require.NoError(t, err)
		_, err = w.service.RespondToProposal(ctx, c, models.ResponseAccept, "a.eth", "c.eth")
		require.NoError(t, err)
	})

	testutil.Then(t, "A holds one token per union in mint order", func(t *testing.T) {
		aIDs, err := w.service.TokenIDs(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, []domain.TokenID{1, 3}, aIDs)

		bIDs, err := w.service.TokenIDs(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []domain.TokenID{0}, bIDs)

		cIDs, err := w.service.TokenIDs(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, []domain.TokenID{2}, cIDs)
	})

	testutil.And(t, "both unions stay in the registry", func(t *testing.T) {
		counters, err := w.service.Counters(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), counters.Registry)

		u, err := w.service.UnionWith(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, models.United, u.RelationshipStatus)
		assert.Equal(t, a, u.From)
	})
}
