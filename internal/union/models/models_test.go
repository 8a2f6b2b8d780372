package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"together/pkg/domain"
)

var (
	alice = domain.MustIdentity("0x00000000000000000000000000000000000a11ce")
	bob   = domain.MustIdentity("0x0000000000000000000000000000000000000b0b")
)

func TestUnion_IsStale(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	u := Union{From: alice, To: bob, ProposalStatus: ProposalPending, CreatedAt: created}

	assert.False(t, u.IsStale(created.Add(5*time.Minute), 5*time.Minute), "boundary is not stale")
	assert.True(t, u.IsStale(created.Add(5*time.Minute+time.Second), 5*time.Minute))

	u.ProposalStatus = ProposalResponded
	assert.False(t, u.IsStale(created.Add(time.Hour), 5*time.Minute), "resolved proposals never go stale")
}

func TestUnion_ZeroValue(t *testing.T) {
	var u Union
	assert.True(t, u.IsZero())
	assert.False(t, u.IsPending())
	assert.False(t, u.IsUnion())
}

func TestUnion_Counterparty(t *testing.T) {
	u := Union{From: alice, To: bob}
	assert.Equal(t, bob, u.Counterparty(alice))
	assert.Equal(t, alice, u.Counterparty(bob))
	assert.True(t, u.Counterparty(domain.MustIdentity("0x0000000000000000000000000000000000000ccc")).IsZero())
}

func TestResponseAndStatusValidation(t *testing.T) {
	assert.True(t, ResponseAccept.Valid())
	assert.True(t, ResponseDecline.Valid())
	assert.False(t, Response(1).Valid())
	assert.False(t, Response(4).Valid())

	assert.True(t, ValidUpdate(Paused))
	assert.True(t, ValidUpdate(Separated))
	assert.False(t, ValidUpdate(United))
	assert.False(t, ValidUpdate(RelationshipNone))
}

func TestGotUnited_CarriesRegistryNumber(t *testing.T) {
	at := time.Now()
	e := NewGotUnitedEvent(alice, bob, at, 7)
	assert.Equal(t, EventGotUnited, e.Kind)
	if assert.NotNil(t, e.RegistryNumber) {
		assert.Equal(t, domain.RegistryNumber(7), *e.RegistryNumber)
	}
	assert.Equal(t, at, e.Timestamp)
}

func TestProposalEvents_KindsAndParties(t *testing.T) {
	at := time.Now()

	cancelled := NewProposalCancelledEvent(bob, alice, at)
	assert.Equal(t, EventProposalCancelled, cancelled.Kind)
	assert.Equal(t, alice, cancelled.From)
	assert.Equal(t, bob, cancelled.To)

	responded := NewProposalRespondedEvent(bob, alice, ResponseDecline, at)
	assert.Equal(t, EventProposalResponded, responded.Kind)
	assert.Equal(t, ResponseDecline, responded.Response)
	assert.NotEqual(t, cancelled.ID, responded.ID)

	// statuses share the names and stay numeric
	assert.Equal(t, ProposalStatus(2), ProposalResponded)
	assert.Equal(t, ProposalStatus(3), ProposalCancelled)
}
