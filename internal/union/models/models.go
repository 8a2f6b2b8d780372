package models

import (
	"time"

	"github.com/google/uuid"

	"together/pkg/domain"
)

// ProposalStatus tracks a proposal's resolution. After acceptance it mirrors
// the last status update applied to the union.
type ProposalStatus uint8

const (
	ProposalNone      ProposalStatus = 0
	ProposalPending   ProposalStatus = 1
	ProposalResponded ProposalStatus = 2
	ProposalCancelled ProposalStatus = 3
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalNone:
		return "none"
	case ProposalPending:
		return "pending"
	case ProposalResponded:
		return "responded"
	case ProposalCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RelationshipStatus is the state of an accepted union. Zero means no union yet.
type RelationshipStatus uint8

const (
	RelationshipNone RelationshipStatus = 0
	United           RelationshipStatus = 1
	Paused           RelationshipStatus = 2
	Separated        RelationshipStatus = 3
)

func (s RelationshipStatus) String() string {
	switch s {
	case RelationshipNone:
		return "none"
	case United:
		return "united"
	case Paused:
		return "paused"
	case Separated:
		return "separated"
	default:
		return "unknown"
	}
}

// Response is the counterparty's answer to a proposal.
type Response uint8

const (
	ResponseAccept  Response = 2
	ResponseDecline Response = 3
)

// Valid reports whether r is accept or decline.
func (r Response) Valid() bool {
	return r == ResponseAccept || r == ResponseDecline
}

// ValidUpdate reports whether s is a status the proposer may move a union to.
func ValidUpdate(s RelationshipStatus) bool {
	return s == Paused || s == Separated
}

// Union is the record shared by both participants. It starts life as a
// pending proposal and, once accepted, tracks the relationship status.
type Union struct {
	// ID is the backing record id; both participants' keys resolve to it.
	ID                 uint64                `json:"-"`
	From               domain.Identity       `json:"from"`
	To                 domain.Identity       `json:"to"`
	ProposalNumber     domain.ProposalNumber `json:"proposal_number"`
	RegistryNumber     domain.RegistryNumber `json:"registry_number"`
	ProposalStatus     ProposalStatus        `json:"proposal_status"`
	RelationshipStatus RelationshipStatus    `json:"relationship_status"`
	Expired            bool                  `json:"expired"`
	NameFrom           string                `json:"name_from"`
	NameTo             string                `json:"name_to"`
	CreatedAt          time.Time             `json:"created_at"`
	UnitedAt           time.Time             `json:"united_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// IsZero reports whether u is the "no union" value.
func (u Union) IsZero() bool {
	return u.ProposalStatus == ProposalNone
}

// IsPending reports whether u is an unresolved proposal.
func (u Union) IsPending() bool {
	return u.ProposalStatus == ProposalPending
}

// IsUnion reports whether the proposal was accepted.
func (u Union) IsUnion() bool {
	return u.RelationshipStatus != RelationshipNone
}

// Counterparty returns the other participant, or the zero identity if id is
// not part of u.
func (u Union) Counterparty(id domain.Identity) domain.Identity {
	switch id {
	case u.From:
		return u.To
	case u.To:
		return u.From
	default:
		return ""
	}
}

// IsStale reports whether a pending proposal has outlived the response window.
// Staleness is informational; nothing expires proposals automatically.
func (u Union) IsStale(now time.Time, window time.Duration) bool {
	return u.IsPending() && window > 0 && now.Sub(u.CreatedAt) > window
}

// Counters are the ledger-wide sequence counters.
type Counters struct {
	Proposals uint64 `json:"proposals_counter"`
	Registry  uint64 `json:"registry_counter"`
}

// Params are the economic parameters read by every state-changing operation.
type Params struct {
	Owner            domain.Identity `json:"owner"`
	ProposalCost     domain.Amount   `json:"proposal_cost"`
	UpdateStatusCost domain.Amount   `json:"update_status_cost"`
	ResponseWindow   time.Duration   `json:"-"`
}

// EventKind names a notification.
type EventKind string

const (
	EventProposalSubmitted  EventKind = "ProposalSubmitted"
	EventProposalCancelled  EventKind = "ProposalCancelled"
	EventProposalResponded  EventKind = "ProposalResponded"
	EventGotUnited          EventKind = "GotUnited"
	EventUnionStatusUpdated EventKind = "UnionStatusUpdated"
)

// Event is a notification recorded in the outbox by a committed transition.
type Event struct {
	// Seq orders the outbox; assigned by the ledger.
	Seq            uint64                 `json:"seq"`
	ID             uuid.UUID              `json:"id"`
	Kind           EventKind              `json:"kind"`
	From           domain.Identity        `json:"from"`
	To             domain.Identity        `json:"to"`
	Response       Response               `json:"response,omitempty"`
	Status         RelationshipStatus     `json:"status,omitempty"`
	RegistryNumber *domain.RegistryNumber `json:"registry_number,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

func NewProposalSubmittedEvent(to, from domain.Identity, at time.Time) Event {
	return Event{ID: uuid.New(), Kind: EventProposalSubmitted, From: from, To: to, Timestamp: at}
}

func NewProposalCancelledEvent(to, from domain.Identity, at time.Time) Event {
	return Event{ID: uuid.New(), Kind: EventProposalCancelled, From: from, To: to, Timestamp: at}
}

func NewProposalRespondedEvent(to, from domain.Identity, response Response, at time.Time) Event {
	return Event{ID: uuid.New(), Kind: EventProposalResponded, From: from, To: to, Response: response, Timestamp: at}
}

func NewGotUnitedEvent(from, to domain.Identity, at time.Time, registryNumber domain.RegistryNumber) Event {
	return Event{ID: uuid.New(), Kind: EventGotUnited, From: from, To: to, RegistryNumber: &registryNumber, Timestamp: at}
}

func NewUnionStatusUpdatedEvent(from, to domain.Identity, status RelationshipStatus, at time.Time) Event {
	return Event{ID: uuid.New(), Kind: EventUnionStatusUpdated, From: from, To: to, Status: status, Timestamp: at}
}
