package domain

import (
	"strconv"

	dErrors "together/pkg/domain-errors"
)

// TokenID identifies a commemorative token. Ids are assigned sequentially
// from 0 in mint order.
type TokenID uint64

// ProposalNumber is the ledger-wide sequence number assigned at proposal
// creation.
type ProposalNumber uint64

// RegistryNumber is the ledger-wide sequence number assigned when a proposal
// is accepted.
type RegistryNumber uint64

// ParseTokenID parses a decimal token id.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id must be a non-negative integer")
	}
	return TokenID(n), nil
}

// ParseRegistryNumber parses a decimal registry number.
func ParseRegistryNumber(s string) (RegistryNumber, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "registry number must be a non-negative integer")
	}
	return RegistryNumber(n), nil
}

func (t TokenID) String() string { return strconv.FormatUint(uint64(t), 10) }
