package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "together/pkg/domain-errors"
)

// identityHexLen is the number of hex digits in an account address.
const identityHexLen = 40

// Identity is an account address participating in proposals and unions.
// The canonical form is lowercase "0x" + 40 hex digits; the zero value means
// "no identity".
type Identity string

// ParseIdentity validates an address and returns its canonical form.
// Mixed-case input is accepted without checksum validation.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity is required")
	}
	rest, ok := strings.CutPrefix(s, "0x")
	if !ok {
		rest, ok = strings.CutPrefix(s, "0X")
	}
	if !ok || len(rest) != identityHexLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity must be 0x followed by 40 hex digits")
	}
	if _, err := hex.DecodeString(rest); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity must be 0x followed by 40 hex digits")
	}
	return Identity("0x" + strings.ToLower(rest)), nil
}

// MustIdentity parses s and panics on failure. Intended for constants and tests.
func MustIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (i Identity) String() string { return string(i) }

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool { return i == "" }

// Checksum renders the EIP-55 mixed-case form of the address.
func (i Identity) Checksum() string {
	if i.IsZero() {
		return ""
	}
	lower := strings.TrimPrefix(string(i), "0x")
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	var b strings.Builder
	b.Grow(2 + identityHexLen)
	b.WriteString("0x")
	for idx, c := range lower {
		nibble := digest[idx/2]
		if idx%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			b.WriteRune(c - 'a' + 'A')
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// MarshalText renders the canonical form.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i), nil
}

// UnmarshalText accepts any case; empty input yields the zero identity.
func (i *Identity) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*i = ""
		return nil
	}
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
