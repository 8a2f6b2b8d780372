// Package domainerrors provides coded errors shared by services and transport.
//
// Services return *Error values so handlers can translate them into HTTP
// responses without inspecting messages. Stores return sentinel errors
// (see pkg/platform/sentinel) which services wrap with a code.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a failure kind. Codes are stable and are rendered verbatim in
// API error envelopes.
type Code string

const (
	// Generic codes.
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "unavailable"
	CodeRateLimited        Code = "rate_limited"
	CodeInternal           Code = "internal_error"

	// Union protocol failure kinds.
	CodeSenderHasNoName          Code = "sender_has_no_name"
	CodeReceiverHasNoName        Code = "receiver_has_no_name"
	CodeSelfProposal             Code = "self_proposal"
	CodeInsufficientAmount       Code = "insufficient_amount"
	CodeSenderPendingProposal    Code = "sender_pending_proposal"
	CodeReceiverPendingProposal  Code = "receiver_pending_proposal"
	CodeNotProposer              Code = "not_proposer"
	CodeNoPendingProposal        Code = "no_pending_proposal"
	CodeInvalidResponse          Code = "invalid_response"
	CodeCannotRespondOwnProposal Code = "cannot_respond_own_proposal"
	CodeAlreadyResponded         Code = "already_responded"
	CodeAlreadySeparated         Code = "already_separated"
	CodeInvalidStatus            Code = "invalid_status"
	CodeUnknownToken             Code = "unknown_token"
	CodeTransferFailed           Code = "transfer_failed"
)

// Category groups codes by the kind of problem they describe.
type Category string

const (
	CategoryValidation     Category = "validation"
	CategoryAuthentication Category = "authentication"
	CategoryAuthorization  Category = "authorization"
	CategoryEconomic       Category = "economic"
	CategoryStateConflict  Category = "state_conflict"
	CategoryNotFound       Category = "not_found"
	CategoryExternal       Category = "external_dependency"
	CategoryRateLimit      Category = "rate_limit"
	CategoryInternal       Category = "internal"
)

var categories = map[Code]Category{
	CodeBadRequest:      CategoryValidation,
	CodeInvalidInput:    CategoryValidation,
	CodeValidation:      CategoryValidation,
	CodeInvalidResponse: CategoryValidation,
	CodeInvalidStatus:   CategoryValidation,
	CodeSelfProposal:    CategoryValidation,

	CodeUnauthenticated:          CategoryAuthentication,
	CodeUnauthorized:             CategoryAuthorization,
	CodeNotProposer:              CategoryAuthorization,
	CodeCannotRespondOwnProposal: CategoryAuthorization,

	CodeInsufficientAmount: CategoryEconomic,

	CodeConflict:                CategoryStateConflict,
	CodeInvariantViolation:      CategoryStateConflict,
	CodeSenderPendingProposal:   CategoryStateConflict,
	CodeReceiverPendingProposal: CategoryStateConflict,
	CodeNoPendingProposal:       CategoryStateConflict,
	CodeAlreadyResponded:        CategoryStateConflict,
	CodeAlreadySeparated:        CategoryStateConflict,

	CodeNotFound: CategoryNotFound,

	CodeSenderHasNoName:   CategoryExternal,
	CodeReceiverHasNoName: CategoryExternal,
	CodeUnknownToken:      CategoryExternal,
	CodeTransferFailed:    CategoryExternal,
	CodeUnavailable:       CategoryExternal,
	CodeTimeout:           CategoryExternal,

	CodeRateLimited: CategoryRateLimit,

	CodeInternal: CategoryInternal,
}

// CategoryOf returns the category of a code. Unknown codes are internal.
func CategoryOf(code Code) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryInternal
}

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code. An empty target message
// matches any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// New builds a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error. Wrapping nil
// returns nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost coded error in the chain has code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
