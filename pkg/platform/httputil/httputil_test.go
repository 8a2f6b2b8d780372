package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "together/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeInvalidResponse:       http.StatusBadRequest,
		dErrors.CodeUnauthenticated:       http.StatusUnauthorized,
		dErrors.CodeUnauthorized:          http.StatusForbidden,
		dErrors.CodeInsufficientAmount:    http.StatusPaymentRequired,
		dErrors.CodeSenderPendingProposal: http.StatusConflict,
		dErrors.CodeNotFound:              http.StatusNotFound,
		dErrors.CodeSenderHasNoName:       http.StatusFailedDependency,
		dErrors.CodeUnknownToken:          http.StatusNotFound,
		dErrors.CodeTransferFailed:        http.StatusBadGateway,
		dErrors.CodeUnavailable:           http.StatusServiceUnavailable,
		dErrors.CodeRateLimited:           http.StatusTooManyRequests,
		dErrors.CodeInternal:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := StatusFor(code); got != want {
			t.Errorf("StatusFor(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"to":"x","extra":1}`))
		var dst struct {
			To string `json:"to"`
		}
		err := DecodeJSON(r, &dst)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})

	t.Run("keeps domain codes raised while decoding", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"to":"0x12"}`))
		var dst struct {
			To identity `json:"to"`
		}
		err := DecodeJSON(r, &dst)
		if !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			t.Fatalf("expected invalid_input, got %v", err)
		}
	})
}

type identity string

func (i *identity) UnmarshalText(text []byte) error {
	if len(text) != 42 {
		return dErrors.New(dErrors.CodeInvalidInput, "bad identity")
	}
	*i = identity(text)
	return nil
}
