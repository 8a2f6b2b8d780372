// Package e2e runs the Gherkin feature files against a fully wired in-memory
// deployment served over a real HTTP listener.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"together/internal/app"
	jwttoken "together/internal/jwt_token"
	"together/internal/platform/config"
	"together/pkg/domain"
)

// Participants known to every scenario. Every name except "dave" owns a
// registered name; "owner" is the administrative identity.
var participants = map[string]domain.Identity{
	"alice": domain.MustIdentity("0x00000000000000000000000000000000000000a1"),
	"bob":   domain.MustIdentity("0x00000000000000000000000000000000000000b0"),
	"carol": domain.MustIdentity("0x00000000000000000000000000000000000000c0"),
	"dave":  domain.MustIdentity("0x00000000000000000000000000000000000000d0"),
	"owner": domain.MustIdentity("0x00000000000000000000000000000000000000ff"),
}

// TestContext holds one scenario's deployment and the last response.
type TestContext struct {
	app    *app.App
	server *httptest.Server
	tokens *jwttoken.JWTService
	client *http.Client

	lastStatus int
	lastBody   []byte
}

// Start boots a fresh deployment for a scenario.
func (tc *TestContext) Start(ctx context.Context) error {
	cfg := config.Defaults()
	cfg.Policy.Owner = participants["owner"]
	for name, id := range participants {
		if name != "dave" {
			cfg.Names.Named = append(cfg.Names.Named, id.String())
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	tc.app = a
	tc.server = httptest.NewServer(a.Handler())
	tc.tokens = jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	tc.client = &http.Client{Timeout: 5 * time.Second}
	tc.lastStatus, tc.lastBody = 0, nil
	return nil
}

// Stop tears the deployment down.
func (tc *TestContext) Stop() {
	if tc.server != nil {
		tc.server.Close()
	}
	if tc.app != nil {
		tc.app.Close()
	}
}

// Identity resolves a participant name.
func (tc *TestContext) Identity(name string) (domain.Identity, error) {
	id, ok := participants[name]
	if !ok {
		return "", fmt.Errorf("unknown participant %q", name)
	}
	return id, nil
}

// Request sends method path as the named participant; an empty name sends no
// Authorization header.
func (tc *TestContext) Request(ctx context.Context, method, path, as string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.server.URL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		id, err := tc.Identity(as)
		if err != nil {
			return err
		}
		token, err := tc.tokens.GenerateAccessToken(id, time.Hour)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// Field reads a dotted path from the last JSON response body. Numeric parts
// index into arrays.
func (tc *TestContext) Field(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.lastBody)
	}
	cur := doc
	for _, part := range strings.Split(path, ".") {
		var ok bool
		switch node := cur.(type) {
		case map[string]any:
			cur, ok = node[part]
		case []any:
			idx, err := strconv.Atoi(part)
			if ok = err == nil && idx >= 0 && idx < len(node); ok {
				cur = node[idx]
			}
		}
		if !ok {
			return nil, fmt.Errorf("field %q not found in %s", path, tc.lastBody)
		}
	}
	return cur, nil
}

// DrainEvents publishes pending notifications and returns how many there were.
func (tc *TestContext) DrainEvents(ctx context.Context) (int, error) {
	return tc.app.Relay().Drain(ctx)
}
