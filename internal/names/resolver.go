package names

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"together/pkg/domain"
	"together/pkg/platform/circuit"
	"together/pkg/platform/sentinel"
	"together/pkg/requestcontext"
)

// HTTPResolver asks a reverse-resolution API whether an address has a name:
// GET {base}/reverse/{address} answers 200 {"name": "..."} or 404.
type HTTPResolver struct {
	baseURL  string
	client   *http.Client
	breaker  *circuit.Breaker
	logger   *slog.Logger
	observer LookupObserver
}

type ResolverOption func(*HTTPResolver)

func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *HTTPResolver) {
		r.client = client
	}
}

func WithBreaker(b *circuit.Breaker) ResolverOption {
	return func(r *HTTPResolver) {
		r.breaker = b
	}
}

func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *HTTPResolver) {
		r.logger = logger
	}
}

func WithResolverObserver(o LookupObserver) ResolverOption {
	return func(r *HTTPResolver) {
		r.observer = o
	}
}

func NewHTTPResolver(baseURL string, timeout time.Duration, opts ...ResolverOption) *HTTPResolver {
	r := &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: circuit.New("name-resolver"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type reverseResponse struct {
	Name string `json:"name"`
}

// HasName reports whether the resolver knows a name for identity. While the
// breaker is open lookups fail fast with sentinel.ErrUnavailable.
func (r *HTTPResolver) HasName(ctx context.Context, identity domain.Identity) (bool, error) {
	if !r.breaker.Allow() {
		r.observe("resolver", "short_circuit")
		return false, fmt.Errorf("name resolver circuit open: %w", sentinel.ErrUnavailable)
	}

	named, err := r.lookup(ctx, identity)
	if err != nil {
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.logger.WarnContext(ctx, "name resolver circuit opened",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		r.observe("resolver", "error")
		return false, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "name resolver circuit closed")
	}
	r.observe("resolver", strconv.FormatBool(named))
	return named, nil
}

func (r *HTTPResolver) lookup(ctx context.Context, identity domain.Identity) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/reverse/"+url.PathEscape(identity.String()), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body reverseResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
			return false, fmt.Errorf("decode resolver response: %w", err)
		}
		return strings.TrimSpace(body.Name) != "", nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("resolver returned status %d", resp.StatusCode)
	}
}

func (r *HTTPResolver) observe(source, result string) {
	if r.observer != nil {
		r.observer.ObserveNameLookup(source, result)
	}
}
