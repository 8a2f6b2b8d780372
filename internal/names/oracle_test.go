package names

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"together/pkg/domain"
	"together/pkg/platform/circuit"
	"together/pkg/platform/sentinel"
)

var (
	alice = domain.MustIdentity("0x00000000000000000000000000000000000a11ce")
	bob   = domain.MustIdentity("0x0000000000000000000000000000000000000b0b")
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(alice)

	named, err := s.HasName(ctx, alice)
	require.NoError(t, err)
	assert.True(t, named)

	named, _ = s.HasName(ctx, bob)
	assert.False(t, named)

	s.Grant(bob)
	named, _ = s.HasName(ctx, bob)
	assert.True(t, named)

	s.Revoke(alice)
	named, _ = s.HasName(ctx, alice)
	assert.False(t, named)
}

func newResolverServer(t *testing.T, status map[domain.Identity]int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := domain.Identity(strings.TrimPrefix(r.URL.Path, "/reverse/"))
		code, ok := status[address]
		if !ok {
			code = http.StatusNotFound
		}
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(`{"name":"alice.eth"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPResolver(t *testing.T) {
	ctx := context.Background()
	srv := newResolverServer(t, map[domain.Identity]int{alice: http.StatusOK})
	r := NewHTTPResolver(srv.URL+"/", time.Second)

	named, err := r.HasName(ctx, alice)
	require.NoError(t, err)
	assert.True(t, named)

	named, err = r.HasName(ctx, bob)
	require.NoError(t, err, "404 means no name, not a failure")
	assert.False(t, named)
}

func TestHTTPResolver_BreakerOpensOnFailures(t *testing.T) {
	ctx := context.Background()
	srv := newResolverServer(t, map[domain.Identity]int{alice: http.StatusBadGateway})
	now := time.Unix(0, 0)
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }))
	observer := &recordingObserver{}
	r := NewHTTPResolver(srv.URL, time.Second, WithBreaker(breaker), WithResolverObserver(observer))

	for range 2 {
		_, err := r.HasName(ctx, alice)
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	}
	assert.True(t, breaker.IsOpen())

	_, err := r.HasName(ctx, bob)
	require.ErrorIs(t, err, sentinel.ErrUnavailable, "open breaker fails fast")
	assert.Equal(t, []string{"resolver/error", "resolver/error", "resolver/short_circuit"}, observer.calls())

	now = now.Add(2 * time.Minute)
	named, err := r.HasName(ctx, bob)
	require.NoError(t, err, "probe after cooldown reaches the resolver")
	assert.False(t, named)
	assert.False(t, breaker.IsOpen())
}

type recordingObserver struct {
	mu  sync.Mutex
	got []string
}

func (o *recordingObserver) ObserveNameLookup(source, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, source+"/"+result)
}

func (o *recordingObserver) calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.got...)
}

// fakeCache implements CacheClient over a map.
type fakeCache struct {
	values  map[string]string
	failGet bool
	ttls    map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet {
		return redis.NewStringResult("", assert.AnError)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingOracle struct {
	inner Oracle
	calls int
}

func (c *countingOracle) HasName(ctx context.Context, id domain.Identity) (bool, error) {
	c.calls++
	return c.inner.HasName(ctx, id)
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingOracle{inner: NewStatic(alice)}
	cache := newFakeCache()
	c := NewCached(inner, cache, time.Minute, nil, nil)

	for range 3 {
		named, err := c.HasName(ctx, alice)
		require.NoError(t, err)
		assert.True(t, named)
		named, err = c.HasName(ctx, bob)
		require.NoError(t, err)
		assert.False(t, named)
	}
	assert.Equal(t, 2, inner.calls, "positive and negative answers are cached")
	assert.Equal(t, time.Minute, cache.ttls[cacheKeyPrefix+alice.String()])
}

func TestCached_ReadFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingOracle{inner: NewStatic(alice)}
	cache := newFakeCache()
	cache.failGet = true
	c := NewCached(inner, cache, time.Minute, nil, nil)

	named, err := c.HasName(ctx, alice)
	require.NoError(t, err)
	assert.True(t, named)
	assert.Equal(t, 1, inner.calls)
}

type failingOracle struct{}

func (failingOracle) HasName(context.Context, domain.Identity) (bool, error) {
	return false, sentinel.ErrUnavailable
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	cache := newFakeCache()
	c := NewCached(failingOracle{}, cache, time.Minute, nil, nil)

	_, err := c.HasName(context.Background(), alice)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Empty(t, cache.values)
}
