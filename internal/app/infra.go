package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"

	"together/internal/audit"
	"together/internal/events"
	"together/internal/ledger"
	"together/internal/names"
	"together/internal/platform/config"
	"together/internal/platform/kafka"
	"together/internal/platform/metrics"
	"together/internal/platform/postgres"
	"together/internal/platform/redis"
	"together/internal/ratelimit"
	"together/internal/token"
	httptransport "together/internal/transport/http"
	"together/pkg/domain"
	"together/pkg/platform/circuit"
)

const (
	resolverFailureThreshold = 5
	resolverCooldown         = 30 * time.Second
	topicPartitions          = 1
)

// storageLedger is the ledger surface shared by the services and the relay.
type storageLedger interface {
	RunInTx(ctx context.Context, fn ledger.TxFunc) error
	View(ctx context.Context, fn ledger.TxFunc) error
}

type infra struct {
	storage string
	ledger  storageLedger
	tokens  token.Store
	audit   audit.Store
	pool    *pgxpool.Pool
	redis   *redis.Client
	kafka   *kgo.Client
}

// buildInfra connects the optional backends. Without DATABASE_URL every store
// lives in memory.
func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{storage: "memory"}

	pool, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		in.pool = pool
		in.storage = "postgres"
		l := ledger.NewPostgres(pool)
		if err := l.Migrate(ctx); err != nil {
			in.Close()
			return nil, fmt.Errorf("migrate ledger: %w", err)
		}
		tokens := token.NewPostgresStore(pool)
		if err := tokens.Migrate(ctx); err != nil {
			in.Close()
			return nil, fmt.Errorf("migrate tokens: %w", err)
		}
		trail := audit.NewPostgresStore(pool)
		if err := trail.Migrate(ctx); err != nil {
			in.Close()
			return nil, fmt.Errorf("migrate audit trail: %w", err)
		}
		in.ledger, in.tokens, in.audit = l, tokens, trail
	} else {
		in.ledger, in.tokens, in.audit = ledger.NewInMemory(), token.NewInMemoryStore(), audit.NewInMemoryStore()
	}

	if in.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		in.Close()
		return nil, err
	}

	if in.kafka, err = kafka.NewClient(cfg.Kafka); err != nil {
		in.Close()
		return nil, err
	}
	if in.kafka != nil {
		if err := kafka.EnsureTopic(ctx, in.kafka, cfg.Kafka.Topic, topicPartitions); err != nil {
			log.WarnContext(ctx, "could not ensure event topic", "topic", cfg.Kafka.Topic, "error", err)
		}
	}
	return in, nil
}

func (in *infra) healthChecks() []httptransport.Option {
	var opts []httptransport.Option
	if in.pool != nil {
		opts = append(opts, httptransport.WithHealthCheck("postgres", in.pool.Ping))
	}
	if in.redis != nil {
		opts = append(opts, httptransport.WithHealthCheck("redis", in.redis.Health))
	}
	if in.kafka != nil {
		opts = append(opts, httptransport.WithHealthCheck("kafka", in.kafka.Ping))
	}
	return opts
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.pool != nil {
		in.pool.Close()
	}
}

// buildOracle prefers the reverse resolver, cached in Redis when available,
// and falls back to the configured static set.
func buildOracle(cfg config.Config, in *infra, log *slog.Logger, m *metrics.Metrics) names.Oracle {
	if cfg.Names.ResolverURL == "" {
		named := make([]domain.Identity, 0, len(cfg.Names.Named))
		for _, raw := range cfg.Names.Named {
			named = append(named, domain.MustIdentity(raw))
		}
		log.Info("using static name oracle", "named", len(named))
		return names.NewStatic(named...)
	}

	breaker := circuit.New("name-resolver",
		circuit.WithFailureThreshold(resolverFailureThreshold),
		circuit.WithCooldown(resolverCooldown),
	)
	var oracle names.Oracle = names.NewHTTPResolver(cfg.Names.ResolverURL, cfg.Names.Timeout,
		names.WithBreaker(breaker),
		names.WithResolverLogger(log),
		names.WithResolverObserver(m),
	)
	if in.redis != nil {
		oracle = names.NewCached(oracle, in.redis, cfg.Redis.NameCacheTTL, log, m)
	}
	return oracle
}

func buildPublisher(cfg config.Config, in *infra, log *slog.Logger) events.Publisher {
	if in.kafka == nil {
		return events.NewLogPublisher(log)
	}
	return events.NewKafkaPublisher(in.kafka, cfg.Kafka.Topic)
}

// buildLimiter shares quotas through Redis when it is configured.
func buildLimiter(cfg config.Config, in *infra, log *slog.Logger, m *metrics.Metrics) *ratelimit.Middleware {
	var store ratelimit.Store = ratelimit.NewInMemoryStore()
	if in.redis != nil {
		store = ratelimit.NewRedisStore(in.redis)
	}
	limits := map[ratelimit.Class]ratelimit.Limit{
		ratelimit.ClassRead:  {Requests: cfg.Limits.ReadRequests, Window: cfg.Limits.Window},
		ratelimit.ClassWrite: {Requests: cfg.Limits.WriteRequests, Window: cfg.Limits.Window},
	}
	return ratelimit.New(store, limits,
		ratelimit.WithLogger(log),
		ratelimit.WithObserver(m),
		ratelimit.WithDisabled(cfg.Limits.Disabled),
	)
}
