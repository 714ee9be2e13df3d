package osdlogin

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RoCS2024/osdlogin/authclient"
	"github.com/RoCS2024/osdlogin/session"
	"github.com/RoCS2024/osdlogin/token"
)

// Builder assembles a [Flow]. Configure with the With* methods and call
// Build exactly once; the resulting Flow is immutable.
type Builder struct {
	config Config

	redis      redis.UniversalClient
	store      session.Store
	httpClient *http.Client
	navigator  Navigator
	auditSink  AuditSink
	logger     *zap.Logger

	built bool
}

// New returns a Builder loaded with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithEndpoint sets the remote login endpoint.
func (b *Builder) WithEndpoint(endpoint string) *Builder {
	b.config.Client.Endpoint = endpoint
	return b
}

// WithRedis backs the session store with the given Redis client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSessionStore injects a custom session store, overriding the Redis and
// file defaults.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithHTTPClient overrides the HTTP client used for the remote call.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithNavigator sets the presentation-system boundary that receives the
// routing dispatch on success. Required.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithAuditSink sets the audit event consumer.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the structured logger. Defaults to a nop logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the components, and returns a
// ready Flow.
func (b *Builder) Build() (*Flow, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.navigator == nil {
		return nil, errors.New("navigator required")
	}

	store := b.store
	if store == nil {
		switch {
		case b.redis != nil:
			store = session.NewRedisStore(b.redis, cfg.Session.RedisPrefix)
		case cfg.Session.FilePath != "":
			fileStore, err := session.NewFileStore(cfg.Session.FilePath)
			if err != nil {
				return nil, err
			}
			store = fileStore
		default:
			return nil, errors.New("session store required")
		}
	}

	client, err := authclient.New(authclient.Config{
		Endpoint:    cfg.Client.Endpoint,
		TokenHeader: cfg.Client.TokenHeader,
		Timeout:     cfg.Client.Timeout,
		HTTPClient:  b.httpClient,
	})
	if err != nil {
		return nil, err
	}

	processor, err := token.NewProcessor(token.Config{
		VerifyKey: cfg.Token.VerifyKey,
		Leeway:    cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	flow := &Flow{
		config:    cfg,
		client:    client,
		tokens:    processor,
		store:     store,
		navigator: b.navigator,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
		logger:    logger,
	}

	b.built = true

	return flow, nil
}
