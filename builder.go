package cardgate

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/cardgate/cardgate/token"
)

// Builder assembles a fully configured [Registry]: backend selection, audit
// dispatch, metrics, and optional token grants. Construction is
// allocation-only; no I/O happens until registry methods are called.
//
// Backend precedence at Build time: an explicit [Builder.WithBackend] wins,
// then a Redis client from [Builder.WithRedis] (wrapped in a [RedisBackend]),
// then the reference [NoopBackend].
type Builder struct {
	config    Config
	backend   Backend
	redis     redis.UniversalClient
	auditSink AuditSink

	backendSet bool
	built      bool
}

// NewBuilder starts a builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBackend selects an explicit backend implementation.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend
	b.backendSet = true
	return b
}

// WithRedis wires a [RedisBackend] over the given client, namespaced by
// Config.Backend.RedisPrefix.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the sink that receives audit events when auditing is
// enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and returns the registry. A builder is
// single-use.
func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	backend := b.backend
	switch {
	case b.backendSet:
		if backend == nil {
			return nil, ErrBackendRequired
		}
	case b.redis != nil:
		backend = NewRedisBackend(b.redis, b.config.Backend.RedisPrefix)
	default:
		backend = NoopBackend{}
	}

	r := NewWith(backend)
	r.metrics = NewMetrics(b.config.Metrics)
	r.audit = newAuditDispatcher(b.config.Audit, b.auditSink)

	if b.config.Token.Enabled {
		manager, err := token.NewManager(token.Config{
			TTL:           b.config.Token.TTL,
			SigningMethod: token.SigningMethod(b.config.Token.SigningMethod),
			PrivateKey:    b.config.Token.PrivateKey,
			PublicKey:     b.config.Token.PublicKey,
			Issuer:        b.config.Token.Issuer,
			Audience:      b.config.Token.Audience,
			Leeway:        b.config.Token.Leeway,
		})
		if err != nil {
			r.Close()
			return nil, err
		}
		r.tokens = manager
	}

	b.built = true
	return r, nil
}
