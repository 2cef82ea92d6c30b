package cardgate

import (
	"errors"
	"time"
)

// Config is the full registry configuration. Zero value is not usable;
// start from [Builder] defaults and override.
type Config struct {
	Backend BackendConfig
	Audit   AuditConfig
	Metrics MetricsConfig
	Token   TokenConfig
}

// BackendConfig configures the bundled backend implementations.
type BackendConfig struct {
	// RedisPrefix namespaces the bridge keys when the registry is built with
	// a Redis client.
	RedisPrefix string
}

// AuditConfig configures the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events (and counts them) instead of blocking the
	// registry when the buffer is full.
	DropIfFull bool
}

// MetricsConfig configures the in-process counter set.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// TokenConfig configures signed card grants. Disabled by default; when
// enabled, the signing keys must be supplied.
type TokenConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "ed25519" (default) or "hs256"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

func defaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			RedisPrefix: "cg",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Token: TokenConfig{
			Enabled:       false,
			TTL:           5 * time.Minute,
			SigningMethod: "ed25519",
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = append([]byte(nil), cfg.Token.PrivateKey...)
	out.Token.PublicKey = append([]byte(nil), cfg.Token.PublicKey...)
	return out
}

func validateConfig(cfg Config) error {
	if cfg.Backend.RedisPrefix == "" {
		return errors.New("backend redis prefix cannot be empty")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	if cfg.Token.Enabled {
		if cfg.Token.TTL <= 0 {
			return errors.New("token TTL must be positive")
		}
		switch cfg.Token.SigningMethod {
		case "ed25519", "hs256":
		default:
			return errors.New("unsupported token signing method")
		}
	}
	return nil
}
