package cardgate

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func TestValidateConfigDefaults(t *testing.T) {
	if err := validateConfig(defaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty redis prefix", func(c *Config) { c.Backend.RedisPrefix = "" }},
		{"audit without buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}},
		{"token without TTL", func(c *Config) {
			c.Token.Enabled = true
			c.Token.TTL = 0
		}},
		{"token bad method", func(c *Config) {
			c.Token.Enabled = true
			c.Token.SigningMethod = "none"
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatal("validateConfig accepted an invalid configuration")
			}
		})
	}
}

func TestCloneConfigDetachesKeys(t *testing.T) {
	cfg := defaultConfig()
	cfg.Token.PrivateKey = []byte{1, 2, 3}

	cloned := cloneConfig(cfg)
	cloned.Token.PrivateKey[0] = 9

	if cfg.Token.PrivateKey[0] != 1 {
		t.Fatal("cloneConfig shares key memory with the original")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder()
	r, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	t.Cleanup(r.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build on the same builder succeeded")
	}
}

func TestBuilderRejectsNilExplicitBackend(t *testing.T) {
	_, err := NewBuilder().WithBackend(nil).Build()
	if !errors.Is(err, ErrBackendRequired) {
		t.Fatalf("Build error = %v, want ErrBackendRequired", err)
	}
}

func TestBuilderDefaultsToNoopBackend(t *testing.T) {
	r, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(r.Close)

	if _, ok := r.Backend().(NoopBackend); !ok {
		t.Fatalf("default backend = %T, want NoopBackend", r.Backend())
	}
	if _, err := r.IssueGrant(1); !errors.Is(err, ErrTokenDisabled) {
		t.Fatalf("IssueGrant with tokens disabled = %v, want ErrTokenDisabled", err)
	}
}

func TestBuilderWiresTokenGrants(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519 key generation failed: %v", err)
	}

	cfg := defaultConfig()
	cfg.Token.Enabled = true
	cfg.Token.TTL = time.Minute
	cfg.Token.PrivateKey = priv
	cfg.Token.PublicKey = pub

	r, err := NewBuilder().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(r.Close)

	if _, err := r.IssueGrant(1); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("IssueGrant for unbound id = %v, want ErrCardNotFound", err)
	}
}

func TestBuilderRejectsBadTokenKeys(t *testing.T) {
	cfg := defaultConfig()
	cfg.Token.Enabled = true
	cfg.Token.TTL = time.Minute
	cfg.Token.PublicKey = []byte("not a key")

	if _, err := NewBuilder().WithConfig(cfg).Build(); err == nil {
		t.Fatal("Build accepted invalid token keys")
	}
}
