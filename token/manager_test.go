package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cardgate/cardgate/card"
	"github.com/cardgate/cardgate/permission"
)

func newEdManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519 key generation failed: %v", err)
	}

	m, err := NewManager(Config{
		TTL:           ttl,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "cardgate-test",
		Audience:      "door-controller",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newEdManager(t, time.Minute)
	want := card.New(42, permission.Regular|permission.OpenDoors)

	grant, err := m.Issue(want)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := m.Verify(grant)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != want {
		t.Fatalf("Verify returned %v, want %v", got, want)
	}
}

func TestVerifyRejectsTamperedGrant(t *testing.T) {
	m := newEdManager(t, time.Minute)

	grant, err := m.Issue(card.New(1, permission.Regular))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(grant, ".")
	if len(parts) != 3 {
		t.Fatalf("grant has %d segments, want 3", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if _, err := m.Verify(tampered); !errors.Is(err, ErrGrantInvalid) {
		t.Fatalf("Verify of tampered grant = %v, want ErrGrantInvalid", err)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	issuer := newEdManager(t, time.Minute)
	verifier := newEdManager(t, time.Minute)

	grant, err := issuer.Issue(card.New(5, permission.Admin))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(grant); !errors.Is(err, ErrGrantInvalid) {
		t.Fatalf("Verify with wrong key = %v, want ErrGrantInvalid", err)
	}
}

func TestVerifyRejectsExpiredGrant(t *testing.T) {
	m := newEdManager(t, time.Millisecond)

	grant, err := m.Issue(card.New(9, permission.Regular))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := m.Verify(grant); !errors.Is(err, ErrGrantInvalid) {
		t.Fatalf("Verify of expired grant = %v, want ErrGrantInvalid", err)
	}
}

func TestHS256RoundTrip(t *testing.T) {
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	want := card.New(7, permission.ITSupport)
	grant, err := m.Issue(want)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	got, err := m.Verify(grant)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != want {
		t.Fatalf("Verify returned %v, want %v", got, want)
	}
}

func TestNewManagerValidation(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519 key generation failed: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero TTL", Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub}},
		{"missing hs256 secret", Config{TTL: time.Minute, SigningMethod: MethodHS256}},
		{"missing ed25519 public key", Config{TTL: time.Minute, SigningMethod: MethodEd25519, PrivateKey: priv}},
		{"bad ed25519 public key", Config{TTL: time.Minute, SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: []byte("short")}},
		{"unknown method", Config{TTL: time.Minute, SigningMethod: "rs512", PrivateKey: priv, PublicKey: pub}},
		{"excessive leeway", Config{TTL: time.Minute, Leeway: time.Hour, SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("NewManager accepted invalid configuration")
			}
		})
	}
}
