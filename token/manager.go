package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cardgate/cardgate/card"
	"github.com/cardgate/cardgate/permission"
)

// SigningMethod selects the grant signature algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs grants with an Ed25519 key pair (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs grants with a shared HMAC secret.
	MethodHS256 SigningMethod = "hs256"
)

var (
	// ErrGrantInvalid is returned for any grant that fails signature,
	// expiry, claim, or permission validation.
	ErrGrantInvalid = errors.New("invalid card grant")
)

// Config for a grant [Manager].
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// Manager issues and verifies card grants. Construct with [NewManager];
// a Manager is immutable and safe for concurrent use.
type Manager struct {
	config Config
}

// GrantClaims is the claim set embedded in a card grant.
type GrantClaims struct {
	CardID      uint32 `json:"cid"`
	Permissions uint8  `json:"perm"`
	jwt.RegisteredClaims
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// Issue signs a grant for the card. The grant carries the card id, the raw
// permission bits, and the configured issuer/audience/expiry claims.
func (m *Manager) Issue(c card.Card) (string, error) {
	now := time.Now()
	claims := GrantClaims{
		CardID:      uint32(c.ID()),
		Permissions: c.Permissions().Bits(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(c.ID()), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}

	switch m.config.SigningMethod {
	case MethodHS256:
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.PrivateKey)
	case MethodEd25519:
		key, err := parseEdPrivateKey(m.config.PrivateKey)
		if err != nil {
			return "", err
		}
		return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	default:
		return "", errors.New("unsupported signing method")
	}
}

// Verify checks signature and registered claims, then reconstructs the Card.
// A mask with unrecognized bits fails: grants cannot widen the capability
// set.
func (m *Manager) Verify(grant string) (card.Card, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(m.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	switch m.config.SigningMethod {
	case MethodHS256:
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	case MethodEd25519:
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(m.config.Audience))
	}

	parsed, err := jwt.ParseWithClaims(grant, &GrantClaims{}, m.verifyKey, opts...)
	if err != nil {
		return card.Card{}, fmt.Errorf("%w: %v", ErrGrantInvalid, err)
	}

	claims, ok := parsed.Claims.(*GrantClaims)
	if !ok || !parsed.Valid {
		return card.Card{}, ErrGrantInvalid
	}
	if claims.CardID > 0xFFFF {
		return card.Card{}, fmt.Errorf("%w: card id out of range", ErrGrantInvalid)
	}

	perms, err := permission.FromBits(claims.Permissions)
	if err != nil {
		return card.Card{}, fmt.Errorf("%w: %v", ErrGrantInvalid, err)
	}

	return card.New(uint16(claims.CardID), perms), nil
}

func (m *Manager) verifyKey(t *jwt.Token) (any, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	case MethodEd25519:
		return parseEdPublicKey(m.config.PublicKey)
	default:
		return nil, errors.New("unsupported signing method")
	}
}

func parseEdPrivateKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, errors.New("invalid ed25519 private key size")
	}
}

func parseEdPublicKey(raw []byte) (ed25519.PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("invalid ed25519 public key size")
	}
	return ed25519.PublicKey(raw), nil
}
