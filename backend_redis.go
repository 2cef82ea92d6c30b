package cardgate

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/cardgate/cardgate/card"
)

const senseScanCount = 64

// RedisBackend speaks the card wire protocol to a reader bridge over Redis:
// a bridge daemon in front of the physical reader mirrors each card's JSON
// payload under <prefix>:card:<id>. Read fetches and strictly decodes that
// payload; Write pushes a payload back for the bridge to flash onto the card.
//
// RedisBackend is an I/O adapter only. It holds no card state of its own and
// performs no retries; callers wrap their own retry policy around
// [*KernelError] failures.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend wraps a Redis client as a [Backend]. An empty prefix
// defaults to "cg".
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "cg"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) cardKey(cardID uint16) string {
	return b.prefix + ":card:" + strconv.FormatUint(uint64(cardID), 10)
}

// Read fetches the live state of a card from the bridge. A missing key means
// the card is not in range; a payload that fails strict decoding is a
// protocol failure, never a silently accepted card.
func (b *RedisBackend) Read(ctx context.Context, cardID uint16) (card.Card, error) {
	payload, err := b.client.Get(ctx, b.cardKey(cardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return card.Card{}, kernelErr(KernelRead, KernelCodeAbsent,
			ErrCardNotFound, "card not present on reader")
	}
	if err != nil {
		return card.Card{}, kernelErr(KernelRead, KernelCodeTransport,
			err, "bridge read failed")
	}

	c, err := card.Decode(payload)
	if err != nil {
		return card.Card{}, kernelErr(KernelRead, KernelCodeBadPayload,
			err, "card payload does not decode")
	}
	return c, nil
}

// ReadMutable fetches card state for mutation. Redis offers no in-place
// reference, so the caller receives a private copy and must push changes back
// through [RedisBackend.Write]; the exclusivity contract (no overlapping
// operations on the same id while the copy is held) is the caller's to keep.
func (b *RedisBackend) ReadMutable(ctx context.Context, cardID uint16) (*card.Card, error) {
	c, err := b.Read(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Write pushes a raw payload to the card identified by c. An empty payload
// defaults to the card's canonical encoding.
func (b *RedisBackend) Write(ctx context.Context, c card.Card, payload []byte) error {
	if len(payload) == 0 {
		payload = c.Encode()
	}
	if err := b.client.Set(ctx, b.cardKey(c.ID()), payload, 0).Err(); err != nil {
		return kernelErr(KernelWrite, KernelCodeTransport, err, "bridge write failed")
	}
	return nil
}

// Sense probes the bridge for cards in range with a single bounded SCAN page
// and discards the result. It terminates whether or not any card is present;
// transport errors are deliberately ignored, per the no-failure contract of
// the probe.
func (b *RedisBackend) Sense(ctx context.Context) {
	_, _, _ = b.client.Scan(ctx, 0, b.prefix+":card:*", senseScanCount).Result()
}
