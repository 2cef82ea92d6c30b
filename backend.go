package cardgate

import (
	"context"

	"github.com/cardgate/cardgate/card"
)

// Backend is the interface to the lower-level system that owns physical card
// I/O, for example a PN532 NFC reader/writer or a bridge daemon in front of
// one. The registry holds exactly one Backend for its whole lifetime and
// does not care whether it is physical or simulated.
//
// Read and Write failures are reported as [*KernelError]. Sense is a
// non-failing probe: it attempts a scan and returns, with no result contract.
//
// ReadMutable grants exclusive mutation access to the live card state: the
// caller must not issue another Read, ReadMutable, or Write for the same card
// id until it is done with the returned card, and must push changes back via
// Write. The core does not police this; the exclusivity contract is between
// caller and backend.
type Backend interface {
	Read(ctx context.Context, cardID uint16) (card.Card, error)
	ReadMutable(ctx context.Context, cardID uint16) (*card.Card, error)
	Write(ctx context.Context, c card.Card, payload []byte) error
	Sense(ctx context.Context)
}

// NoopBackend is the reference backend used by default and in environments
// without physical hardware. Its read and write operations fail
// deterministically with a [*KernelError] that unwraps to
// [ErrBackendUnimplemented]; Sense returns immediately. It never panics,
// blocks, or silently succeeds.
type NoopBackend struct{}

func (NoopBackend) Read(ctx context.Context, cardID uint16) (card.Card, error) {
	return card.Card{}, kernelErr(KernelRead, KernelCodeUnimplemented,
		ErrBackendUnimplemented, "noop backend cannot read cards")
}

func (NoopBackend) ReadMutable(ctx context.Context, cardID uint16) (*card.Card, error) {
	return nil, kernelErr(KernelRead, KernelCodeUnimplemented,
		ErrBackendUnimplemented, "noop backend cannot read cards")
}

func (NoopBackend) Write(ctx context.Context, c card.Card, payload []byte) error {
	return kernelErr(KernelWrite, KernelCodeUnimplemented,
		ErrBackendUnimplemented, "noop backend cannot write cards")
}

// Sense terminates immediately: there is no field to scan.
func (NoopBackend) Sense(ctx context.Context) {}
