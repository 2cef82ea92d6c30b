package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cardgate/cardgate/permission"
)

// ConversionError reports a failed byte-to-Card conversion. It carries the
// offending buffer for diagnostics. Decoding is always recoverable: the
// caller decides whether to discard, log, or retry with corrected input.
type ConversionError struct {
	Message string
	Bytes   []byte
}

func (e *ConversionError) Error() string {
	return e.Message
}

func conversionErr(data []byte, format string, args ...any) *ConversionError {
	return &ConversionError{
		Message: fmt.Sprintf(format, args...),
		Bytes:   data,
	}
}

// wireCard is the two-field JSON shape exchanged with the hardware layer.
// Pointer fields let the decoder tell "absent" from "zero": both fields are
// mandatory on the wire.
type wireCard struct {
	ID          *uint16 `json:"id"`
	Permissions *uint8  `json:"permissions"`
}

// Encode serializes the Card into its canonical wire payload. It never fails:
// construction already guarantees the permission set is recognized, and
// marshaling a fixed two-field struct of integers cannot error.
func (c Card) Encode() []byte {
	id, bits := c.id, c.permissions.Bits()
	payload, _ := json.Marshal(wireCard{
		ID:          &id,
		Permissions: &bits,
	})
	return payload
}

// Decode parses a wire payload into a Card. Malformed structure, wrong field
// types, unknown fields, trailing data, and unrecognized permission bits all
// fail with a [*ConversionError] carrying the input bytes. Decode is the
// single recovery point for externally supplied data: the registry and the
// backends never see a malformed Card.
func Decode(data []byte) (Card, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w wireCard
	if err := dec.Decode(&w); err != nil {
		return Card{}, conversionErr(data, "cannot convert bytes to Card: %v", err)
	}
	if dec.More() {
		return Card{}, conversionErr(data, "cannot convert bytes to Card: trailing data after payload")
	}
	if _, err := dec.Token(); err != io.EOF {
		return Card{}, conversionErr(data, "cannot convert bytes to Card: trailing data after payload")
	}
	if w.ID == nil {
		return Card{}, conversionErr(data, "cannot convert bytes to Card: missing id field")
	}
	if w.Permissions == nil {
		return Card{}, conversionErr(data, "cannot convert bytes to Card: missing permissions field")
	}

	perms, err := permission.FromBits(*w.Permissions)
	if err != nil {
		return Card{}, conversionErr(data, "cannot convert bytes to Card: %v (mask %#x)", err, *w.Permissions)
	}

	return New(*w.ID, perms), nil
}
