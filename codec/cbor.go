package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBOROptions tune the CBOR codec. The zero value is valid.
type CBOROptions struct {
	// Deterministic selects RFC 8949 core deterministic encoding so that equal
	// values always produce byte-identical objects (stable ETags, replication
	// diffing).
	Deterministic bool
	// MaxNestedLevels and MaxArrayElements bound what Decode accepts from a
	// shared bucket. 0 keeps the library defaults.
	MaxNestedLevels  int
	MaxArrayElements int
}

// CBOR serializes values with fxamacker/cbor. Times are written as
// RFC3339Nano text so objects stay readable by other CBOR tooling.
// Construct with NewCBOR or MustCBOR; the zero value has no modes.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

func NewCBOR[V any](o CBOROptions) (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	if o.Deterministic {
		eo = cbor.CoreDetEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, fmt.Errorf("cbor: enc mode: %w", err)
	}
	do := cbor.DecOptions{
		MaxNestedLevels:  o.MaxNestedLevels,
		MaxArrayElements: o.MaxArrayElements,
	}
	dm, err := do.DecMode()
	if err != nil {
		return CBOR[V]{}, fmt.Errorf("cbor: dec mode: %w", err)
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR panics if NewCBOR fails. Meant for package-level vars and tests.
func MustCBOR[V any](o CBOROptions) CBOR[V] {
	c, err := NewCBOR[V](o)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	if c.enc == nil {
		return nil, errUnconfigured("cbor")
	}
	return c.enc.Marshal(v)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	if c.dec == nil {
		return v, errUnconfigured("cbor")
	}
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
