package codec

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned (wrapped) by Limit when an object or value exceeds
// the configured size.
var ErrTooLarge = errors.New("codec: payload too large")

// Limit bounds object sizes around another codec. Objects under a shared
// prefix may be written by other tools, and S3 single-part uploads have their
// own ceiling, so both directions can be capped. A limit <= 0 disables that
// direction.
type Limit[V any] struct {
	Inner     Codec[V] // required
	MaxDecode int      // largest object Decode accepts
	MaxEncode int      // largest payload Encode returns
}

func (c Limit[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, fmt.Errorf("%w: encoded %d > %d", ErrTooLarge, len(b), c.MaxEncode)
	}
	return b, nil
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: object %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
