// Package codec provides value serializers for bucketcache.
//
// A Codec must round-trip exactly: Decode(Encode(v)) equals v for every value
// the caller stores. Encode failures surface to callers of Set/Add; Decode
// failures are absorbed by the backend and read as a miss.
//
// The encoded bytes are the whole object body, with no header or framing, so
// objects under a prefix can be read by anything that knows the format.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

func errUnconfigured(name string) error {
	return fmt.Errorf("%s: codec used before construction", name)
}
