package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob is the general-purpose object codec: any gob-encodable Go value
// round-trips, including nested maps, slices and structs with exported fields.
// Values held in interface-typed fields must be registered with gob.Register.
// Channels and funcs cannot be encoded; Encode returns an error for them.
// The zero value is ready to use.
type Gob[V any] struct{}

var _ Codec[struct{}] = Gob[struct{}]{}

func (Gob[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob[V]) Decode(b []byte) (V, error) {
	var v V
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&v)
	return v, err
}
