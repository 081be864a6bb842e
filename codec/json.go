package codec

import "encoding/json"

// JSON encodes values with encoding/json. Unexported fields are dropped and
// interface-typed fields decode as generic maps; prefer Gob or Msgpack when
// that matters.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
