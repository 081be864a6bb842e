package codec

import (
	"errors"
	"unicode/utf8"
)

// Bytes is an identity codec for []byte values. The object body is exactly
// the stored slice, which keeps objects readable by other tools.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

var errInvalidUTF8 = errors.New("string: object is not valid UTF-8")

// String stores Go strings as their raw bytes. Set Strict to reject non-UTF-8
// input in both directions.
type String struct {
	Strict bool
}

func (c String) Encode(s string) ([]byte, error) {
	if c.Strict && !utf8.ValidString(s) {
		return nil, errInvalidUTF8
	}
	return []byte(s), nil
}

func (c String) Decode(b []byte) (string, error) {
	if c.Strict && !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}
