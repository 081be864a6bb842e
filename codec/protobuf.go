package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

var (
	protoMarshal   = proto.MarshalOptions{Deterministic: true}
	protoUnmarshal = proto.UnmarshalOptions{DiscardUnknown: true}
)

// Protobuf stores proto messages in binary wire form. Encoding is
// deterministic, and fields unknown to the reader's schema are dropped on
// decode so older readers tolerate objects written by newer ones.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *pb.Session { return &pb.Session{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return protoMarshal.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	if c.new == nil {
		var zero T
		return zero, errors.New("protobuf: message constructor is not set")
	}
	m := c.new()
	err := protoUnmarshal.Unmarshal(b, m)
	return m, err
}
