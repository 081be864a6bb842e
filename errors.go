package bucketcache

import (
	"errors"
	"fmt"
)

var (
	// ErrSerialization matches every *SerializationError via errors.Is.
	ErrSerialization = errors.New("bucketcache: value serialization failed")

	// ErrConditionalUnsupported is returned by New when ConditionalAdd is set
	// but the store cannot do create-if-absent uploads.
	ErrConditionalUnsupported = errors.New("bucketcache: store does not support conditional upload")
)

// SerializationError is returned by Set and Add when the codec cannot encode
// the value. It is the only failure that Backend surfaces as an error.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("bucketcache: encode value for key %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
