package bucketcache

// Hooks is a structured side channel for failures the Backend absorbs into
// false/absent results. Implementations MUST be cheap and non-blocking;
// wrap slow sinks with hooks/async.
type Hooks interface {
	// A store request failed for a reason other than not-found.
	// op ∈ {"get", "set", "add", "delete"}
	StorageError(op, storageKey string, err error)

	// Stored bytes could not be decoded by the codec on Get.
	DecodeError(storageKey string, err error)

	// The existence probe failed with something other than not-found
	// (permissions, network). Callers still observe "missing".
	ProbeError(storageKey string, err error)

	// Add found the key already present (either by probe or by a rejected
	// conditional upload) and did not write.
	AddConflict(storageKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) StorageError(string, string, error) {}
func (NopHooks) DecodeError(string, error)          {}
func (NopHooks) ProbeError(string, error)           {}
func (NopHooks) AddConflict(string)                 {}
