// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ProbeErrorEvery: 10, // sample logs: ~every 10th failed probe
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := bucketcache.New[Session](bucketcache.Options[Session]{
//	    Bucket:    "cache-bucket",
//	    KeyPrefix: "app1:",
//	    Store:     store,
//	    Codec:     codec.Gob[Session]{},
//	    Hooks:     hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/bucketcache"
)

// Hooks forwards events to inner on worker goroutines. When the queue is
// full events are dropped and counted; the cache call never blocks.
type Hooks struct {
	inner   bucketcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ bucketcache.Hooks = (*Hooks)(nil)

func New(inner bucketcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full or closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) StorageError(op, k string, err error) {
	h.try(func() { h.inner.StorageError(op, k, err) })
}
func (h *Hooks) DecodeError(k string, err error) { h.try(func() { h.inner.DecodeError(k, err) }) }
func (h *Hooks) ProbeError(k string, err error)  { h.try(func() { h.inner.ProbeError(k, err) }) }
func (h *Hooks) AddConflict(k string)            { h.try(func() { h.inner.AddConflict(k) }) }
