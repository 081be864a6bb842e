package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/bucketcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ProbeErrorEvery  uint64
	AddConflictEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	// Storage keys often embed user or session ids.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	probeCtr    atomic.Uint64
	conflictCtr atomic.Uint64
}

var _ bucketcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) StorageError(op, storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("bucketcache.storage_error",
		"op", op,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) DecodeError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("bucketcache.decode_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) ProbeError(storageKey string, err error) {
	if h.l == nil || !sample(h.opts.ProbeErrorEvery, &h.probeCtr) {
		return
	}
	h.l.Warn("bucketcache.probe_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) AddConflict(storageKey string) {
	if h.l == nil || !sample(h.opts.AddConflictEvery, &h.conflictCtr) {
		return
	}
	h.l.Debug("bucketcache.add_conflict",
		"key", h.redact(storageKey))
}
