package util

import (
	"errors"
	"strconv"
	"strings"
)

var ErrEmptyBucket = errors.New("empty bucket name")

// ObjectKey derives the storage object key for a cache key.
// No separator is inserted; prefixes carry their own (e.g. "app1:" or "cache/").
func ObjectKey(prefix, key string) string {
	return prefix + key
}

// BucketKey flattens bucket and object key into one key for stores that have
// no native bucket concept. The bucket is length-prefixed so that
// ("a", "b/c") and ("a/b", "c") never collide.
func BucketKey(bucket, key string) string {
	var b strings.Builder
	b.Grow(len(bucket) + len(key) + 8)
	b.WriteString(strconv.Itoa(len(bucket)))
	b.WriteByte(':')
	b.WriteString(bucket)
	b.WriteByte('/')
	b.WriteString(key)
	return b.String()
}

// CheckBucket rejects bucket names no store can address.
func CheckBucket(bucket string) error {
	if strings.TrimSpace(bucket) == "" {
		return ErrEmptyBucket
	}
	return nil
}
