// Package bucketcache implements a key/value cache backend on top of an
// object-storage bucket (S3 or anything that speaks the objectstore.Store
// contract).
//
// Components:
//   - Store: bucket-scoped byte store (objectstore/s3, objectstore/redis,
//     objectstore/bigcache, objectstore/ristretto). The bigcache and
//     ristretto stores are in-memory and may evict objects (LifeWindow,
//     cost budget); use them for tests and development, not as durable buckets.
//   - Codec[V]: (de)serializes V <-> []byte; the object body is exactly the
//     encoded value.
//   - Logger / Hooks: storage failures never reach the caller as errors;
//     they are logged and reported through Hooks.
//
// Keys:
//
//	<KeyPrefix><key>  - one object per cache entry in Bucket
//
// Expiry is not enforced. Timeouts passed to Set and Add are accepted and
// ignored, so entries live until deleted or removed by a bucket lifecycle rule.
//
// Add is check-then-set unless Options.ConditionalAdd is set and the store
// implements objectstore.ConditionalUploader:
//
//	ok, err := cache.Add(ctx, "session-42", v, 0) // false if the key exists
package bucketcache
