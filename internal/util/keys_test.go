package util

import "testing"

func TestObjectKeyConcatenates(t *testing.T) {
	if got := ObjectKey("app1:", "session-42"); got != "app1:session-42" {
		t.Fatalf("got %q", got)
	}
	if got := ObjectKey("", "k"); got != "k" {
		t.Fatalf("empty prefix: got %q", got)
	}
}

func TestBucketKeyNoCollision(t *testing.T) {
	a := BucketKey("a", "b/c")
	b := BucketKey("a/b", "c")
	if a == b {
		t.Fatalf("bucket keys collide: %q", a)
	}
	if a != "1:a/b/c" {
		t.Fatalf("unexpected layout: %q", a)
	}
}

func TestCheckBucket(t *testing.T) {
	for _, bad := range []string{"", "   "} {
		if err := CheckBucket(bad); err != ErrEmptyBucket {
			t.Fatalf("CheckBucket(%q) = %v", bad, err)
		}
	}
	if err := CheckBucket("cache-bucket"); err != nil {
		t.Fatalf("valid bucket rejected: %v", err)
	}
}
