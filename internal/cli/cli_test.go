package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unkn0wn-root/bucketcache"
	"github.com/unkn0wn-root/bucketcache/codec"
	"github.com/unkn0wn-root/bucketcache/config"
	bcstore "github.com/unkn0wn-root/bucketcache/objectstore/bigcache"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

// sharedFactory keeps one in-memory store across invocations so a sequence
// of commands sees the same bucket.
func sharedFactory(t *testing.T) BackendFactory {
	t.Helper()
	store, err := bcstore.New(context.Background(), bcstore.Config{})
	if err != nil {
		t.Fatalf("bigcache store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return func(_ context.Context, cfg *config.Config, log bucketcache.Logger) (bucketcache.Backend[string], error) {
		return bucketcache.New(bucketcache.Options[string]{
			Bucket:         cfg.Bucket,
			KeyPrefix:      cfg.KeyPrefix,
			Store:          store,
			Codec:          codec.String{},
			DefaultTimeout: cfg.DefaultTimeoutDuration(),
			Logger:         log,
		})
	}
}

func run(t *testing.T, f BackendFactory, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, &out, &errOut, f)
	return code, strings.TrimSpace(out.String()), errOut.String()
}

func TestCommandSequence(t *testing.T) {
	cfg := writeConfig(t, `
bucket_name = "cache-bucket"
key_prefix = "app1:"
log_level = "error"
`)
	f := sharedFactory(t)

	steps := []struct {
		args []string
		code int
		out  string
	}{
		{[]string{"get", "session-42"}, ExitFalse, ""},
		{[]string{"has", "session-42"}, ExitFalse, "false"},
		{[]string{"set", "session-42", "alice"}, ExitOK, "true"},
		{[]string{"get", "session-42"}, ExitOK, "alice"},
		{[]string{"exists", "session-42"}, ExitOK, "true"},
		{[]string{"has", "session-42"}, ExitOK, "true"},
		{[]string{"add", "session-42", "bob"}, ExitFalse, "false"},
		{[]string{"get", "session-42"}, ExitOK, "alice"},
		{[]string{"clear"}, ExitFalse, "false"},
		{[]string{"delete", "session-42"}, ExitOK, "true"},
		{[]string{"delete", "session-42"}, ExitFalse, "false"},
		{[]string{"add", "session-42", "bob"}, ExitOK, "true"},
		{[]string{"get", "session-42"}, ExitOK, "bob"},
	}
	for _, s := range steps {
		args := append([]string{"--config", cfg}, s.args...)
		code, out, errOut := run(t, f, args...)
		if code != s.code || out != s.out {
			t.Fatalf("%v: code=%d out=%q (want %d %q) stderr=%s", s.args, code, out, s.code, s.out, errOut)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	cfg := writeConfig(t, "bucket_name = \"b\"\nkey_prefix = \"p:\"\n")
	f := sharedFactory(t)

	if code, _, _ := run(t, f, "--config", cfg, "get"); code != ExitUsage {
		t.Fatalf("missing arg: code=%d", code)
	}
	if code, _, _ := run(t, f, "--config", cfg, "set", "only-key"); code != ExitUsage {
		t.Fatalf("missing value: code=%d", code)
	}
	if code, _, _ := run(t, f, "--config", cfg, "bogus"); code != ExitUsage {
		t.Fatalf("unknown command: code=%d", code)
	}
}

func TestConfigErrors(t *testing.T) {
	f := sharedFactory(t)

	noPrefix := writeConfig(t, "bucket_name = \"b\"\n")
	code, _, errOut := run(t, f, "--config", noPrefix, "get", "k")
	if code != ExitUsage || !strings.Contains(errOut, "key_prefix is required") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}

	badLevel := writeConfig(t, "bucket_name = \"b\"\nkey_prefix = \"p:\"\nlog_level = \"loud\"\n")
	code, _, errOut = run(t, f, "--config", badLevel, "get", "k")
	if code != ExitUsage || !strings.Contains(errOut, "log_level") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestDefaultFactoryRejectsUnknownStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bucket = "b"
	cfg.KeyPrefix = "p:"
	cfg.Store = "gcs"
	if _, err := DefaultFactory(context.Background(), cfg, bucketcache.NopLogger{}); err == nil {
		t.Fatal("expected error for unknown store")
	}
}
