package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joinnextblock/attn-protocol-sub001/config/keyvalue"
)

func TestGetEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := strings.Join([]string{
		"# relay settings",
		"",
		"APP_NAME=testrelay",
		"export RATE_QUOTA=10",
		"HOOK_TIMEOUT = 2s",
		"garbage line with no separator",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := GetEnv(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := e.LookupEnv("APP_NAME"); !ok || v != "testrelay" {
		t.Fatalf("APP_NAME %q %v", v, ok)
	}
	if v, ok := e.LookupEnv("RATE_QUOTA"); !ok || v != "10" {
		t.Fatalf("export prefix not stripped: %q %v", v, ok)
	}
	if v, ok := e.LookupEnv("HOOK_TIMEOUT"); !ok || v != "2s" {
		t.Fatalf("spaces not trimmed: %q %v", v, ok)
	}
	if _, ok := e.LookupEnv("garbage line with no separator"); ok {
		t.Fatal("separator-less line parsed")
	}
}

func TestKindQuotas(t *testing.T) {
	cfg := C{RateKindQuotas: []st{"38003:240", " 8000:1200 ", "38004:1"}}
	quotas, err := cfg.KindQuotas()
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint16]no{38003: 240, 8000: 1200, 38004: 1}
	if len(quotas) != len(want) {
		t.Fatalf("got %d overrides, want %d", len(quotas), len(want))
	}
	for k, q := range want {
		if quotas[k] != q {
			t.Fatalf("kind %d quota %d, want %d", k, quotas[k], q)
		}
	}
	for _, bad := range []st{"38003", "x:1", "38003:y", "38003:0", "99999:1"} {
		cfg = C{RateKindQuotas: []st{bad}}
		if _, err = cfg.KindQuotas(); err == nil {
			t.Fatalf("pair %q parsed without error", bad)
		}
	}
}

func TestEnvKV(t *testing.T) {
	cfg := C{
		AppName:     "attnrelay",
		RateQuota:   60,
		HookTimeout: 5 * time.Second,
		Whitelist:   []st{"aa", "bb"},
	}
	kvs := keyvalue.EnvKV(cfg)
	got := make(map[st]st, len(kvs))
	for _, kv := range kvs {
		got[kv.Key] = kv.Value
	}
	if got["APP_NAME"] != "attnrelay" {
		t.Fatalf("APP_NAME %q", got["APP_NAME"])
	}
	if got["RATE_QUOTA"] != "60" {
		t.Fatalf("RATE_QUOTA %q", got["RATE_QUOTA"])
	}
	if got["HOOK_TIMEOUT"] != "5s" {
		t.Fatalf("HOOK_TIMEOUT %q", got["HOOK_TIMEOUT"])
	}
	if got["WHITELIST"] != "aa,bb" {
		t.Fatalf("WHITELIST %q", got["WHITELIST"])
	}
}
