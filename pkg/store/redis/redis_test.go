package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/harnesskit/pkg/store/storetest"
)

// Set HARNESSKIT_TEST_REDIS to a Redis address to run against a live server.
func TestStore(t *testing.T) {
	addr := os.Getenv("HARNESSKIT_TEST_REDIS")
	if addr == "" {
		t.Skip("HARNESSKIT_TEST_REDIS not set")
	}
	ctx := context.Background()
	prefix := fmt.Sprintf("harnesskit-test-%d:", time.Now().UnixNano())
	s, err := Open(ctx, Config{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := s.client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			s.client.Del(ctx, keys...)
		}
		s.Close()
	})
	storetest.Run(t, s)
}

func TestKeys(t *testing.T) {
	s := New(nil, "")
	if got := s.docKey("loom"); got != "harnesskit:doc:loom" {
		t.Errorf("docKey = %q", got)
	}
	if got := s.metaKey("loom"); got != "harnesskit:meta:loom" {
		t.Errorf("metaKey = %q", got)
	}
	if got := New(nil, "x:").indexKey(); got != "x:index" {
		t.Errorf("indexKey = %q", got)
	}
}

func TestParseMeta(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	info := parseMeta("loom", map[string]string{
		"hash":       "abc",
		"size":       "42",
		"updated_at": fmt.Sprint(ts.UnixNano()),
	})
	if info.Key != "loom" || info.Hash != "abc" || info.Size != 42 || !info.UpdatedAt.Equal(ts) {
		t.Errorf("parseMeta = %+v", info)
	}
}

func TestParseURL(t *testing.T) {
	cfg, err := ParseURL("redis://:secret@cache.local:6380/2")
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Addr: "cache.local:6380", Password: "secret", DB: 2}
	if cfg != want {
		t.Errorf("ParseURL = %+v, want %+v", cfg, want)
	}
	if _, err := ParseURL("http://nope"); err == nil {
		t.Error("ParseURL accepted an http URL")
	}
}
