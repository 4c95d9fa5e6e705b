// Package storetest checks that a store.Store implementation behaves like the
// reference backends. Backend packages call [Run] from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/harnesskit/pkg/cache"
	"github.com/matzehuels/harnesskit/pkg/store"
)

// Run exercises s. The store must be empty when Run is called.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		infos, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(infos) != 0 {
			t.Fatalf("List = %v, want empty", infos)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(missing) = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutGetReplace", func(t *testing.T) {
		if err := s.Put(ctx, "loom", []byte(`{"v":1}`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "loom")
		if err != nil || string(got) != `{"v":1}` {
			t.Fatalf("Get = %q, %v", got, err)
		}
		if err := s.Put(ctx, "loom", []byte(`{"v":2}`)); err != nil {
			t.Fatalf("Put replace: %v", err)
		}
		got, err = s.Get(ctx, "loom")
		if err != nil || string(got) != `{"v":2}` {
			t.Fatalf("Get after replace = %q, %v", got, err)
		}
	})

	t.Run("ListSorted", func(t *testing.T) {
		for _, key := range []string{"zeta", "alpha"} {
			if err := s.Put(ctx, key, []byte(key)); err != nil {
				t.Fatalf("Put(%s): %v", key, err)
			}
		}
		infos, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var keys []string
		for _, info := range infos {
			keys = append(keys, info.Key)
		}
		want := []string{"alpha", "loom", "zeta"}
		if len(keys) != len(want) {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Fatalf("keys = %v, want %v", keys, want)
			}
		}
		alpha := infos[0]
		if alpha.Size != len("alpha") || alpha.Hash != cache.Hash([]byte("alpha")) {
			t.Errorf("alpha info = %+v", alpha)
		}
		if alpha.UpdatedAt.IsZero() {
			t.Error("alpha UpdatedAt is zero")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, "zeta"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, "zeta"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get after Delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("InvalidKey", func(t *testing.T) {
		for _, key := range []string{"", "../escape", "a b", ".hidden"} {
			if err := s.Put(ctx, key, []byte("x")); err == nil {
				t.Errorf("Put(%q) succeeded", key)
			}
		}
	})
}
