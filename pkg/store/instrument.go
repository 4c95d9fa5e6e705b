package store

import (
	"context"
	"time"

	"github.com/matzehuels/harnesskit/pkg/observability"
)

// Instrument wraps s so every call is reported to the registered
// observability store hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) record(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Put(ctx context.Context, key string, doc []byte) error {
	start := time.Now()
	err := s.Store.Put(ctx, key, doc)
	s.record(ctx, "put", start, err)
	return err
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.Store.Get(ctx, key)
	s.record(ctx, "get", start, err)
	return data, err
}

func (s *instrumented) List(ctx context.Context) ([]Info, error) {
	start := time.Now()
	infos, err := s.Store.List(ctx)
	s.record(ctx, "list", start, err)
	return infos, err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, key)
	s.record(ctx, "delete", start, err)
	return err
}
