// Package redis stores harness documents in Redis.
//
// Each document is a string at <prefix>doc:<key>, its metadata a hash at
// <prefix>meta:<key>, and the set <prefix>index lists every stored key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/harnesskit/pkg/store"
)

// DefaultPrefix namespaces all keys written by the store.
const DefaultPrefix = "harnesskit:"

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// ParseURL reads settings from a redis:// URL such as
// redis://:secret@localhost:6379/2.
func ParseURL(url string) (Config, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return Config{}, fmt.Errorf("parse redis url: %w", err)
	}
	return Config{Addr: opt.Addr, Password: opt.Password, DB: opt.DB}, nil
}

// Store is a Redis-backed store.Store.
type Store struct {
	client *goredis.Client
	prefix string
}

// Open connects to Redis and checks the connection with PING.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return New(client, cfg.Prefix), nil
}

// New wraps an existing client. An empty prefix uses DefaultPrefix.
func New(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) docKey(key string) string  { return s.prefix + "doc:" + key }
func (s *Store) metaKey(key string) string { return s.prefix + "meta:" + key }
func (s *Store) indexKey() string          { return s.prefix + "index" }

func (s *Store) Put(ctx context.Context, key string, doc []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	info := store.NewInfo(key, doc, time.Now())
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.docKey(key), doc, 0)
		p.HSet(ctx, s.metaKey(key),
			"hash", info.Hash,
			"size", info.Size,
			"updated_at", info.UpdatedAt.UnixNano())
		p.SAdd(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.docKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) List(ctx context.Context) ([]store.Info, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sort.Strings(keys)

	infos := make([]store.Info, 0, len(keys))
	for _, key := range keys {
		meta, err := s.client.HGetAll(ctx, s.metaKey(key)).Result()
		if err != nil {
			return nil, fmt.Errorf("read metadata %s: %w", key, err)
		}
		if len(meta) == 0 {
			continue
		}
		infos = append(infos, parseMeta(key, meta))
	}
	return infos, nil
}

func parseMeta(key string, meta map[string]string) store.Info {
	size, _ := strconv.Atoi(meta["size"])
	updated, _ := strconv.ParseInt(meta["updated_at"], 10, 64)
	return store.Info{
		Key:       key,
		Hash:      meta["hash"],
		Size:      size,
		UpdatedAt: time.Unix(0, updated).UTC(),
	}
}

func (s *Store) Delete(ctx context.Context, key string) error {
	var del *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		del = p.Del(ctx, s.docKey(key))
		p.Del(ctx, s.metaKey(key))
		p.SRem(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if del.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }

var _ store.Store = (*Store)(nil)
