package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ramp-stack/rust-on-rails-sub000/storage"
)

// CloudStore is a remote key/blob store. Its methods fail with ErrUnavailable
// while the device is offline.
type CloudStore interface {
	storage.Store
}

// CloudKV is a CloudStore over any storage.Store backend with an online
// switch, for platforms without a cloud service and for tests.
type CloudKV struct {
	backend storage.Store
	offline atomic.Bool
}

// NewCloudKV wraps backend. A nil backend uses a MemoryStore.
func NewCloudKV(backend storage.Store) *CloudKV {
	if backend == nil {
		backend = storage.NewMemoryStore()
	}
	return &CloudKV{backend: backend}
}

// SetOnline switches connectivity.
func (c *CloudKV) SetOnline(online bool) {
	if c.offline.Swap(!online) == online {
		Logger().Info("cloud connectivity changed", "online", online)
	}
}

// Online reports connectivity.
func (c *CloudKV) Online() bool {
	return !c.offline.Load()
}

func (c *CloudKV) check() error {
	if c.offline.Load() {
		return newError("cloud", KindUnavailable, "offline")
	}
	return nil
}

func (c *CloudKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := c.check(); err != nil {
		return nil, false, err
	}
	return c.backend.Get(ctx, key)
}

func (c *CloudKV) Set(ctx context.Context, key string, value []byte) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.backend.Set(ctx, key, value)
}

func (c *CloudKV) Delete(ctx context.Context, key string) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.backend.Delete(ctx, key)
}

func (c *CloudKV) Keys(ctx context.Context) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.backend.Keys(ctx)
}

func (c *CloudKV) Close() error {
	return c.backend.Close()
}

// Snapshot fetches keys from cloud. With no keys it fetches every key. Keys
// that fail are skipped and their errors joined; missing keys are omitted.
// Background tasks call it and hand the result to the UI goroutine.
func Snapshot(ctx context.Context, cloud CloudStore, keys ...string) (map[string][]byte, error) {
	if len(keys) == 0 {
		all, err := cloud.Keys(ctx)
		if err != nil {
			return nil, err
		}
		keys = all
	}
	out := make(map[string][]byte, len(keys))
	var errs []error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		b, ok, err := cloud.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			out[key] = b
		}
	}
	return out, errors.Join(errs...)
}
