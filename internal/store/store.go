// Package store persists the whole dataset as one serialized blob in a
// key-value backend, and forwards every save to the sync endpoint as a
// fire-and-forget push.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

const (
	datasetKey = "loyalty_db"
	syncURLKey = "sync_url"
)

// Pusher replicates a dataset to the configured sync endpoint without
// blocking the caller. The local write has already succeeded by the time a
// push happens, so push failures stay inside the Pusher.
type Pusher interface {
	PushAsync(ds *loyalty.Dataset)
}

// Store owns the persisted copy of the dataset.
type Store struct {
	kv     KV
	pusher Pusher
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// SetPusher wires the sync manager in after construction; store and sync
// reference each other, so one of the two hooks up late.
func (s *Store) SetPusher(p Pusher) {
	s.pusher = p
}

// Load returns the dataset. The first load initializes and persists the
// empty triple.
func (s *Store) Load(ctx context.Context) (*loyalty.Dataset, error) {
	data, err := s.kv.Get(ctx, datasetKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			ds := loyalty.NewDataset()
			if err := s.Replace(ctx, ds); err != nil {
				return nil, err
			}

			return ds, nil
		}

		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	ds, err := loyalty.DecodeDataset(data)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	return ds, nil
}

// Save persists the dataset and triggers a background push to the sync
// endpoint. The push never fails the save.
func (s *Store) Save(ctx context.Context, ds *loyalty.Dataset) error {
	if err := s.Replace(ctx, ds); err != nil {
		return err
	}

	if s.pusher != nil {
		s.pusher.PushAsync(ds)
	}

	return nil
}

// Replace persists the dataset without triggering a push. Sync pulls use it
// so that applying remote state does not echo straight back to the remote.
func (s *Store) Replace(ctx context.Context, ds *loyalty.Dataset) error {
	data, err := loyalty.EncodeDataset(ds)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, datasetKey, data); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	return nil
}

// SyncURL returns the persisted sync endpoint URL. ok is false when no value
// was ever stored, which lets the caller fall back to a configured default;
// an explicitly stored empty string disables sync.
func (s *Store) SyncURL(ctx context.Context) (url string, ok bool, err error) {
	data, err := s.kv.Get(ctx, syncURLKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("loading sync url: %w", err)
	}

	return string(data), true, nil
}

// SetSyncURL persists the sync endpoint URL, kept separate from the dataset.
func (s *Store) SetSyncURL(ctx context.Context, url string) error {
	if err := s.kv.Set(ctx, syncURLKey, []byte(url)); err != nil {
		return fmt.Errorf("saving sync url: %w", err)
	}

	return nil
}
