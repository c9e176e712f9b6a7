// Package importer restores a dataset from an exported JSON backup.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/pizzangooo/loyalty/internal/encoding"
	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Import parses a JSON backup and replaces the local dataset with it. The
// payload is normalized to UTF-8 first and must have the dataset shape;
// nothing is overwritten when validation fails. The save goes through the
// push-triggering path so an import also reaches the sync endpoint.
func (s *Service) Import(ctx context.Context, r io.Reader) (*loyalty.Dataset, error) {
	ur, err := encoding.UTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	data, err := io.ReadAll(ur)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	ds, err := loyalty.DecodeDataset(data)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, err
	}

	return ds, nil
}
