package stock

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Store is the loaded record set. It is built once and never mutated, so it
// is safe for concurrent readers without locking.
type Store struct {
	records []Record
	byID    map[string]int
	meta    Metadata
}

func NewStore(records []Record) (*Store, error) {
	norm, err := normalize(records)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(norm))
	for i, r := range norm {
		byID[r.ID] = i
	}

	return &Store{
		records: norm,
		byID:    byID,
		meta:    Aggregate(norm),
	}, nil
}

func EmptyStore() *Store {
	return &Store{
		records: []Record{},
		byID:    map[string]int{},
		meta:    Aggregate(nil),
	}
}

// LoadStore populates a store from src. A failing source is logged and
// yields an empty store instead of an error.
func LoadStore(ctx context.Context, src Source, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}

	records, err := src.Load(ctx)
	if err != nil {
		log.Error("stock data load failed, serving empty store", zap.Error(err))
		return EmptyStore()
	}

	s, err := NewStore(records)
	if err != nil {
		log.Error("stock data load failed, serving empty store",
			zap.Error(fmt.Errorf("%w: %w", ErrDataLoad, err)))
		return EmptyStore()
	}

	log.Info("stock data loaded", zap.Int("records", s.Len()))
	return s
}

func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the stored records in load order.
func (s *Store) Records() []Record { return slices.Clone(s.records) }

func (s *Store) Get(id string) (Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

func (s *Store) Metadata() Metadata { return s.meta.clone() }
