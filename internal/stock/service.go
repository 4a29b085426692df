package stock

import (
	"context"

	"go.uber.org/zap"
)

type SearchResult struct {
	Records []Record `json:"value"`
	Total   int      `json:"count"`
	Skip    int      `json:"skip"`
	Top     int      `json:"top"`
}

// Service answers stock queries against one immutable Store.
type Service struct {
	store   *Store
	log     *zap.Logger
	metrics *Metrics
}

func NewService(store *Store, log *zap.Logger, metrics *Metrics) *Service {
	if store == nil {
		store = EmptyStore()
	}
	if log == nil {
		log = zap.NewNop()
	}
	metrics.setRecords(store.Len())

	return &Service{store: store, log: log, metrics: metrics}
}

func (s *Service) Search(_ context.Context, c Criteria, p PageRequest) (SearchResult, error) {
	if err := p.Validate(); err != nil {
		return SearchResult{}, err
	}

	s.log.Info("stock search",
		zap.String("product", c.Product),
		zap.String("stock_type", c.StockType),
		zap.String("batch", c.Batch),
		zap.String("handling_unit", c.HandlingUnit),
		zap.String("storage_bin", c.StorageBin),
	)

	matched := Filter(s.store.records, c)
	page, total := Paginate(matched, p.Skip, p.Top)

	s.log.Info("stock search done",
		zap.Int("returned", len(page)),
		zap.Int("matched", total),
	)
	s.metrics.observeSearch(total)

	return SearchResult{
		Records: page,
		Total:   total,
		Skip:    p.Skip,
		Top:     p.Top,
	}, nil
}

func (s *Service) Get(_ context.Context, id string) (Record, error) {
	r, ok := s.store.Get(id)
	s.metrics.observeLookup(ok)
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) Metadata(_ context.Context) Metadata {
	return s.store.Metadata()
}

func (s *Service) Len() int { return s.store.Len() }
