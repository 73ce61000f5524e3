package incident

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ewill123/nec-callcenter/internal/cache"
	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/store"
	"go.uber.org/zap"
)

const (
	DefaultStoreTimeout = 8 * time.Second
	DefaultListTTL      = 30 * time.Second
)

// ListCache is the subset of cache.RedisCache the service reads lists through.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Options struct {
	Cache        ListCache
	ListTTL      time.Duration
	StoreTimeout time.Duration
	Logger       *zap.Logger
}

// Service forwards submissions, queries and updates to the store. Lists are
// read through the cache when one is configured and every successful
// mutation drops all cached lists.
type Service struct {
	store   store.Store
	cache   ListCache
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

func NewService(s store.Store, opts Options) *Service {
	svc := &Service{
		store:   s,
		cache:   opts.Cache,
		ttl:     opts.ListTTL,
		timeout: opts.StoreTimeout,
		logger:  opts.Logger,
	}
	if svc.ttl <= 0 {
		svc.ttl = DefaultListTTL
	}
	if svc.timeout <= 0 {
		svc.timeout = DefaultStoreTimeout
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Submit stores a validated report. The returned record carries the
// store-assigned id and the pending status. A resolution can only be saved
// through Update, so any resolution on a new report is dropped.
func (s *Service) Submit(ctx context.Context, report model.IncidentReport) (*model.IncidentReport, error) {
	report.Resolution = ""

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.store.Insert(ctx, report)
	if err != nil {
		return nil, asStorageError("insert", err)
	}

	s.invalidate(ctx)
	s.logger.Info("report submitted",
		zap.String("id", stored.ID),
		zap.String("date", stored.Date),
		zap.String("incident_choice", string(stored.IncidentChoice)),
	)
	return stored, nil
}

// List returns reports newest date first, restricted to one category when
// flag is non-nil.
func (s *Service) List(ctx context.Context, flag *model.IncidentChoice) ([]model.IncidentReport, error) {
	filter := store.Filter{}
	if flag != nil {
		filter.IncidentChoice = *flag
	}
	key := cache.ListKey(string(filter.IncidentChoice))

	if reports, ok := s.cached(ctx, key); ok {
		return reports, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reports, err := s.store.Select(ctx, filter)
	if err != nil {
		return nil, asStorageError("select", err)
	}
	if reports == nil {
		reports = []model.IncidentReport{}
	}

	s.remember(ctx, key, reports)
	return reports, nil
}

// ListByDate returns every report logged on date, in list order.
func (s *Service) ListByDate(ctx context.Context, date string) ([]model.IncidentReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reports, err := s.store.Select(ctx, store.Filter{Date: date})
	if err != nil {
		return nil, asStorageError("select", err)
	}
	if reports == nil {
		reports = []model.IncidentReport{}
	}
	return reports, nil
}

// Get looks up one report by id.
func (s *Service) Get(ctx context.Context, id string) (*model.IncidentReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reports, err := s.store.Select(ctx, store.Filter{ID: id})
	if err != nil {
		return nil, asStorageError("select", err)
	}
	if len(reports) == 0 {
		return nil, &model.StorageError{Op: "select", Message: model.ErrNotFound.Error(), Err: model.ErrNotFound}
	}
	return &reports[0], nil
}

// Update saves a resolution. An empty resolution is accepted and leaves the
// report pending; any non-empty resolution marks it resolved, whatever
// status the caller sent.
func (s *Service) Update(ctx context.Context, id, resolution string, status model.Status) error {
	derived := model.StatusFor(resolution)
	if status != "" && status != derived {
		s.logger.Debug("status overridden by resolution",
			zap.String("id", id),
			zap.String("requested", string(status)),
			zap.String("saved", string(derived)),
		)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Update(ctx, id, store.Patch{Resolution: resolution, Status: derived}); err != nil {
		return asStorageError("update", err)
	}

	s.invalidate(ctx)
	s.logger.Info("report updated", zap.String("id", id), zap.String("status", string(derived)))
	return nil
}

// Stats counts reports by status and by incident category.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
	ByDate     map[string]int `json:"by_date"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	reports, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:      len(reports),
		ByStatus:   map[string]int{string(model.StatusPending): 0, string(model.StatusResolved): 0},
		ByCategory: make(map[string]int, len(model.IncidentChoices)+1),
		ByDate:     make(map[string]int),
	}
	for _, c := range model.IncidentChoices {
		stats.ByCategory[string(c)] = 0
	}
	for _, r := range reports {
		stats.ByStatus[string(r.Status)]++
		category := string(r.IncidentChoice)
		if category == "" {
			category = "other"
		}
		stats.ByCategory[category]++
		stats.ByDate[r.Date]++
	}
	return stats, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]model.IncidentReport, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.Miss) {
			s.logger.Warn("list cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var reports []model.IncidentReport
	if err := json.Unmarshal(data, &reports); err != nil {
		s.logger.Warn("list cache entry unreadable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return reports, true
}

func (s *Service) remember(ctx context.Context, key string, reports []model.IncidentReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(reports)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("list cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(model.IncidentChoices)+1)
	keys = append(keys, cache.ListKey(""))
	for _, c := range model.IncidentChoices {
		keys = append(keys, cache.ListKey(string(c)))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("list cache invalidation failed", zap.Error(err))
	}
}

// asStorageError passes store errors through, wrapping anything the store
// did not already classify.
func asStorageError(op string, err error) error {
	var serr *model.StorageError
	if errors.As(err, &serr) {
		return serr
	}
	return model.NewStorageError(op, err)
}
