package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/google/uuid"
)

// MemoryStore keeps reports in process memory. It backs tests and the
// STORE_DRIVER=memory development mode.
type MemoryStore struct {
	mu      sync.Mutex
	reports map[string]memoryEntry
	seq     int64
	now     func() time.Time
}

type memoryEntry struct {
	report model.IncidentReport
	seq    int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Insert(ctx context.Context, report model.IncidentReport) (*model.IncidentReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("insert", err)
	}
	if _, err := time.Parse(model.DateLayout, report.Date); err != nil {
		return nil, model.NewStorageError("insert", fmt.Errorf("invalid date %q: %w", report.Date, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	report.ID = uuid.NewString()
	report.Status = model.StatusPending
	report.CreatedAt = now
	report.UpdatedAt = now

	s.seq++
	s.reports[report.ID] = memoryEntry{report: report, seq: s.seq}
	return &report, nil
}

func (s *MemoryStore) Select(ctx context.Context, filter Filter) ([]model.IncidentReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("select", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]memoryEntry, 0, len(s.reports))
	for _, e := range s.reports {
		if filter.ID != "" && e.report.ID != filter.ID {
			continue
		}
		if filter.IncidentChoice != "" && e.report.IncidentChoice != filter.IncidentChoice {
			continue
		}
		if filter.Date != "" && e.report.Date != filter.Date {
			continue
		}
		entries = append(entries, e)
	}

	// ISO dates compare chronologically as strings.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].report.Date != entries[j].report.Date {
			return entries[i].report.Date > entries[j].report.Date
		}
		return entries[i].seq > entries[j].seq
	})

	reports := make([]model.IncidentReport, len(entries))
	for i, e := range entries {
		reports[i] = e.report
	}
	return reports, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch Patch) error {
	if err := ctx.Err(); err != nil {
		return model.NewStorageError("update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reports[id]
	if !ok {
		return notFound("update", id)
	}
	e.report.Resolution = patch.Resolution
	e.report.Status = patch.Status
	e.report.UpdatedAt = s.now().UTC()
	s.reports[id] = e
	return nil
}

// Len reports how many records are stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
