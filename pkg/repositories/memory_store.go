package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

// RecordRepository provides access to the three sales datasets.
type RecordRepository interface {
	BulkInsertAdSales(ctx context.Context, records []*models.AdSalesRecord) error
	BulkInsertTotalSales(ctx context.Context, records []*models.TotalSalesRecord) error
	BulkInsertEligibility(ctx context.Context, records []*models.EligibilityRecord) error

	ListAdSales(ctx context.Context) ([]*models.AdSalesRecord, error)
	ListTotalSales(ctx context.Context) ([]*models.TotalSalesRecord, error)
	ListEligibility(ctx context.Context) ([]*models.EligibilityRecord, error)

	// TableRows returns the named table as engine rows in storage order.
	// The second return value is false when the table name is unknown.
	TableRows(ctx context.Context, table string) ([]models.Row, bool)

	Counts(ctx context.Context) (models.DataCounts, error)
}

// QueryHistoryRepository provides access to the query history log.
type QueryHistoryRepository interface {
	Create(ctx context.Context, question, sql, result string) (*models.QueryHistoryEntry, error)
	// List returns at most limit entries, most recent first.
	List(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps every collection in process memory for the lifetime of the process.
// A single id sequence spans all record types and history; ids are allocated and
// records inserted under the same write lock, so ids are unique and increasing.
type MemoryStore struct {
	mu sync.RWMutex

	lastID        int64
	lastHistoryAt time.Time

	adSales     []*models.AdSalesRecord
	totalSales  []*models.TotalSalesRecord
	eligibility []*models.EligibilityRecord
	history     []*models.QueryHistoryEntry

	now func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

var (
	_ RecordRepository       = (*MemoryStore)(nil)
	_ QueryHistoryRepository = (*MemoryStore)(nil)
)

// nextID must be called with mu held for writing.
func (s *MemoryStore) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *MemoryStore) BulkInsertAdSales(ctx context.Context, records []*models.AdSalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		rec := *r
		rec.ID = s.nextID()
		s.adSales = append(s.adSales, &rec)
	}
	return nil
}

func (s *MemoryStore) BulkInsertTotalSales(ctx context.Context, records []*models.TotalSalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		rec := *r
		rec.ID = s.nextID()
		s.totalSales = append(s.totalSales, &rec)
	}
	return nil
}

func (s *MemoryStore) BulkInsertEligibility(ctx context.Context, records []*models.EligibilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		rec := *r
		rec.ID = s.nextID()
		s.eligibility = append(s.eligibility, &rec)
	}
	return nil
}

func (s *MemoryStore) ListAdSales(ctx context.Context) ([]*models.AdSalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AdSalesRecord, len(s.adSales))
	for i, r := range s.adSales {
		rec := *r
		out[i] = &rec
	}
	return out, nil
}

func (s *MemoryStore) ListTotalSales(ctx context.Context) ([]*models.TotalSalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.TotalSalesRecord, len(s.totalSales))
	for i, r := range s.totalSales {
		rec := *r
		out[i] = &rec
	}
	return out, nil
}

func (s *MemoryStore) ListEligibility(ctx context.Context) ([]*models.EligibilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.EligibilityRecord, len(s.eligibility))
	for i, r := range s.eligibility {
		rec := *r
		out[i] = &rec
	}
	return out, nil
}

func (s *MemoryStore) TableRows(ctx context.Context, table string) ([]models.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []models.Row
	switch table {
	case models.TableAdSales:
		rows = make([]models.Row, 0, len(s.adSales))
		for _, r := range s.adSales {
			rows = append(rows, r.Row())
		}
	case models.TableTotalSales:
		rows = make([]models.Row, 0, len(s.totalSales))
		for _, r := range s.totalSales {
			rows = append(rows, r.Row())
		}
	case models.TableEligibility:
		rows = make([]models.Row, 0, len(s.eligibility))
		for _, r := range s.eligibility {
			rows = append(rows, r.Row())
		}
	default:
		return nil, false
	}
	return rows, true
}

func (s *MemoryStore) Counts(ctx context.Context) (models.DataCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.DataCounts{
		AdSales:     len(s.adSales),
		TotalSales:  len(s.totalSales),
		Eligibility: len(s.eligibility),
	}, nil
}

// Create appends a history entry. Timestamps are forced to be strictly
// increasing so that most-recent-first ordering is total.
func (s *MemoryStore) Create(ctx context.Context, question, sql, result string) (*models.QueryHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if !ts.After(s.lastHistoryAt) {
		ts = s.lastHistoryAt.Add(time.Nanosecond)
	}
	s.lastHistoryAt = ts

	entry := &models.QueryHistoryEntry{
		ID:        s.nextID(),
		Question:  question,
		SQL:       sql,
		Result:    result,
		Timestamp: ts,
	}
	s.history = append(s.history, entry)

	out := *entry
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.history)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}

	out := make([]*models.QueryHistoryEntry, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		entry := *s.history[i]
		out = append(out, &entry)
	}
	return out, nil
}

// Clear drops every history entry. The id sequence is not reset.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	return nil
}
