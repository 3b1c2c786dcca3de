package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// ReportsMemoryStorage — in-memory реализация ReportsStorage. Данные отчёта
// хранятся прямо в записи (local blob mode).
type ReportsMemoryStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]storage.ReportMeta
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{
		reports: make(map[uuid.UUID]storage.ReportMeta),
	}
}

func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	s.reports[report.ID] = *report

	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &report, nil
}

func (s *ReportsMemoryStorage) ListReports(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]storage.ReportMeta, 0)
	for _, r := range s.reports {
		if r.OwnerID == ownerID {
			all = append(all, r)
		}
	}

	// Newest first, как в Postgres реализации.
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []storage.ReportMeta{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.reports, id)

	return nil
}
