package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/api/metrics"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
)

const (
	defaultPageSize    = 10
	defaultMaxPageSize = 100
)

// HistoryService appends resolution outcomes to the immutable search history
// and serves it back as stable, most-recent-first pages.
type HistoryService struct {
	repo        ports.SearchRecordRepository
	maxPageSize int
	logger      zerolog.Logger
}

// NewHistoryService creates a HistoryService. maxPageSize <= 0 falls back to 100.
func NewHistoryService(repo ports.SearchRecordRepository, maxPageSize int, logger zerolog.Logger) *HistoryService {
	if maxPageSize <= 0 {
		maxPageSize = defaultMaxPageSize
	}
	return &HistoryService{repo: repo, maxPageSize: maxPageSize, logger: logger}
}

// Record appends one history entry for a completed resolution. Results served
// from the cache are recorded exactly like fresh ones: the history tracks
// what users asked, not what the upstream was asked.
func (s *HistoryService) Record(ctx context.Context, result *domain.ResolutionResult) (*domain.SearchRecord, error) {
	record := &domain.SearchRecord{
		CityID:       result.Query.CityID,
		CityName:     result.CityName,
		StartDate:    result.Query.StartDate,
		EndDate:      result.Query.EndDate,
		MinMagnitude: result.Query.MinMagnitude,
		VerboseMsg:   result.VerboseMsg,
		CreatedAt:    time.Now().UTC(),
	}
	if result.Nearest != nil {
		mag := result.Nearest.Magnitude
		ts := result.Nearest.Time
		dist := result.DistanceKm
		record.Location = result.Nearest.Place
		record.Magnitude = &mag
		record.Time = &ts
		record.DistanceKm = &dist
	}

	created, err := s.repo.Insert(ctx, record)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("record resolution: %w", err)
	}
	metrics.HistoryWritesTotal.WithLabelValues("ok").Inc()

	s.logger.Debug().
		Int64("seq", created.Seq).
		Str("city", created.CityName).
		Msg("history record appended")

	return created, nil
}

// List returns one page of history. Out-of-range paging inputs are clamped,
// not rejected: page < 1 becomes 1, pageSize < 1 becomes the default, and
// pageSize above the configured maximum is capped.
func (s *HistoryService) List(ctx context.Context, page, pageSize int) (*ports.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	records, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &ports.HistoryPage{
		Records:     records,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}, nil
}
