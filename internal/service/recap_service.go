package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-api/internal/models"
	"github.com/noah-isme/absensi-api/pkg/export"
)

const recapVersionKey = "recap:ver"

type aggregatedQuerier interface {
	QueryAggregated(ctx context.Context, filter models.AttendanceFilter) ([]models.AggregatedRow, error)
}

type recapCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RecapService serves the admin recap: the aggregated, filtered attendance
// view, cached for a short TTL and renderable as CSV or PDF. Cache keys are
// versioned; a submission bumps the version instead of scanning for keys.
type RecapService struct {
	attendance *AttendanceService
	cache      recapCache
	metrics    *MetricsService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
	ttl        time.Duration
}

// NewRecapService constructs the recap service. A nil cache disables caching.
func NewRecapService(attendance *AttendanceService, cache recapCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *RecapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RecapService{
		attendance: attendance,
		cache:      cache,
		metrics:    metrics,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		ttl:        ttl,
	}
}

// Aggregate returns the recap rows for a filter, serving from cache when a
// fresh entry exists. The second return reports a cache hit.
func (s *RecapService) Aggregate(ctx context.Context, filter models.AttendanceFilter) ([]models.AggregatedRow, bool, error) {
	key := s.cacheKey(ctx, filter)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			var rows []models.AggregatedRow
			if jsonErr := json.Unmarshal([]byte(raw), &rows); jsonErr == nil {
				s.metrics.RecordCacheOperation(true)
				return rows, true, nil
			}
			s.logger.Warn("recap cache entry corrupt", zap.String("key", key))
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("recap cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	rows, err := s.attendance.Aggregate(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if payload, jsonErr := json.Marshal(rows); jsonErr == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn("recap cache write failed", zap.Error(err))
			}
		}
	}
	return rows, false, nil
}

// Invalidate bumps the cache version so stale recaps stop being served after
// a new submission.
func (s *RecapService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, recapVersionKey).Err(); err != nil {
		s.logger.Warn("recap cache invalidation failed", zap.Error(err))
	}
}

// RenderCSV renders recap rows as a CSV download.
func (s *RecapService) RenderCSV(rows []models.AggregatedRow) ([]byte, error) {
	return s.csv.Render(recapDataset(rows))
}

// RenderPDF renders recap rows as a PDF download.
func (s *RecapService) RenderPDF(rows []models.AggregatedRow, title string) ([]byte, error) {
	return s.pdf.Render(recapDataset(rows), title)
}

func (s *RecapService) cacheKey(ctx context.Context, filter models.AttendanceFilter) string {
	version := "0"
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, recapVersionKey).Result(); err == nil {
			version = v
		}
	}
	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	start, end := filter.DateRange()
	return fmt.Sprintf("recap:%s:%s|%s|%s|%s|%s", version, filter.NIM, filter.ClassName, status, start, end)
}

func recapDataset(rows []models.AggregatedRow) export.Dataset {
	data := export.Dataset{
		Headers: []string{"NIM", "Nama", "Kelas", "Tanggal", "Status", "Keterangan"},
	}
	for _, row := range rows {
		class := ""
		if row.StudentClass != nil {
			class = *row.StudentClass
		}
		reason := ""
		if row.Reason != nil {
			reason = *row.Reason
		}
		data.Rows = append(data.Rows, []string{
			row.StudentNIM,
			row.StudentName,
			class,
			row.Date,
			string(row.Status),
			reason,
		})
	}
	return data
}
