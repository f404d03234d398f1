package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
	"fraudguard/internal/storage"
)

const (
	DefaultTrendDays   = 30
	DefaultCacheTTL    = 30 * time.Second
	highRiskScoreFloor = 0.7
)

type AnalyticsServiceImpl struct {
	repo     storage.AnalyticsRepository
	notify   Notifier
	ttl      time.Duration
	minScore float64
	now      func() time.Time
}

// NewAnalyticsService caches reads in the notifier's cache for ttl. A zero ttl uses
// DefaultCacheTTL; a zero minScore uses 0.7.
func NewAnalyticsService(repo storage.AnalyticsRepository, n Notifier, ttl time.Duration, minScore float64) AnalyticsService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if minScore <= 0 {
		minScore = highRiskScoreFloor
	}
	return &AnalyticsServiceImpl{repo: repo, notify: n, ttl: ttl, minScore: minScore, now: time.Now}
}

// cached is a read-through helper over the analytics: key space. Cache failures
// degrade to a direct load.
func cached[T any](ctx context.Context, s *AnalyticsServiceImpl, key string, load func() (T, error)) (T, error) {
	key = analyticsPrefix + key
	cache := s.notify.cache

	if cache != nil {
		var v T
		found, err := cache.GetJSON(ctx, key, &v)
		if err != nil {
			slog.WarnContext(ctx, "analytics cache read failed", "key", key, "error", err)
		} else {
			s.notify.metrics.RecordCache(found)
			if found {
				return v, nil
			}
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if cache != nil {
		if err := cache.SetJSON(ctx, key, v, s.ttl); err != nil {
			slog.WarnContext(ctx, "analytics cache write failed", "key", key, "error", err)
		}
	}
	return v, nil
}

func (s *AnalyticsServiceImpl) Statistics(ctx context.Context) (*models.Statistics, error) {
	return cached(ctx, s, "statistics", func() (*models.Statistics, error) {
		return s.repo.Statistics(ctx)
	})
}

func (s *AnalyticsServiceImpl) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return cached(ctx, s, "dashboard", func() (*models.DashboardStats, error) {
		return s.repo.Dashboard(ctx, s.now())
	})
}

// Trends reports one row per day over the last days days (30 when days <= 0).
func (s *AnalyticsServiceImpl) Trends(ctx context.Context, days int) (*models.TrendReport, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > 366 {
		return nil, apperrors.Invalid("days must be at most 366")
	}
	return cached(ctx, s, fmt.Sprintf("trends:%d", days), func() (*models.TrendReport, error) {
		data, err := s.repo.DailyTrends(ctx, s.since(days))
		if err != nil {
			return nil, err
		}
		return &models.TrendReport{Period: fmt.Sprintf("%d days", days), Data: data}, nil
	})
}

func (s *AnalyticsServiceImpl) FraudByCountry(ctx context.Context, byRate bool) ([]models.CountryStat, error) {
	return cached(ctx, s, fmt.Sprintf("fraud-by-country:%t", byRate), func() ([]models.CountryStat, error) {
		return s.repo.FraudByCountry(ctx, byRate)
	})
}

func (s *AnalyticsServiceImpl) FraudByDevice(ctx context.Context, byRate bool) ([]models.DeviceStat, error) {
	return cached(ctx, s, fmt.Sprintf("fraud-by-device:%t", byRate), func() ([]models.DeviceStat, error) {
		return s.repo.FraudByDevice(ctx, byRate)
	})
}

func (s *AnalyticsServiceImpl) HourlyPatterns(ctx context.Context) ([]models.HourlyStat, error) {
	return cached(ctx, s, "hourly-patterns", func() ([]models.HourlyStat, error) {
		return s.repo.HourlyPatterns(ctx)
	})
}

func (s *AnalyticsServiceImpl) UserSummaries(ctx context.Context) ([]*models.UserSummary, error) {
	return cached(ctx, s, "users", func() ([]*models.UserSummary, error) {
		return s.repo.UserSummaries(ctx)
	})
}

func (s *AnalyticsServiceImpl) HighRiskTransactions(ctx context.Context, limit int) ([]models.HighRiskTransaction, error) {
	limit = clampLimit(limit, 50)
	return cached(ctx, s, fmt.Sprintf("high-risk-transactions:%d", limit), func() ([]models.HighRiskTransaction, error) {
		return s.repo.HighRiskTransactions(ctx, s.minScore, limit)
	})
}

func (s *AnalyticsServiceImpl) RecentSuspicious(ctx context.Context, limit int) ([]*models.Transaction, error) {
	limit = clampLimit(limit, 20)
	return cached(ctx, s, fmt.Sprintf("recent-suspicious:%d", limit), func() ([]*models.Transaction, error) {
		return s.repo.RecentSuspicious(ctx, limit)
	})
}

func (s *AnalyticsServiceImpl) PendingAlerts(ctx context.Context, limit int) ([]*models.FraudAlert, error) {
	limit = clampLimit(limit, 50)
	return cached(ctx, s, fmt.Sprintf("pending-alerts:%d", limit), func() ([]*models.FraudAlert, error) {
		return s.repo.PendingAlerts(ctx, limit)
	})
}

func (s *AnalyticsServiceImpl) HighRiskAccounts(ctx context.Context, limit int) ([]models.HighRiskAccount, error) {
	limit = clampLimit(limit, 20)
	return cached(ctx, s, fmt.Sprintf("high-risk-accounts:%d", limit), func() ([]models.HighRiskAccount, error) {
		return s.repo.HighRiskAccounts(ctx, limit)
	})
}

// Overview assembles the admin analytics page from several queries.
func (s *AnalyticsServiceImpl) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	return cached(ctx, s, "overview", func() (*models.AnalyticsOverview, error) {
		stats, err := s.repo.Statistics(ctx)
		if err != nil {
			return nil, err
		}
		out := &models.AnalyticsOverview{
			Overview: models.OverviewTotals{
				TotalUsers:        stats.TotalUsers,
				TotalTransactions: stats.TotalTransactions,
				TotalFraud:        stats.FraudTransactions,
				FraudRate:         models.Rate(stats.FraudTransactions, stats.TotalTransactions),
				TotalAmount:       stats.TotalAmount,
			},
		}
		if out.Last30Days, err = s.repo.WindowStats(ctx, s.since(30)); err != nil {
			return nil, err
		}
		if out.Last7Days, err = s.repo.WindowStats(ctx, s.since(7)); err != nil {
			return nil, err
		}
		if out.FraudByCountry, err = s.repo.TopFraudCountries(ctx, 10); err != nil {
			return nil, err
		}
		if out.FraudByDevice, err = s.repo.FraudDevices(ctx); err != nil {
			return nil, err
		}
		if out.DailyTrend, err = s.repo.DailyTrends(ctx, s.since(30)); err != nil {
			return nil, err
		}
		if out.HighRiskUsers, err = s.repo.HighRiskUsers(ctx, 10); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Export returns the rows of one export kind between start and end, defaulting to the last month.
// Exports bypass the cache.
func (s *AnalyticsServiceImpl) Export(ctx context.Context, kind string, start, end *time.Time) (*models.ExportResult, error) {
	now := s.now().UTC()
	to := now
	if end != nil {
		to = end.UTC()
	}
	from := to.AddDate(0, -1, 0)
	if start != nil {
		from = start.UTC()
	}
	if from.After(to) {
		return nil, apperrors.Invalid("start_date cannot be after end_date")
	}

	result := &models.ExportResult{
		Kind:       strings.ToLower(kind),
		StartDate:  from,
		EndDate:    to,
		ExportedAt: now,
	}

	switch result.Kind {
	case models.ExportTransactions:
		rows, err := s.repo.ExportTransactions(ctx, from, to)
		if err != nil {
			return nil, err
		}
		result.Data, result.RecordCount = rows, len(rows)
	case models.ExportUsers:
		rows, err := s.repo.UserSummaries(ctx)
		if err != nil {
			return nil, err
		}
		result.Data, result.RecordCount = rows, len(rows)
	case models.ExportFraudSummary:
		rows, err := s.repo.FraudSummary(ctx, from, to)
		if err != nil {
			return nil, err
		}
		result.Data, result.RecordCount = rows, len(rows)
	case models.ExportPowerBI:
		rows, err := s.repo.PowerBIRows(ctx, from, to)
		if err != nil {
			return nil, err
		}
		result.Data, result.RecordCount = rows, len(rows)
	default:
		return nil, apperrors.Invalid("unknown export type %q. Valid types: %s, %s, %s, %s", kind,
			models.ExportTransactions, models.ExportUsers, models.ExportFraudSummary, models.ExportPowerBI)
	}
	return result, nil
}

func (s *AnalyticsServiceImpl) Invalidate(ctx context.Context) {
	s.notify.invalidate(ctx)
}

// since returns midnight UTC days days ago.
func (s *AnalyticsServiceImpl) since(days int) time.Time {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -days)
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > models.MaxPageSize {
		return models.MaxPageSize
	}
	return limit
}
