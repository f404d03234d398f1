package services

import (
	"context"
	"sort"
	"time"

	"fraudguard/internal/models"
	"fraudguard/internal/storage"
)

// Check probes one dependency. A nil Check reports the dependency as disabled.
type Check func(ctx context.Context) error

type HealthServiceImpl struct {
	repo    storage.AnalyticsRepository
	checks  map[string]Check
	version string
	started time.Time
}

// NewHealthService always checks the database; extra names the optional dependencies.
func NewHealthService(repo storage.AnalyticsRepository, version string, extra map[string]Check) HealthService {
	checks := map[string]Check{"database": repo.Ping}
	for name, check := range extra {
		checks[name] = check
	}
	return &HealthServiceImpl{repo: repo, checks: checks, version: version, started: time.Now()}
}

func (s *HealthServiceImpl) Health(_ context.Context) *models.HealthReport {
	return &models.HealthReport{
		Status:    models.HealthStatusHealthy,
		Service:   serviceName,
		Version:   s.version,
		Timestamp: time.Now().UTC(),
	}
}

// Detailed runs every check; any failing check makes the whole report unhealthy.
func (s *HealthServiceImpl) Detailed(ctx context.Context) *models.HealthReport {
	report := s.Health(ctx)
	report.Uptime = time.Since(s.started).Round(time.Second).String()
	report.Checks = make(map[string]models.HealthCheck, len(s.checks))

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		check := s.checks[name]
		if check == nil {
			report.Checks[name] = models.HealthCheck{Status: models.HealthStatusDisabled}
			continue
		}

		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		start := time.Now()
		err := check(checkCtx)
		cancel()

		result := models.HealthCheck{Status: models.HealthStatusHealthy, LatencyMS: time.Since(start).Milliseconds()}
		if err != nil {
			result.Status = models.HealthStatusUnhealthy
			result.Error = err.Error()
			report.Status = models.HealthStatusUnhealthy
		}
		report.Checks[name] = result
	}
	return report
}

func (s *HealthServiceImpl) Stats(ctx context.Context) (*models.TableCounts, error) {
	return s.repo.TableCounts(ctx)
}
