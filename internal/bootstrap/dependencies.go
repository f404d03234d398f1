package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"fraudguard/config"
	"fraudguard/internal/api/rest"
	"fraudguard/internal/fraud"
	"fraudguard/internal/kafka"
	"fraudguard/internal/metrics"
	"fraudguard/internal/redis"
	"fraudguard/internal/services"
	"fraudguard/internal/storage/sqlite"
)

// Dependencies holds everything the servers share.
type Dependencies struct {
	Storage   *sqlite.SQLiteStorage
	Cache     redis.Cache
	Publisher kafka.Publisher
	Metrics   *metrics.Metrics
	Services  rest.Services
}

// InitializeDependencies opens storage and the optional Redis and Kafka clients, then wires the services.
func InitializeDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{Metrics: metrics.New()}

	storage, err := sqlite.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	deps.Storage = storage

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg)
		if err != nil {
			deps.Close()
			return nil, err
		}
		slog.Info("Redis cache enabled", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		deps.Cache = client
	} else {
		slog.Info("Redis disabled, using in-memory cache")
		deps.Cache = redis.NewMemoryCache()
	}

	publisher, err := kafka.NewPublisher(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Publisher = publisher

	notifier := services.NewNotifier(deps.Publisher, deps.Cache, deps.Metrics)
	evaluator := fraud.NewEvaluator(cfg.Fraud)

	deps.Services = rest.Services{
		Users:        services.NewUserService(storage, storage, notifier),
		Accounts:     services.NewAccountService(storage, storage, notifier),
		Transactions: services.NewTransactionService(storage, storage, storage, storage, evaluator, notifier),
		Alerts:       services.NewFraudAlertService(storage, storage, notifier),
		Analytics:    services.NewAnalyticsService(storage, notifier, cfg.Redis.CacheTTL, cfg.Fraud.HighRiskScore),
		Health:       services.NewHealthService(storage, cfg.App.Version, healthChecks(cfg, deps.Cache)),
	}
	return deps, nil
}

// healthChecks lists the optional dependencies; disabled ones get a nil check.
func healthChecks(cfg *config.Config, cache redis.Cache) map[string]services.Check {
	checks := map[string]services.Check{"redis": nil, "kafka": nil}
	if cfg.Redis.Enabled {
		checks["redis"] = cache.Ping
	}
	if cfg.Kafka.Enabled {
		brokers, clientID := cfg.Kafka.Brokers, cfg.Kafka.ClientID
		checks["kafka"] = func(context.Context) error {
			return kafka.Ping(brokers, clientID)
		}
	}
	return checks
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		errs = append(errs, d.Publisher.Close())
	}
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	if d.Storage != nil {
		errs = append(errs, d.Storage.Close())
	}
	return errors.Join(errs...)
}
