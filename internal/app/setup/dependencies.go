package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/LavaJover/safelink-deal-service/internal/config"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/boltdb"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/kafka"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/logger"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/metrics"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/migrate"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/mongodb"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/notifier"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/paystack"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/postgres"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
)

const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageBolt     = "bolt"
)

type Dependencies struct {
	Config    *config.DealConfig
	Registry  *prometheus.Registry
	Metrics   *metrics.DealMetrics
	DealRepo  domain.DealRepository
	Gateway   domain.PaymentGateway
	Publisher domain.DealEventPublisher
	FeeRates  domain.FeeRates

	closers []func() error
}

func InitializeDependencies(ctx context.Context, cfg *config.DealConfig) (*Dependencies, error) {
	feeRates, err := ParseFeeRates(cfg.Fees)
	if err != nil {
		return nil, fmt.Errorf("fees: %w", err)
	}

	deps := &Dependencies{
		Config:   cfg,
		Registry: newRegistry(),
		FeeRates: feeRates,
		Gateway:  paystack.NewClient(cfg.Paystack),
	}
	deps.Metrics = metrics.NewDealMetrics(deps.Registry)

	if cfg.Paystack.SecretKey == "" {
		slog.Warn("paystack secret key is not set, new deals will have payment disabled")
	}

	var publishers fanoutPublisher
	if err := deps.initStorage(ctx, &publishers); err != nil {
		deps.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	if cfg.KafkaService.Enabled {
		pub, err := initDealPublisher(cfg)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("deal publisher: %w", err)
		}
		publishers = append(publishers, pub)
		deps.closers = append(deps.closers, pub.Close)
	}

	if cfg.Notifier.CallbackURL != "" {
		publishers = append(publishers, notifier.NewCallbackNotifier(cfg.Notifier))
	}

	if len(publishers) > 0 {
		deps.Publisher = publishers
	}
	return deps, nil
}

func (d *Dependencies) initStorage(ctx context.Context, publishers *fanoutPublisher) error {
	cfg := d.Config
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	switch driver {
	case StoragePostgres:
		db, err := postgres.InitDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			d.closers = append(d.closers, sqlDB.Close)
		}
		if err := migrate.RunMigrations(db, cfg.DealDB.MigrationsPath); err != nil {
			return err
		}
		d.DealRepo = repository.NewDefaultDealRepository(db)

		auditLog, err := logger.NewPGDealEventLogger(db)
		if err != nil {
			return err
		}
		*publishers = append(*publishers, auditLog)

	case StorageMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { return client.Disconnect(context.Background()) })

		repo := mongodb.NewDealRepository(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		d.DealRepo = repo

	case StorageBolt:
		repo, err := boltdb.NewDealRepository(cfg.Bolt.Path)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, repo.Close)
		d.DealRepo = repo

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	slog.Info("deal store ready", "driver", driver)
	return nil
}

func initDealPublisher(cfg *config.DealConfig) (*kafka.KafkaPublisher, error) {
	brokers := []string{net.JoinHostPort(cfg.KafkaService.Host, cfg.KafkaService.Port)}
	return kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)
}

// ParseFeeRates reads the configured rates, falling back to the defaults
// for empty values.
func ParseFeeRates(fees config.Fees) (domain.FeeRates, error) {
	rates := domain.DefaultFeeRates()
	if s := strings.TrimSpace(fees.ServiceFeeRate); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil || rate.IsNegative() {
			return rates, fmt.Errorf("invalid service fee rate %q", fees.ServiceFeeRate)
		}
		rates.ServiceFeeRate = rate
	}
	if s := strings.TrimSpace(fees.LevyRate); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil || rate.IsNegative() {
			return rates, fmt.Errorf("invalid levy rate %q", fees.LevyRate)
		}
		rates.LevyRate = rate
	}
	return rates, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Close releases stores and publishers in reverse order of creation.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
