package di

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/featuregate"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/gateway"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/handler"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/service"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/txn"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/worker"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/config"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/database"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/middleware"
)

// Container holds all runtime dependencies of the server.
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	// Infrastructure
	DB          *database.MongoDB
	Redis       *redis.Client
	Coordinator *txn.MongoCoordinator

	// Repositories
	TenantRepo  repository.TenantRepository
	PaymentRepo repository.PaymentRepository
	SubRepo     repository.SubscriptionRepository
	RoomRepo    repository.RoomRepository
	AuditRepo   repository.AuditRepository

	// Feature flags
	Gate       *featuregate.Gate
	Notifier   *featuregate.ReloadNotifier
	Subscriber *featuregate.ReloadSubscriber

	// Services
	Audit          *service.AuditRecorder
	PaymentService service.PaymentService
	ExitService    service.ExitService

	// Workers
	Sweeper *worker.ExitSweeper

	// Handlers
	PaymentHandler *handler.PaymentHandler
	ExitHandler    *handler.ExitHandler
	FeatureHandler *handler.FeatureHandler
	AuditHandler   *handler.AuditHandler
	HealthHandler  *handler.HealthHandler
}

// NewContainer builds the full dependency graph: storage, flags,
// services, workers and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	db, err := database.NewMongo(ctx, &database.MongoConfig{
		URI:            cfg.MongoDB.URI,
		Database:       cfg.MongoDB.Database,
		ConnectTimeout: cfg.MongoDB.ConnectTimeout,
		MaxPoolSize:    cfg.MongoDB.MaxPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.DB = db

	if err := repository.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	c.Coordinator = txn.NewMongoCoordinator(db.Client(), log)

	c.TenantRepo = repository.NewMongoTenantRepository(db)
	c.PaymentRepo = repository.NewMongoPaymentRepository(db)
	c.SubRepo = repository.NewMongoSubscriptionRepository(db)
	c.RoomRepo = repository.NewMongoRoomRepository(db)
	c.AuditRepo = repository.NewMongoAuditRepository(db)

	gate, err := featuregate.New(ctx, featuregate.NewFileSource(cfg.Features.FilePath), log)
	if err != nil {
		return nil, fmt.Errorf("load feature flags: %w", err)
	}
	c.Gate = gate
	c.Notifier = featuregate.NewReloadNotifier(c.Redis, cfg.Features.ReloadChannel)
	c.Subscriber = featuregate.NewReloadSubscriber(c.Redis, cfg.Features.ReloadChannel, gate, log)

	c.Audit = service.NewAuditRecorder(c.AuditRepo, log, service.AuditRecorderConfig{})

	var gw gateway.Gateway
	if cfg.Gateway.TestMode {
		gw = gateway.NewMockGateway(cfg.Gateway.KeySecret)
	} else {
		gw = gateway.NewRazorpayGateway(&cfg.Gateway, log)
	}

	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.SubRepo, c.TenantRepo, gw, c.Coordinator, c.Audit, log)
	c.ExitService = service.NewExitService(c.TenantRepo, c.RoomRepo, c.Coordinator, c.Audit, log)

	lock := worker.NewLeaderLock(c.Redis, cfg.Worker.LockKey, cfg.Worker.LockTTL)
	c.Sweeper = worker.NewExitSweeper(c.ExitService, c.TenantRepo, lock, log, &worker.ExitSweeperConfig{
		SweepInterval: cfg.Worker.SweepInterval,
		BatchSize:     cfg.Worker.SweepBatch,
	})

	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService)
	c.ExitHandler = handler.NewExitHandler(c.ExitService)
	c.FeatureHandler = handler.NewFeatureHandler(c.Gate, c.Notifier, c.Audit, log)
	c.AuditHandler = handler.NewAuditHandler(c.AuditRepo)
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Coordinator)

	return c, nil
}

// Router builds the HTTP engine over the container's handlers.
func (c *Container) Router() *gin.Engine {
	return handler.NewRouter(&handler.RouterConfig{
		JWT:      &middleware.JWTConfig{Secret: c.Config.JWT.Secret},
		Gate:     c.Gate,
		Payment:  c.PaymentHandler,
		Exit:     c.ExitHandler,
		Features: c.FeatureHandler,
		Audit:    c.AuditHandler,
		Health:   c.HealthHandler,
	})
}

// Close releases infrastructure resources in reverse dependency order.
func (c *Container) Close(ctx context.Context) error {
	if c.Sweeper != nil {
		c.Sweeper.Stop()
	}
	if c.Audit != nil {
		_ = c.Audit.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		return c.DB.Close(ctx)
	}
	return nil
}
