package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/service"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// Locker serializes sweeps across instances. A nil Locker means
// single-instance deployment and every sweep runs.
type Locker interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// ExitSweeperConfig holds tuning for the background exit sweeper.
type ExitSweeperConfig struct {
	// SweepInterval is how often expired notices are scanned
	SweepInterval time.Duration
	// BatchSize is the maximum tenants finalized per sweep
	BatchSize int
}

// DefaultExitSweeperConfig returns the default configuration.
func DefaultExitSweeperConfig() *ExitSweeperConfig {
	return &ExitSweeperConfig{
		SweepInterval: 1 * time.Minute,
		BatchSize:     100,
	}
}

// ExitSweeperStats is a point-in-time snapshot of sweeper progress.
type ExitSweeperStats struct {
	IsRunning       bool      `json:"is_running"`
	TotalFinalized  int64     `json:"total_finalized"`
	TotalConflicts  int64     `json:"total_conflicts"`
	LastSweepTime   time.Time `json:"last_sweep_time"`
	LastSweepCount  int       `json:"last_sweep_count"`
	SweepsPerformed int64     `json:"sweeps_performed"`
}

// ExitSweeper finalizes tenants whose approved exit date has passed.
// It is a safety net behind the request path: finalization is also
// triggered lazily, so a missed sweep delays nothing permanently.
type ExitSweeper struct {
	exitSvc    service.ExitService
	tenantRepo repository.TenantRepository
	locker     Locker
	config     *ExitSweeperConfig
	log        *logger.Logger

	mu              sync.Mutex
	running         bool
	totalFinalized  int64
	totalConflicts  int64
	lastSweepTime   time.Time
	lastSweepCount  int
	sweepsPerformed int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExitSweeper creates a sweeper. locker may be nil.
func NewExitSweeper(exitSvc service.ExitService, tenantRepo repository.TenantRepository, locker Locker, log *logger.Logger, config *ExitSweeperConfig) *ExitSweeper {
	if config == nil {
		config = DefaultExitSweeperConfig()
	}
	return &ExitSweeper{
		exitSvc:    exitSvc,
		tenantRepo: tenantRepo,
		locker:     locker,
		config:     config,
		log:        log,
	}
}

// Start launches the sweep loop. It is a no-op when already running.
func (w *ExitSweeper) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)

	w.log.Info("exit sweeper started",
		zap.Duration("sweep_interval", w.config.SweepInterval),
		zap.Int("batch_size", w.config.BatchSize))
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (w *ExitSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
	w.log.Info("exit sweeper stopped")
}

// GetStats returns a snapshot of sweeper progress.
func (w *ExitSweeper) GetStats() *ExitSweeperStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &ExitSweeperStats{
		IsRunning:       w.running,
		TotalFinalized:  w.totalFinalized,
		TotalConflicts:  w.totalConflicts,
		LastSweepTime:   w.lastSweepTime,
		LastSweepCount:  w.lastSweepCount,
		SweepsPerformed: w.sweepsPerformed,
	}
}

func (w *ExitSweeper) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep. When a locker is configured the sweep
// only proceeds on the instance that wins the lock.
func (w *ExitSweeper) SweepOnce(ctx context.Context) {
	if w.locker != nil {
		ok, err := w.locker.TryAcquire(ctx)
		if err != nil {
			w.log.WarnContext(ctx, "sweeper lock acquire failed", zap.Error(err))
			return
		}
		if !ok {
			return
		}
		defer func() {
			if err := w.locker.Release(ctx); err != nil {
				w.log.WarnContext(ctx, "sweeper lock release failed", zap.Error(err))
			}
		}()
	}

	now := time.Now().UTC()
	expired, err := w.tenantRepo.ListNoticeExpired(ctx, now, w.config.BatchSize)
	if err != nil {
		w.log.ErrorContext(ctx, "sweep scan failed", zap.Error(err))
		return
	}

	var finalized, conflicts int
	for _, tenant := range expired {
		if ctx.Err() != nil {
			break
		}
		_, err := w.exitSvc.FinalizeExit(ctx, tenant.ID, now)
		switch {
		case err == nil:
			finalized++
		case errors.Is(err, domain.ErrExitConflict):
			// Someone else finalized or the state moved under us.
			conflicts++
		default:
			w.log.ErrorContext(ctx, "finalize failed during sweep",
				zap.String("tenant_id", tenant.ID), zap.Error(err))
		}
	}

	w.mu.Lock()
	w.totalFinalized += int64(finalized)
	w.totalConflicts += int64(conflicts)
	w.lastSweepTime = now
	w.lastSweepCount = finalized
	w.sweepsPerformed++
	w.mu.Unlock()

	if finalized > 0 || conflicts > 0 {
		w.log.InfoContext(ctx, "exit sweep completed",
			zap.Int("finalized", finalized),
			zap.Int("conflicts", conflicts),
			zap.Int("scanned", len(expired)))
	}
}
