package txn

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// UnitOfWork is a caller-supplied multi-write callback. When the
// backend supports multi-document transactions the ctx passed to the
// callback carries the session, so every repository call made with it
// joins the same transaction.
type UnitOfWork func(ctx context.Context) (any, error)

// Coordinator executes a unit of work with atomicity when the storage
// backend supports it.
type Coordinator interface {
	// ExecuteAtomic runs fn inside an atomic multi-write context.
	// On a backend that cannot support transactions (standalone,
	// non-replicated deployment) it degrades to a single plain
	// invocation of fn and logs a warning; the cross-write atomicity
	// guarantee does not hold in that mode. Any other error aborts
	// the transaction and propagates unchanged.
	ExecuteAtomic(ctx context.Context, fn UnitOfWork) (any, error)
}

// errTransactionUnsupported is internal only; callers never see it.
// It marks the infrastructure signal that triggers degraded mode.
var errTransactionUnsupported = errors.New("storage does not support multi-document transactions")

// MongoCoordinator implements Coordinator on MongoDB sessions.
type MongoCoordinator struct {
	client *mongo.Client
	log    *logger.Logger

	// degraded caches the topology answer after the first fallback so
	// later units skip the doomed transaction attempt.
	degraded atomic.Bool

	// runTxn is swapped in tests to avoid a live replica set.
	runTxn func(ctx context.Context, fn UnitOfWork) (any, error)
}

// NewMongoCoordinator creates a coordinator over the given client.
func NewMongoCoordinator(client *mongo.Client, log *logger.Logger) *MongoCoordinator {
	c := &MongoCoordinator{
		client: client,
		log:    log,
	}
	c.runTxn = c.runInTransaction
	return c
}

// ExecuteAtomic implements Coordinator.
func (c *MongoCoordinator) ExecuteAtomic(ctx context.Context, fn UnitOfWork) (any, error) {
	if c.degraded.Load() {
		return fn(ctx)
	}

	result, err := c.runTxn(ctx, fn)
	if err == nil {
		return result, nil
	}

	if isTransactionUnsupported(err) {
		c.degraded.Store(true)
		c.log.WarnContext(ctx, "storage backend does not support transactions, degrading to non-atomic execution",
			zap.Error(err),
		)
		// Re-run once without an atomic context. Multi-entity writes
		// inside fn are no longer all-or-nothing; callers accept this
		// as a documented correctness caveat of single-node topologies.
		return fn(ctx)
	}

	return nil, err
}

// Degraded reports whether the coordinator has fallen back to
// non-atomic execution.
func (c *MongoCoordinator) Degraded() bool {
	return c.degraded.Load()
}

func (c *MongoCoordinator) runInTransaction(ctx context.Context, fn UnitOfWork) (any, error) {
	sess, err := c.client.StartSession()
	if err != nil {
		if isTransactionUnsupported(err) {
			return nil, errTransactionUnsupported
		}
		return nil, err
	}
	defer sess.EndSession(ctx)

	return sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
}

// isTransactionUnsupported recognizes the server signal raised by a
// standalone (non-replicated) deployment when a transaction is
// attempted. Everything else is a genuine failure and must abort.
func isTransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errTransactionUnsupported) {
		return true
	}

	var se mongo.ServerError
	if errors.As(err, &se) {
		// IllegalOperation on a standalone: "Transaction numbers are
		// only allowed on a replica set member or mongos".
		if se.HasErrorCodeWithMessage(20, "Transaction numbers") {
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "does not support transactions")
}

// Passthrough is a Coordinator that runs the unit of work directly
// with no transactional context. It backs the in-memory repositories
// in tests and single-process tooling.
type Passthrough struct{}

// NewPassthrough creates a pass-through coordinator.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// ExecuteAtomic runs fn as-is.
func (p *Passthrough) ExecuteAtomic(ctx context.Context, fn UnitOfWork) (any, error) {
	return fn(ctx)
}
