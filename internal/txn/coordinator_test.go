package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

func newTestCoordinator() *MongoCoordinator {
	return NewMongoCoordinator(nil, logger.Get())
}

func TestExecuteAtomic_CommitsThroughTransaction(t *testing.T) {
	c := newTestCoordinator()

	var calls int
	c.runTxn = func(ctx context.Context, fn UnitOfWork) (any, error) {
		calls++
		return fn(ctx)
	}

	result, err := c.ExecuteAtomic(context.Background(), func(ctx context.Context) (any, error) {
		return "committed", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "committed", result)
	assert.Equal(t, 1, calls)
	assert.False(t, c.Degraded())
}

func TestExecuteAtomic_DegradesWhenTransactionsUnsupported(t *testing.T) {
	c := newTestCoordinator()

	c.runTxn = func(ctx context.Context, fn UnitOfWork) (any, error) {
		return nil, errors.New("(IllegalOperation) Transaction numbers are only allowed on a replica set member or mongos")
	}

	var writes []string
	result, err := c.ExecuteAtomic(context.Background(), func(ctx context.Context) (any, error) {
		writes = append(writes, "a", "b")
		return len(writes), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result)
	// Every write in the unit of work was still applied.
	assert.Equal(t, []string{"a", "b"}, writes)
	assert.True(t, c.Degraded())
}

func TestExecuteAtomic_DegradedModeIsCached(t *testing.T) {
	c := newTestCoordinator()

	txnAttempts := 0
	c.runTxn = func(ctx context.Context, fn UnitOfWork) (any, error) {
		txnAttempts++
		return nil, errTransactionUnsupported
	}

	for i := 0; i < 3; i++ {
		_, err := c.ExecuteAtomic(context.Background(), func(ctx context.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)
	}

	// Only the first unit pays for the failed transaction attempt.
	assert.Equal(t, 1, txnAttempts)
	assert.True(t, c.Degraded())
}

func TestExecuteAtomic_OtherErrorsPropagateUnchanged(t *testing.T) {
	c := newTestCoordinator()

	boom := errors.New("connection reset by peer")
	c.runTxn = func(ctx context.Context, fn UnitOfWork) (any, error) {
		return nil, boom
	}

	_, err := c.ExecuteAtomic(context.Background(), func(ctx context.Context) (any, error) {
		t.Fatal("unit of work must not be re-run on a non-topology error")
		return nil, nil
	})

	require.ErrorIs(t, err, boom)
	assert.False(t, c.Degraded())
}

func TestExecuteAtomic_UnitErrorInsideTransactionAborts(t *testing.T) {
	c := newTestCoordinator()

	c.runTxn = func(ctx context.Context, fn UnitOfWork) (any, error) {
		// WithTransaction surfaces the callback error after aborting.
		return fn(ctx)
	}

	domainErr := errors.New("intent already settled")
	calls := 0

	_, err := c.ExecuteAtomic(context.Background(), func(ctx context.Context) (any, error) {
		calls++
		return nil, domainErr
	})

	require.ErrorIs(t, err, domainErr)
	assert.Equal(t, 1, calls)
	assert.False(t, c.Degraded())
}

func TestIsTransactionUnsupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"standalone topology", errors.New("Transaction numbers are only allowed on a replica set member or mongos"), true},
		{"no transaction support", errors.New("This MongoDB deployment does not support transactions"), true},
		{"sentinel", errTransactionUnsupported, true},
		{"ordinary failure", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransactionUnsupported(tt.err))
		})
	}
}

func TestPassthrough_ExecutesDirectly(t *testing.T) {
	p := NewPassthrough()

	result, err := p.ExecuteAtomic(context.Background(), func(ctx context.Context) (any, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
}
