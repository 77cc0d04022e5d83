package featuregate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", ServiceName: "featuregate-test", Development: true})
	require.NoError(t, err)
	return log
}

func TestSnapshotIsEnabled(t *testing.T) {
	snap := NewSnapshot(map[string]Flag{
		"online_payments": {Enabled: true, Targets: []string{Wildcard}},
		"exit_workflow":   {Enabled: true, Targets: []string{"org-1", "org-2"}},
		"beta_reports":    {Enabled: false, Targets: []string{Wildcard}},
		"empty_targets":   {Enabled: true, Targets: nil},
	})

	tests := []struct {
		name    string
		feature string
		orgID   string
		want    bool
	}{
		{"wildcard enables any org", "online_payments", "org-9", true},
		{"listed org enabled", "exit_workflow", "org-1", true},
		{"other listed org enabled", "exit_workflow", "org-2", true},
		{"unlisted org disabled", "exit_workflow", "org-9", false},
		{"disabled flag ignores wildcard", "beta_reports", "org-1", false},
		{"enabled flag with no targets", "empty_targets", "org-1", false},
		{"unknown feature closed by default", "who_knows", "org-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snap.IsEnabled(tt.feature, tt.orgID))
		})
	}
}

func TestGateReloadSwapsSnapshot(t *testing.T) {
	source := &StaticSource{Flags: map[string]Flag{
		"online_payments": {Enabled: false},
	}}

	gate, err := New(context.Background(), source, testLogger(t))
	require.NoError(t, err)
	assert.False(t, gate.IsEnabled("online_payments", "org-1"))

	source.Flags = map[string]Flag{
		"online_payments": {Enabled: true, Targets: []string{"org-1"}},
	}
	require.NoError(t, gate.Reload(context.Background()))

	assert.True(t, gate.IsEnabled("online_payments", "org-1"))
	assert.False(t, gate.IsEnabled("online_payments", "org-2"))
}

type failingSource struct{}

func (failingSource) Load(context.Context) (map[string]Flag, error) {
	return nil, errors.New("flag backend unavailable")
}

func TestGateReloadFailureKeepsPreviousSnapshot(t *testing.T) {
	source := &StaticSource{Flags: map[string]Flag{
		"online_payments": {Enabled: true, Targets: []string{Wildcard}},
	}}
	gate, err := New(context.Background(), source, testLogger(t))
	require.NoError(t, err)
	require.True(t, gate.IsEnabled("online_payments", "org-1"))

	gate.source = failingSource{}
	assert.Error(t, gate.Reload(context.Background()))

	// The last good snapshot still serves reads.
	assert.True(t, gate.IsEnabled("online_payments", "org-1"))
}

func TestGateInitialLoadFailure(t *testing.T) {
	_, err := New(context.Background(), failingSource{}, testLogger(t))
	assert.Error(t, err)
}

func TestGateConcurrentReadersAndReloads(t *testing.T) {
	source := &StaticSource{Flags: map[string]Flag{
		"online_payments": {Enabled: true, Targets: []string{Wildcard}},
	}}
	gate, err := New(context.Background(), source, testLogger(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				// Either snapshot answers true; the read must never
				// observe a torn state.
				assert.True(t, gate.IsEnabled("online_payments", "org-1"))
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				require.NoError(t, gate.Reload(context.Background()))
			}
		}()
	}
	wg.Wait()
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.yaml")
	content := `features:
  online_payments:
    enabled: true
    targets: ["*"]
  exit_workflow:
    enabled: true
    targets: ["org-1"]
  beta_reports:
    enabled: false
    targets: ["*"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	flags, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, flags, 3)

	assert.True(t, flags["online_payments"].Enabled)
	assert.Equal(t, []string{"*"}, flags["online_payments"].Targets)
	assert.Equal(t, []string{"org-1"}, flags["exit_workflow"].Targets)
	assert.False(t, flags["beta_reports"].Enabled)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	assert.Error(t, err)
}
