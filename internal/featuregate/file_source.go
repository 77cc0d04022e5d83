package featuregate

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
)

// FileSource loads flag definitions from a YAML file of the form:
//
//	features:
//	  online_payments:
//	    enabled: true
//	    targets: ["*"]
//	  exit_workflow:
//	    enabled: true
//	    targets: ["org-123", "org-456"]
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the given YAML file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and parses the flag file. Each call re-reads from disk so
// edits are picked up by the next Reload.
func (s *FileSource) Load(_ context.Context) (map[string]Flag, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read feature flag file %s: %w", s.path, err)
	}

	var flags map[string]Flag
	if err := v.UnmarshalKey("features", &flags); err != nil {
		return nil, fmt.Errorf("parse feature flag file %s: %w", s.path, err)
	}
	if flags == nil {
		flags = map[string]Flag{}
	}
	return flags, nil
}

// StaticSource serves a fixed flag map. Used in tests and as a
// fallback when no flag file is configured.
type StaticSource struct {
	Flags map[string]Flag
}

// Load returns the configured flag map.
func (s *StaticSource) Load(_ context.Context) (map[string]Flag, error) {
	return s.Flags, nil
}
