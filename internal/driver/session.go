// Package driver wires the zyl pipeline together: parse, analyze,
// disambiguate, and apply optimizer passes. Pass selection, ordering, and
// fixpoint policy live here, not in the core.
package driver

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"zyl/internal/dialect"
	"zyl/internal/opt"
)

// Config is the session configuration consumed at pipeline start. It maps
// the [optimizer] section of zyl.toml.
type Config struct {
	// Dialect selects the builtin table version ("v1" or "v2").
	Dialect string `toml:"dialect"`
	// Reserved lists identifiers the optimizer must never generate or
	// rename over, e.g. names with external meaning to a later stage.
	Reserved []string `toml:"reserved"`
	// StackLimit is the stack-pressure threshold for the remat pass.
	StackLimit int `toml:"stack_limit"`
	// Passes is the default pass key sequence for batch optimization.
	Passes string `toml:"passes"`
}

// DefaultConfig returns the configuration used when no zyl.toml is found.
func DefaultConfig() Config {
	return Config{
		Dialect:    "v1",
		StackLimit: opt.DefaultStackLimit,
		Passes:     "uci",
	}
}

// LoadConfig reads a zyl.toml file. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	var file struct {
		Optimizer Config `toml:"optimizer"`
	}
	file.Optimizer = cfg
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg = file.Optimizer
	if cfg.StackLimit <= 0 {
		cfg.StackLimit = opt.DefaultStackLimit
	}
	if cfg.Dialect == "" {
		cfg.Dialect = "v1"
	}
	return cfg, nil
}

// Session holds the immutable pieces shared by every file a run touches.
// The dialect is read-only and safe to share across parallel files; each
// file gets its own NameDispenser.
type Session struct {
	Config  Config
	Dialect dialect.Dialect
}

// NewSession validates the configuration and resolves the dialect.
func NewSession(cfg Config) (*Session, error) {
	v, err := dialect.ParseVersion(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return &Session{Config: cfg, Dialect: dialect.Core(v)}, nil
}
