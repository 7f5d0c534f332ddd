package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/xingbase/dsprep/collision"
)

// Config is the optional config file. Every field is optional; nil means
// "use the command-line flag or the built-in default".
type Config struct {
	Extensions []string      `yaml:"extensions"`
	LogLevel   string        `yaml:"log_level"`
	Rename     RenameConfig  `yaml:"rename"`
	Split      SplitConfig   `yaml:"split"`
	Cleanup    CleanupConfig `yaml:"cleanup"`
	Balance    BalanceConfig `yaml:"balance"`
}

type RenameConfig struct {
	Prefix      *string `yaml:"prefix"`
	Start       *int    `yaml:"start"`
	Pad         *int    `yaml:"pad"`
	OnCollision *string `yaml:"on_collision"`
}

type SplitConfig struct {
	Dest        *string  `yaml:"dest"`
	Train       *float64 `yaml:"train"`
	Val         *float64 `yaml:"val"`
	Test        *float64 `yaml:"test"`
	Seed        *int64   `yaml:"seed"`
	Move        *bool    `yaml:"move"`
	OnCollision *string  `yaml:"on_collision"`
}

type CleanupConfig struct {
	Recursive *bool `yaml:"recursive"`
}

type BalanceConfig struct {
	RatioThreshold *float64 `yaml:"ratio_threshold"`
	DiffThreshold  *int     `yaml:"diff_threshold"`
}

// Load reads and validates the config file at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return &cfg, nil
}

// Validate checks the values that are present.
func (c *Config) Validate() error {
	for _, p := range []struct {
		key  string
		name *string
	}{
		{"rename.on_collision", c.Rename.OnCollision},
		{"split.on_collision", c.Split.OnCollision},
	} {
		if p.name != nil && !collision.ValidName(*p.name) {
			return errors.Errorf("%s must be one of %s, got %q", p.key, PolicyNames, *p.name)
		}
	}

	if c.Rename.Pad != nil && *c.Rename.Pad < 0 {
		return errors.Errorf("rename.pad must be >= 0")
	}

	for key, v := range map[string]*float64{"split.train": c.Split.Train, "split.val": c.Split.Val, "split.test": c.Split.Test} {
		if v != nil && *v < 0 {
			return errors.Errorf("%s must be >= 0", key)
		}
	}

	if v := c.Balance.RatioThreshold; v != nil && (*v < 0 || *v > 1) {
		return errors.Errorf("balance.ratio_threshold must be between 0 and 1")
	}
	if v := c.Balance.DiffThreshold; v != nil && *v < 0 {
		return errors.Errorf("balance.diff_threshold must be >= 0")
	}

	return nil
}

// Pick returns the first non-nil value, or def.
func Pick[T any](def T, vals ...*T) T {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return def
}

// PickPtr is Pick for values where "unset" must survive.
func PickPtr[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
