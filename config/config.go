// Package config implements the configuration object the orchestrator is
// injected with (spec §6 "All configuration is injected through a config
// object"): default collation, default precision per type family, per-
// convention cost multipliers, and the rule-iteration cap, loaded from YAML
// the way the teacher stack's ambient config packages do.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/polypheny/polypheny-core-go/sql/analyzer"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Config is the recognized option set from spec §6.
type Config struct {
	// DefaultCollation is the integer id of the default collation.
	DefaultCollation int `yaml:"default_collation"`

	// DefaultPrecisionTable maps a type family name (e.g. "VARCHAR") to its
	// default precision.
	DefaultPrecisionTable map[string]int `yaml:"default_precision_table"`

	// CostMultipliers maps a convention name to its rule-cost multiplier
	// (spec §4.3 "push-down operators multiply by 0.1 to bias toward
	// native execution").
	CostMultipliers map[string]float64 `yaml:"cost_multipliers"`

	// RuleIterationBound caps the planner's fixed-point search (spec §4.3
	// "planning terminates when the root is sealed or the iteration bound
	// is hit").
	RuleIterationBound int `yaml:"rule_iteration_bound"`
}

// Default returns the zero-configuration baseline: no multiplier overrides
// (every convention defaults to 1.0, spec §4.3), a generous iteration
// bound, and no precision overrides.
func Default() *Config {
	return &Config{
		DefaultCollation:      0,
		DefaultPrecisionTable: map[string]int{},
		CostMultipliers:       map[string]float64{},
		RuleIterationBound:    1000,
	}
}

// Load reads and parses a YAML config file at path, filling in Default()'s
// values for anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}

// Multipliers adapts CostMultipliers to the type the rule engine consumes.
func (c *Config) Multipliers() analyzer.Multipliers {
	return analyzer.Multipliers(c.CostMultipliers)
}

// PrecisionFor returns the configured default precision for family, or
// types.UnspecifiedPrecision if none is configured.
func (c *Config) PrecisionFor(family types.Family) int {
	if p, ok := c.DefaultPrecisionTable[family.String()]; ok {
		return p
	}
	return types.UnspecifiedPrecision
}
