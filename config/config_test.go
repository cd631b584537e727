package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polypheny/polypheny-core-go/config"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

func TestDefault_HasAGenerousIterationBoundAndNoOverrides(t *testing.T) {
	require := require.New(t)
	cfg := config.Default()

	require.Equal(1000, cfg.RuleIterationBound)
	require.Equal(1.0, cfg.Multipliers().MultiplierFor("mongo"))
}

func TestLoad_ParsesYAMLOverrides(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
default_collation: 3
default_precision_table:
  VARCHAR: 255
cost_multipliers:
  mongo: 0.1
rule_iteration_bound: 50
`
	require.NoError(os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(err)
	require.Equal(3, cfg.DefaultCollation)
	require.Equal(50, cfg.RuleIterationBound)
	require.Equal(0.1, cfg.Multipliers().MultiplierFor("mongo"))
	require.Equal(255, cfg.PrecisionFor(types.VarChar))
	require.Equal(types.UnspecifiedPrecision, cfg.PrecisionFor(types.Integer))
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	require := require.New(t)
	_, err := config.Load("/no/such/file.yaml")
	require.Error(err)
}
