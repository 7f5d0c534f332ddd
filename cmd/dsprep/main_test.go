package main

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingbase/dsprep/config"
	"github.com/xingbase/dsprep/file/filetest"
)

// memFs points every command at an in-memory filesystem for the test.
func memFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	newFs = func() afero.Fs { return fs }
	t.Cleanup(func() {
		newFs = afero.NewOsFs
		options = Options{}
	})
	options = Options{NoColor: true}
	return fs
}

func dataset(t *testing.T, fs afero.Fs, counts map[string]int) {
	t.Helper()
	for class, n := range counts {
		for i := 0; i < n; i++ {
			filetest.Write(t, fs, fmt.Sprintf("/ds/%s/%d.jpg", class, i), []byte("x"))
		}
	}
}

func TestSetupDefaults(t *testing.T) {
	memFs(t)

	env, err := setup(nil)
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, env.log.GetLevel())
	assert.True(t, env.filter.Match("a.jpg"))
	assert.True(t, env.filter.Match("a.webp"))
	assert.False(t, env.filter.Match("a.txt"))
}

func TestSetupConfigOverDefaults(t *testing.T) {
	fs := memFs(t)
	filetest.Write(t, fs, "/etc/dsprep.yml", []byte("extensions: [png]\nlog_level: warn\n"))
	options.Config = "/etc/dsprep.yml"

	env, err := setup(nil)
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, env.log.GetLevel())
	assert.True(t, env.filter.Match("a.png"))
	assert.False(t, env.filter.Match("a.jpg"))
}

func TestSetupFlagsOverConfig(t *testing.T) {
	fs := memFs(t)
	filetest.Write(t, fs, "/etc/dsprep.yml", []byte("extensions: [png]\nlog_level: warn\n"))
	options.Config = "/etc/dsprep.yml"
	options.Verbose = true

	env, err := setup([]string{"gif"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, env.log.GetLevel())
	assert.True(t, env.filter.Match("a.gif"))
	assert.False(t, env.filter.Match("a.png"))
}

func TestSetupBadConfig(t *testing.T) {
	fs := memFs(t)
	filetest.Write(t, fs, "/etc/dsprep.yml", []byte("log_level: loud\n"))
	options.Config = "/etc/dsprep.yml"

	_, err := setup(nil)
	assert.Error(t, err)

	options.Config = "/etc/missing.yml"
	_, err = setup(nil)
	assert.Error(t, err)
}

func TestRenameOptions(t *testing.T) {
	prefix, pad := "cat_", 5
	cfg := config.RenameConfig{Prefix: &prefix, Pad: &pad}

	opts := (&renameCommand{}).options(config.RenameConfig{})
	assert.Equal(t, config.DefaultPrefix, opts.Prefix)
	assert.Equal(t, config.DefaultStart, opts.Start)
	assert.Equal(t, config.DefaultPad, opts.Pad)

	opts = (&renameCommand{}).options(cfg)
	assert.Equal(t, "cat_", opts.Prefix)
	assert.Equal(t, 5, opts.Pad)

	flagPrefix, flagStart := "dog_", 10
	opts = (&renameCommand{Prefix: &flagPrefix, Start: &flagStart}).options(cfg)
	assert.Equal(t, "dog_", opts.Prefix)
	assert.Equal(t, 10, opts.Start)
	assert.Equal(t, 5, opts.Pad)
}

func TestBalanceImbalanced(t *testing.T) {
	fs := memFs(t)
	dataset(t, fs, map[string]int{"cat": 4, "dog": 1})
	threshold := 0.5

	err := (&balanceCommand{Dir: "/ds", RatioThreshold: &threshold}).Execute(nil)
	assert.ErrorIs(t, err, errImbalanced)
}

func TestBalanceBalanced(t *testing.T) {
	fs := memFs(t)
	dataset(t, fs, map[string]int{"cat": 4, "dog": 4})
	threshold := 0.5

	err := (&balanceCommand{Dir: "/ds", RatioThreshold: &threshold}).Execute(nil)
	assert.NoError(t, err)
}

func TestBalanceThresholdFromConfig(t *testing.T) {
	fs := memFs(t)
	dataset(t, fs, map[string]int{"cat": 4, "dog": 1})
	filetest.Write(t, fs, "/etc/dsprep.yml", []byte("balance:\n  ratio_threshold: 0.5\n"))
	options.Config = "/etc/dsprep.yml"

	err := (&balanceCommand{Dir: "/ds"}).Execute(nil)
	assert.ErrorIs(t, err, errImbalanced)

	// A flag looser than the file wins.
	loose := 0.1
	err = (&balanceCommand{Dir: "/ds", RatioThreshold: &loose}).Execute(nil)
	assert.NoError(t, err)
}

// main exits 1 whenever the parser returns an error.
func TestBalanceCommandLine(t *testing.T) {
	fs := memFs(t)
	dataset(t, fs, map[string]int{"cat": 4, "dog": 1})

	_, err := parser.ParseArgs([]string{"--no-color", "balance", "-d", "/ds", "--ratio-threshold", "0.5"})
	assert.ErrorIs(t, err, errImbalanced)
}
