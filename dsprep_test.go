package dsprep

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure(t *testing.T) {
	f := Failure{Path: "/a.jpg", Op: "rename", Err: fs.ErrPermission}
	assert.Equal(t, "rename /a.jpg: permission denied", f.Error())
	assert.True(t, errors.Is(f, fs.ErrPermission))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, zerolog.InfoLevel, false)

	log.Debug().Msg("hidden")
	log.Info().Str("file", "a.jpg").Msg("renamed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "renamed")
	assert.Contains(t, out, "file=a.jpg")
}
