// Package filetest has helpers for tests that run against an in-memory
// filesystem.
package filetest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Snapshot maps every path under root to its contents ("<dir>" for
// directories).
func Snapshot(t testing.TB, fs afero.Fs, root string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			snap[path] = "<dir>"
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		snap[path] = string(data)
		return nil
	})
	require.NoError(t, err)

	return snap
}

func Write(t testing.TB, fs afero.Fs, path string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
}

// PNG encodes a small solid image; different shades give different bytes.
func PNG(t testing.TB, shade uint8) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetGray(x, y, color.Gray{Y: shade})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// FullFs behaves like a disk that fills up: every write stores half of its
// data and then fails with ENOSPC. Seed files on the wrapped Fs.
type FullFs struct {
	afero.Fs
}

func (f FullFs) Create(name string) (afero.File, error) {
	file, err := f.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return fullFile{file}, nil
}

func (f FullFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return fullFile{file}, nil
}

type fullFile struct {
	afero.File
}

func (f fullFile) Write(p []byte) (int, error) {
	n, err := f.File.Write(p[:len(p)/2])
	if err != nil {
		return n, err
	}
	return n, syscall.ENOSPC
}

func (f fullFile) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}
