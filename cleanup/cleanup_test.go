package cleanup

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingbase/dsprep/file"
	"github.com/xingbase/dsprep/file/filetest"
)

var images = file.NewFilter(file.DefaultExtensions...)

func remaining(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	files, err := file.Walk(fs, dir, nil)
	require.NoError(t, err)
	file.SortByPath(files)

	var names []string
	for _, f := range files {
		names = append(names, f.Path)
	}
	return names
}

func TestRunKeepsOneOfTwoIdentical(t *testing.T) {
	fs := afero.NewMemMapFs()
	filetest.Write(t, fs, "/data/a.png", filetest.PNG(t, 10))
	filetest.Write(t, fs, "/data/b.png", filetest.PNG(t, 10))
	filetest.Write(t, fs, "/data/c.png", filetest.PNG(t, 200))

	report, err := Run(fs, "/data", Options{Images: images}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, Duplicate{Path: "/data/b.png", Original: "/data/a.png", Size: report.Duplicates[0].Size}, report.Duplicates[0])
	assert.Empty(t, report.Corrupt)
	assert.Equal(t, []string{"/data/a.png", "/data/c.png"}, remaining(t, fs, "/data"))
}

func TestRunKeepsExactlyOneOfN(t *testing.T) {
	for _, n := range []int{2, 3, 7} {
		fs := afero.NewMemMapFs()
		data := filetest.PNG(t, 42)
		for i := 0; i < n; i++ {
			filetest.Write(t, fs, fmt.Sprintf("/data/%02d.png", i), data)
		}

		report, err := Run(fs, "/data", Options{Images: images}, zerolog.Nop())
		require.NoError(t, err)
		assert.Len(t, report.Duplicates, n-1)
		assert.Len(t, remaining(t, fs, "/data"), 1, "n=%d", n)
		assert.Equal(t, int64(n-1)*int64(len(data)), report.Reclaimed)
	}
}

func TestRunRemovesCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	good := filetest.PNG(t, 1)
	filetest.Write(t, fs, "/data/good.png", good)
	filetest.Write(t, fs, "/data/truncated.png", good[:len(good)/2])
	filetest.Write(t, fs, "/data/garbage.jpg", []byte("not an image"))
	filetest.Write(t, fs, "/data/notes.txt", []byte("not an image either"))

	report, err := Run(fs, "/data", Options{Images: images}, zerolog.Nop())
	require.NoError(t, err)

	var corrupt []string
	for _, c := range report.Corrupt {
		corrupt = append(corrupt, c.Path)
		assert.True(t, file.IsCorrupt(c.Err))
	}
	assert.Equal(t, []string{"/data/garbage.jpg", "/data/truncated.png"}, corrupt)
	assert.Equal(t, []string{"/data/good.png", "/data/notes.txt"}, remaining(t, fs, "/data"))
}

func TestRunDuplicateAndCorruptDeletedOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	filetest.Write(t, fs, "/data/a.jpg", []byte("broken"))
	filetest.Write(t, fs, "/data/b.jpg", []byte("broken"))

	report, err := Run(fs, "/data", Options{Images: images}, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, report.Duplicates, 1)
	assert.Len(t, report.Corrupt, 2)
	assert.Empty(t, report.Failures, "b.jpg must not be removed twice")
	assert.ElementsMatch(t, []string{"/data/a.jpg", "/data/b.jpg"}, report.Removed)
	assert.Empty(t, remaining(t, fs, "/data"))
}

func TestDryRunDoesNotTouchFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	filetest.Write(t, fs, "/data/a.png", filetest.PNG(t, 3))
	filetest.Write(t, fs, "/data/b.png", filetest.PNG(t, 3))
	filetest.Write(t, fs, "/data/c.gif", []byte("GIF89a"))
	before := filetest.Snapshot(t, fs, "/")

	report, err := Run(fs, "/data", Options{DryRun: true, Images: images}, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Len(t, report.Duplicates, 1)
	assert.Len(t, report.Corrupt, 1)
	assert.Empty(t, report.Removed)
	assert.Equal(t, before, filetest.Snapshot(t, fs, "/"))
}

func TestRecursive(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := filetest.PNG(t, 9)
	filetest.Write(t, fs, "/data/a.png", data)
	filetest.Write(t, fs, "/data/sub/a.png", data)

	report, err := Run(fs, "/data", Options{Images: images}, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, report.Clean())

	report, err = Run(fs, "/data", Options{Recursive: true, Images: images}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "/data/sub/a.png", report.Duplicates[0].Path)
}

func TestRunMissingDir(t *testing.T) {
	_, err := Run(afero.NewMemMapFs(), "/nope", Options{}, zerolog.Nop())
	assert.Error(t, err)
}
