package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const hashBlockSize = 64 * 1024

var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"}

var ErrNotDir = errors.New("not a directory")

// Filter is a case-insensitive extension allow-set keyed by ".ext".
// A nil Filter matches every file.
type Filter map[string]bool

// NewFilter accepts "jpg", ".JPG" or "jpg,png" forms.
func NewFilter(exts ...string) Filter {
	f := make(Filter)
	for _, e := range exts {
		for _, part := range strings.Split(e, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if !strings.HasPrefix(part, ".") {
				part = "." + part
			}
			f[part] = true
		}
	}
	return f
}

func (f Filter) Match(name string) bool {
	if f == nil {
		return true
	}
	return f[strings.ToLower(filepath.Ext(name))]
}

func (f Filter) String() string {
	exts := make([]string, 0, len(f))
	for e := range f {
		exts = append(exts, strings.TrimPrefix(e, "."))
	}
	sort.Strings(exts)
	return strings.Join(exts, ",")
}

// Source is an enumerated file. Class is the name of its parent directory.
type Source struct {
	Path  string
	Name  string
	Ext   string
	Class string
	Size  int64
}

func newSource(path string, info os.FileInfo) Source {
	return Source{
		Path:  path,
		Name:  info.Name(),
		Ext:   filepath.Ext(info.Name()),
		Class: filepath.Base(filepath.Dir(path)),
		Size:  info.Size(),
	}
}

type Image struct {
	Format string
	Width  int
	Height int
}

// DecodeError reports a file that could be read but not decoded as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsCorrupt(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func checkDir(fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "open directory %s", dir)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrNotDir, "%s", dir)
	}
	return nil
}

// List returns the regular files directly under dir that pass filter, in
// directory-listing order. Use SortByPath when the order matters.
func List(fs afero.Fs, dir string, filter Filter) ([]Source, error) {
	if err := checkDir(fs, dir); err != nil {
		return nil, err
	}

	d, err := fs.Open(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open directory %s", dir)
	}
	defer d.Close()

	infos, err := d.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	var files []Source
	for _, info := range infos {
		if !info.Mode().IsRegular() || !filter.Match(info.Name()) {
			continue
		}
		files = append(files, newSource(filepath.Join(dir, info.Name()), info))
	}

	return files, nil
}

// Walk is List over the whole tree rooted at dir.
func Walk(fs afero.Fs, dir string, filter Filter) ([]Source, error) {
	if err := checkDir(fs, dir); err != nil {
		return nil, err
	}

	var files []Source
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && filter.Match(info.Name()) {
			files = append(files, newSource(path, info))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}

	return files, nil
}

// Classes returns the names of the immediate subdirectories of dir, sorted.
func Classes(fs afero.Fs, dir string) ([]string, error) {
	if err := checkDir(fs, dir); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	var classes []string
	for _, info := range infos {
		if info.IsDir() {
			classes = append(classes, info.Name())
		}
	}
	sort.Strings(classes)

	return classes, nil
}

func SortByPath(files []Source) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
}

// Hash returns the hex SHA-256 of the whole file.
func Hash(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashBlockSize)); err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify fully decodes the image at path. A file that opens but does not
// decode yields a *DecodeError.
func Verify(fs afero.Fs, path string) (Image, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Image{}, &DecodeError{Path: path, Err: err}
	}

	bounds := img.Bounds()
	return Image{
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Copy copies src to dst, keeping the source's permission bits and
// modification time. The data is written to a hidden file next to dst and
// renamed over it once complete, so a failed copy leaves dst as it was.
func Copy(fs afero.Fs, src, dst string) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := afero.TempFile(fs, filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", dst)
	}
	tmp := out.Name()
	defer func() {
		if err != nil {
			fs.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copy %s", src)
	}
	if err = out.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err = fs.Chmod(tmp, info.Mode().Perm()); err != nil {
		return err
	}
	if err = fs.Chtimes(tmp, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	return fs.Rename(tmp, dst)
}

func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
