package balance

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/xingbase/dsprep/file"
	"github.com/xingbase/dsprep/ui"
)

var ErrNoClasses = errors.New("no class subdirectories found")

// Thresholds left nil are not checked.
type Thresholds struct {
	Ratio *float64
	Diff  *int
}

type Class struct {
	Name  string
	Count int
	// Ratio is Count/Max, 1 when Max is 0.
	Ratio     float64
	Diff      int
	LowRatio  bool
	LargeDiff bool
}

func (c Class) Flagged() bool {
	return c.LowRatio || c.LargeDiff
}

type Report struct {
	Classes    []Class
	Max        int
	Thresholds Thresholds
}

func (r *Report) Imbalanced() bool {
	for _, c := range r.Classes {
		if c.Flagged() {
			return true
		}
	}
	return false
}

// Check counts the files in each immediate subdirectory of dir and flags
// underrepresented classes.
func Check(fs afero.Fs, dir string, filter file.Filter, th Thresholds) (*Report, error) {
	names, err := file.Classes(fs, dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrNoClasses, "in %s", dir)
	}

	counts := make(map[string]int, len(names))
	for _, name := range names {
		files, err := file.List(fs, filepath.Join(dir, name), filter)
		if err != nil {
			return nil, err
		}
		counts[name] = len(files)
	}

	return Evaluate(names, counts, th), nil
}

// Evaluate applies the thresholds to already counted classes, in the order
// given by names.
func Evaluate(names []string, counts map[string]int, th Thresholds) *Report {
	r := &Report{Thresholds: th}
	for _, name := range names {
		if counts[name] > r.Max {
			r.Max = counts[name]
		}
	}

	for _, name := range names {
		c := Class{Name: name, Count: counts[name], Ratio: 1, Diff: r.Max - counts[name]}
		if r.Max > 0 {
			c.Ratio = float64(c.Count) / float64(r.Max)
			c.LowRatio = th.Ratio != nil && c.Ratio < *th.Ratio
			c.LargeDiff = th.Diff != nil && c.Diff > *th.Diff
		}
		r.Classes = append(r.Classes, c)
	}

	return r
}

func (r *Report) status(c Class) string {
	var status []string
	if c.LowRatio {
		status = append(status, fmt.Sprintf("ratio<%.2f", *r.Thresholds.Ratio))
	}
	if c.LargeDiff {
		status = append(status, fmt.Sprintf("diff>%d", *r.Thresholds.Diff))
	}
	if len(status) == 0 {
		return "OK"
	}
	return strings.Join(status, "; ")
}

// Render writes the summary table.
func (r *Report) Render(w io.Writer) error {
	rows := make([][]string, 0, len(r.Classes))
	for _, c := range r.Classes {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%d", c.Count),
			fmt.Sprintf("%.2f", c.Ratio),
			fmt.Sprintf("%d", c.Diff),
			r.status(c),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(ui.Dim).
		Headers("Class", "Count", "Count/Max", "Diff", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := ui.Renderer.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Inherit(ui.Cyan).Bold(true)
			case row >= 0 && row < len(r.Classes) && r.Classes[row].Flagged():
				return style.Inherit(ui.Red)
			}
			return style
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
