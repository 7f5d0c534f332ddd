package collision

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
)

var ErrNoAnswer = errors.New("no answer to collision prompt")

// LinePrompt reads one answer per line from r and asks again until it gets
// o, s or r (or the long forms).
func LinePrompt(r io.Reader, w io.Writer) Prompt {
	scanner := bufio.NewScanner(r)

	return func(src, dst string) (Action, error) {
		for {
			fmt.Fprintf(w, "Target exists: '%s'. [O]verwrite / [S]kip / [R]ename? ", dst)

			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return 0, errors.Wrap(err, "read answer")
				}
				return 0, ErrNoAnswer
			}

			action, err := ParseAction(scanner.Text())
			if err == nil {
				return action, nil
			}
			fmt.Fprintln(w, "Enter O, S, or R.")
		}
	}
}

// FormPrompt shows a select form on the terminal.
func FormPrompt(accessible bool) Prompt {
	return func(src, dst string) (Action, error) {
		action := Skip

		sel := huh.NewSelect[Action]().
			Title("Target exists").
			Description(fmt.Sprintf("%s → %s", filepath.Base(src), dst)).
			Options(
				huh.NewOption("Overwrite", Overwrite),
				huh.NewOption("Skip", Skip),
				huh.NewOption("Rename", Rename),
			).
			Value(&action)

		if err := huh.NewForm(huh.NewGroup(sel)).WithAccessible(accessible).Run(); err != nil {
			return 0, errors.Wrap(err, "collision prompt")
		}

		return action, nil
	}
}
