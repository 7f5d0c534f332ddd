package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
var Renderer = lipgloss.NewRenderer(os.Stdout)

// Predefined styles for summaries.
var (
	Green  = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan   = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red    = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Yellow = Renderer.NewStyle().Foreground(lipgloss.Color("11"))
	White  = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim    = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

// Plain turns colors off, for --no-color and non-terminal output.
func Plain() {
	Renderer.SetColorProfile(termenv.Ascii)
}

// Label renders "name: value" the way every summary line is printed.
func Label(name string, value any) string {
	return Dim.Render(name+":") + " " + White.Render(fmt.Sprint(value))
}
