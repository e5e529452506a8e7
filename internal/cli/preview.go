package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/pkg/grid"
	"github.com/stacklume/stacklume/pkg/layouts"
)

// previewCommand creates the preview command for browsing derived layouts
// in the terminal.
func (c *CLI) previewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <dashboard-id>",
		Short: "Preview derived layouts interactively",
		Long: `Preview derived layouts interactively.

Renders the widget grid for each breakpoint in the terminal. Use the
arrow keys to step through breakpoints and watch the arrangement reflow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			d, err := env.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", args[0], err)
			}
			result, err := env.Runner.DeriveAll(cmd.Context(), args[0], layouts.Options{})
			if err != nil {
				return err
			}

			model := newPreviewModel(d.Title, result)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	return cmd
}

// =============================================================================
// PreviewModel - Breakpoint layout browser
// =============================================================================

// widget block palette, cycled by placement order
var previewColors = []lipgloss.Color{
	colorCyan, colorGreen, colorYellow, colorBlue, colorRed, colorWhite,
}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// PreviewModel is the bubbletea model for the layout preview.
type PreviewModel struct {
	Title    string
	Profiles []grid.Profile
	Layouts  map[string]grid.Arrangement
	Cursor   int
}

// newPreviewModel creates a preview model with profiles ordered widest first.
func newPreviewModel(title string, result *layouts.Result) PreviewModel {
	return PreviewModel{
		Title:    title,
		Profiles: sortedProfiles(result.Profiles),
		Layouts:  result.Layouts,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l":
			if m.Cursor < len(m.Profiles)-1 {
				m.Cursor++
			}
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	profile := m.Profiles[m.Cursor]
	arr := m.Layouts[profile.Name]

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ breakpoint  q quit"))
	b.WriteString("\n\n")

	// Breakpoint selector
	var tabs []string
	for i, p := range m.Profiles {
		label := fmt.Sprintf("%s (%d)", p.Name, p.Columns)
		if i == m.Cursor {
			tabs = append(tabs, listSelectedStyle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, listDimStyle.Render(" "+label+" "))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	b.WriteString(renderGrid(profile.Columns, arr))
	b.WriteString("\n")
	b.WriteString(renderLegend(arr))

	return b.String()
}

// renderGrid draws the arrangement as a cell canvas, one two-character
// code per occupied cell.
func renderGrid(columns int, arr grid.Arrangement) string {
	rows := 0
	for _, p := range arr {
		if p.Y+p.H > rows {
			rows = p.Y + p.H
		}
	}
	if rows == 0 {
		return listDimStyle.Render("  (empty)")
	}

	// Cell ownership per coordinate
	owner := make([][]int, rows)
	for y := range owner {
		owner[y] = make([]int, columns)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for i, p := range arr {
		for y := p.Y; y < p.Y+p.H && y < rows; y++ {
			for x := p.X; x < p.X+p.W && x < columns; x++ {
				owner[y][x] = i
			}
		}
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		b.WriteString("  ")
		for x := 0; x < columns; x++ {
			i := owner[y][x]
			if i < 0 {
				b.WriteString(listDimStyle.Render(" · "))
				continue
			}
			style := lipgloss.NewStyle().Foreground(previewColors[i%len(previewColors)])
			b.WriteString(style.Render(fmt.Sprintf(" %s ", cellCode(i))))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderLegend maps cell codes back to widget IDs.
func renderLegend(arr grid.Arrangement) string {
	var b strings.Builder
	for i, p := range arr {
		style := lipgloss.NewStyle().Foreground(previewColors[i%len(previewColors)])
		lock := ""
		if p.Locked {
			lock = listDimStyle.Render(" (locked)")
		}
		b.WriteString(fmt.Sprintf("  %s %s%s\n", style.Render(cellCode(i)), p.ID, lock))
	}
	return b.String()
}

// cellCode returns a stable two-character label for the i-th placement.
func cellCode(i int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if i < len(letters) {
		return string(letters[i]) + " "
	}
	return string(letters[i/len(letters)-1]) + string(letters[i%len(letters)])
}
