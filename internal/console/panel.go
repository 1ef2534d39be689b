package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the hint panels printed around simulation hand-offs.
// Color choices follow the standard ANSI palette so they degrade
// gracefully on minimal terminals; lipgloss drops the styling entirely
// when stdout is not a terminal.
var (
	// panelStyle is the outer bordered box used for informational panels.
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)

	// commandStyle is the inner box highlighting a command the user
	// should copy into another window.
	commandStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)

	// warnStyle marks warnings that should not be lost in QEMU output.
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)

	// titleStyle is used for diagram headings.
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
)

// Title renders a heading line, used above diagrams.
func Title(text string) string {
	return titleStyle.Render(text)
}

// InfoPanel renders the given blocks inside a bordered panel, separated
// by blank lines. Blocks may themselves be multi-line or pre-rendered
// nested panels.
func InfoPanel(blocks ...string) string {
	return panelStyle.Render(strings.Join(blocks, "\n\n"))
}

// CommandPanel renders a shell command inside its own highlighted box,
// centered relative to the surrounding panel content.
func CommandPanel(command string) string {
	return commandStyle.Render("$ " + command)
}

// Warn renders a warning line in the warning style.
func Warn(text string) string {
	return warnStyle.Render("Warning: " + text)
}
