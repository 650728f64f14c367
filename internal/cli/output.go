package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/hue-control/internal/models"
	"github.com/angristan/hue-control/internal/planner"
)

// Light states
var (
	ColorLightOn  = lipgloss.Color("#FBBF24") // Warm yellow for on
	ColorLightOff = lipgloss.Color("#6B6B80") // Dim gray for off
)

// PrintLights writes one status line per light.
// Styling is dropped automatically when w is not a terminal.
func PrintLights(w io.Writer, lights []*models.Light) {
	r := lipgloss.NewRenderer(w)
	onTag := r.NewStyle().Bold(true).Foreground(ColorLightOn).Render("[ON ]")
	offTag := r.NewStyle().Foreground(ColorLightOff).Render("[OFF]")

	for _, l := range lights {
		if l.On {
			_, _ = fmt.Fprintf(w, "%s %s: %s (Brightness %s)\n",
				onTag, l.Name, r.NewStyle().Foreground(lipgloss.Color(l.Color.Hex())).Render(l.Color.Hex()),
				planner.FormatNumber(l.Brightness))
		} else {
			_, _ = fmt.Fprintf(w, "%s %s\n", offTag, l.Name)
		}
	}
}
