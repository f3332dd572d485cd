package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/avollmer/tunectl/internal/jobs"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for rendered output.
type Theme struct {
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// statusStyle colors a status label with the reconciler's display color.
func statusStyle(d jobs.Display) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(d.StatusColor))
}

// renderStatus returns the colored (or plain, with NO_COLOR) status label.
func renderStatus(d jobs.Display) string {
	if cfg.NoColor {
		return d.StatusLabel
	}
	return statusStyle(d).Render(d.StatusLabel)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// parseJobID parses a positive job id argument.
func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

// formatFloat renders nullable telemetry, "-" when absent.
func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
