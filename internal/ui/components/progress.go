package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/ui/theme"
)

// ScoreBar renders a 0-100 percentage as a horizontal bar.
type ScoreBar struct {
	Label   string
	Percent int
	Width   int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, percent, width int) ScoreBar {
	return ScoreBar{Label: label, Percent: percent, Width: width}
}

// View renders the bar.
func (p ScoreBar) View() string {
	var result string
	if p.Label != "" {
		result = theme.Body.Render(p.Label) + "  "
	}

	suffix := fmt.Sprintf("  %d%%", p.Percent)
	barWidth := max(4, p.Width-lipgloss.Width(result)-len(suffix))
	filled := max(0, min(barWidth, barWidth*p.Percent/100))

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	return result
}
