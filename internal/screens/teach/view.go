package teach

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/ui/layout"
	"github.com/abhisek/rubberduck/internal/ui/theme"
)

func (s *TeachScreen) View(width, height int) string {
	textWidth := max(20, width-6)
	s.input.SetWidth(textWidth - 2)

	var transcript strings.Builder
	for i, l := range s.lines {
		if i > 0 {
			transcript.WriteString("\n\n")
		}
		transcript.WriteString(renderLine(l, textWidth))
	}
	if s.busy {
		transcript.WriteString("\n\n")
		transcript.WriteString(theme.Hint.Render("The duck is thinking..."))
	}

	var footer strings.Builder
	if s.errMsg != "" {
		footer.WriteString(theme.ErrorText.Render(layout.Wrap(s.errMsg, textWidth)))
		footer.WriteString("\n")
	}
	footer.WriteString(s.input.View())

	footerHeight := lipgloss.Height(footer.String())
	transcriptHeight := max(1, height-footerHeight-2)
	body := layout.TailLines(transcript.String(), transcriptHeight)

	return lipgloss.NewStyle().Padding(1, 2, 0, 2).Render(
		lipgloss.NewStyle().Height(transcriptHeight).Render(body) + "\n" + footer.String(),
	)
}

func renderLine(l line, width int) string {
	switch l.kind {
	case lineTeacher:
		return theme.TeacherName.Render("You") + "\n" + theme.Body.Render(layout.Wrap(l.text, width))
	case lineEvaluation:
		return theme.Evaluation.Render(layout.Wrap(l.text, width))
	default:
		return theme.DuckName.Render("Duck") + "\n" + theme.Body.Render(layout.Wrap(l.text, width))
	}
}
