package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Shortcut, when set, selects and runs the
// item with a single key press. Hint is shown under the selected item.
type MenuItem struct {
	Label    string
	Hint     string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Disabled items are skipped by the
// cursor and never run.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(0, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// move walks from index from in direction step and stops at the first
// enabled item. The selection is unchanged when there is none.
func (m *Menu) move(from, step int) {
	for i := from; i >= 0 && i < len(m.Items); i += step {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// Update handles arrow and vim navigation, enter and item shortcuts.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.move(m.Selected-1, -1)
		return m, nil
	case "down", "j":
		m.move(m.Selected+1, 1)
		return m, nil
	case "enter":
		return m, m.run(m.Selected)
	}

	for i, item := range m.Items {
		if item.Shortcut != "" && item.Shortcut == key && !item.Disabled {
			m.Selected = i
			return m, m.run(i)
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var (
		selected = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		normal   = lipgloss.NewStyle().Foreground(theme.Text)
		disabled = lipgloss.NewStyle().Foreground(theme.TextDim)
	)

	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Shortcut != "" {
			label = "[" + item.Shortcut + "] " + label
		}
		switch {
		case item.Disabled:
			b.WriteString(disabled.Render("    " + label))
		case i == m.Selected:
			b.WriteString(selected.Render("  ▸ " + label))
		default:
			b.WriteString(normal.Render("    " + label))
		}
		b.WriteString("\n")
		if i == m.Selected && item.Hint != "" {
			b.WriteString(theme.Hint.Render("      "+item.Hint) + "\n")
		}
	}
	return b.String()
}
