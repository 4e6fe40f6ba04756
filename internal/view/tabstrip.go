package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/orenlev/tabwell/internal/stacks"
)

var (
	tabStyle = lipgloss.NewStyle().Padding(0, 1)

	activeTabStyle = tabStyle.Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	previewTabStyle = tabStyle.Italic(true)

	stripStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	contentStyle = lipgloss.NewStyle().Padding(1, 2)

	labelStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)

	selectedLabelStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("62")).Padding(0, 1)
)

// Render draws the group: label, tab strip and the active editor's content
// pane. selected marks the workbench's active group.
func (v *GroupView) Render(width, height int, selected bool) string {
	g := v.group

	label := labelStyle.Render(g.Label())
	if selected {
		label = selectedLabelStyle.Render(g.Label())
	}

	strip := stripStyle.Width(width).Render(renderTabs(g))

	body := "no editors open"
	if active := g.ActiveEditor(); active != nil {
		var b strings.Builder
		b.WriteString(active.Name())
		if active.Dirty() {
			b.WriteString(" ●")
		}
		if !g.IsPinned(active) {
			b.WriteString("\n(preview)")
		}
		body = b.String()
	}
	content := contentStyle.Width(width).Render(body)

	out := lipgloss.JoinVertical(lipgloss.Left, label, strip, content)
	if height > 0 {
		out = lipgloss.NewStyle().MaxHeight(height).Render(out)
	}
	return out
}

func renderTabs(g *stacks.Group) string {
	if g.Count() == 0 {
		return tabStyle.Faint(true).Render("empty")
	}
	tabs := make([]string, 0, g.Count())
	for _, in := range g.Editors(false) {
		name := in.Name()
		if in.Dirty() {
			name += " ●"
		}
		style := tabStyle
		switch {
		case g.IsActive(in):
			style = activeTabStyle
		case !g.IsPinned(in):
			style = previewTabStyle
		}
		tabs = append(tabs, style.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
