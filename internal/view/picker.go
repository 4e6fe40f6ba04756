package view

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/stacks"
)

// PickerItem is one selectable open editor.
type PickerItem struct {
	Group  *stacks.Group
	Editor editor.Input
}

// Picker is the quick-open surface over all open editors. Items are ranked
// by name distance to the query; an empty query keeps the given order
// (callers pass MRU order).
type Picker struct {
	input  textinput.Model
	items  []PickerItem
	ranked []PickerItem
	cursor int
}

func NewPicker(items []PickerItem) *Picker {
	input := textinput.New()
	input.Placeholder = "editor name"
	input.Prompt = "> "
	input.Focus()
	p := &Picker{input: input, items: items}
	p.rank()
	return p
}

func (p *Picker) Query() string { return p.input.Value() }

func (p *Picker) Ranked() []PickerItem { return p.ranked }

// Update feeds a message to the query input and re-ranks on change.
func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.rank()
	}
	return cmd
}

func (p *Picker) MoveCursor(delta int) {
	if len(p.ranked) == 0 {
		p.cursor = 0
		return
	}
	p.cursor = (p.cursor + delta + len(p.ranked)) % len(p.ranked)
}

// Selected returns the item under the cursor.
func (p *Picker) Selected() (PickerItem, bool) {
	if p.cursor < 0 || p.cursor >= len(p.ranked) {
		return PickerItem{}, false
	}
	return p.ranked[p.cursor], true
}

func (p *Picker) rank() {
	query := strings.ToUpper(strings.TrimSpace(p.input.Value()))
	p.cursor = 0
	if query == "" {
		p.ranked = append([]PickerItem(nil), p.items...)
		return
	}

	type scored struct {
		item  PickerItem
		score int
	}
	matches := make([]scored, 0, len(p.items))
	for _, item := range p.items {
		name := strings.ToUpper(item.Editor.Name())
		score := levenshtein.ComputeDistance(query, name)
		// substring hits rank ahead of pure edit distance
		if strings.Contains(name, query) {
			score = -len(query) + strings.Index(name, query)
		}
		matches = append(matches, scored{item: item, score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score < matches[j].score })

	p.ranked = p.ranked[:0]
	for _, s := range matches {
		p.ranked = append(p.ranked, s.item)
	}
}

var (
	pickerBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	pickerCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
)

// View renders the picker box with up to max rows.
func (p *Picker) View(max int) string {
	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")
	for i, item := range p.ranked {
		if max > 0 && i == max {
			break
		}
		line := item.Editor.Name() + "  (" + item.Group.Label() + ")"
		if i == p.cursor {
			line = pickerCursorStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return pickerBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
