// Package tui hosts the workbench: the stacks model plus one group view per
// group, key dispatch and the confirm/picker/rename overlays.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orenlev/tabwell/internal/config"
	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/event"
	"github.com/orenlev/tabwell/internal/stacks"
	"github.com/orenlev/tabwell/internal/view"
)

type appMode int

const (
	modeNormal appMode = iota
	modeConfirm
	modePicker
	modeRename
)

type pendingPrompt struct {
	editor editor.Input
	ch     chan view.Confirmation
}

// App is the bubbletea program model.
type App struct {
	cfg   *config.Config
	model *stacks.Model
	keys  KeyMap

	views map[*stacks.Group]*view.GroupView
	subs  []*event.Subscription

	mode    appMode
	prompts []pendingPrompt
	picker  *view.Picker
	rename  textinput.Model

	status      string
	width       int
	height      int
	untitledSeq int
}

func New(cfg *config.Config, model *stacks.Model) *App {
	a := &App{
		cfg:   cfg,
		model: model,
		keys:  DefaultKeyMap(),
		views: make(map[*stacks.Group]*view.GroupView),
	}

	a.subs = append(a.subs,
		model.GroupOpened.Subscribe(func(g *stacks.Group) {
			a.views[g] = view.NewGroupView(g, a)
		}),
		model.GroupClosed.Subscribe(func(g *stacks.Group) {
			if v, ok := a.views[g]; ok {
				v.Dispose()
				delete(a.views, g)
			}
			a.status = "closed group " + g.Label()
		}),
	)

	// groups restored from a previous session
	for _, g := range model.Groups() {
		if _, ok := a.views[g]; !ok {
			a.views[g] = view.NewGroupView(g, a)
		}
	}
	return a
}

// ConfirmClose queues a dirty-close prompt and switches to the confirm
// overlay. The future resolves when the user answers.
func (a *App) ConfirmClose(in editor.Input) <-chan view.Confirmation {
	ch := make(chan view.Confirmation, 1)
	a.prompts = append(a.prompts, pendingPrompt{editor: in, ch: ch})
	a.mode = modeConfirm
	return ch
}

func (a *App) Init() tea.Cmd { return textinput.Blink }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case view.CloseResolvedMsg:
		msg.View.ResolveClose(msg)
		return a, nil
	case tea.KeyMsg:
		switch a.mode {
		case modeConfirm:
			return a, a.updateConfirm(msg)
		case modePicker:
			return a, a.updatePicker(msg)
		case modeRename:
			return a, a.updateRename(msg)
		default:
			return a, a.updateNormal(msg)
		}
	}
	return a, nil
}

func (a *App) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	if len(a.prompts) == 0 {
		a.mode = modeNormal
		return nil
	}
	var proceed, answered bool
	switch msg.String() {
	case "y", "enter":
		proceed, answered = true, true
	case "n", "esc":
		proceed, answered = false, true
	}
	if !answered {
		return nil
	}
	prompt := a.prompts[0]
	a.prompts = a.prompts[1:]
	prompt.ch <- view.Confirmation{Proceed: proceed}
	if !proceed {
		a.status = "kept " + prompt.editor.Name()
	}
	if len(a.prompts) == 0 {
		a.mode = modeNormal
	}
	return nil
}

func (a *App) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.picker = nil
		a.mode = modeNormal
		return nil
	case "up":
		a.picker.MoveCursor(-1)
		return nil
	case "down":
		a.picker.MoveCursor(1)
		return nil
	case "enter":
		if item, ok := a.picker.Selected(); ok {
			a.model.SetActive(item.Group)
			item.Group.SetActive(item.Editor)
			a.status = "switched to " + item.Editor.Name()
		}
		a.picker = nil
		a.mode = modeNormal
		return nil
	}
	return a.picker.Update(msg)
}

func (a *App) updateRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		return nil
	case "enter":
		if g := a.model.ActiveGroup(); g != nil {
			if label := strings.TrimSpace(a.rename.Value()); label != "" {
				g.SetLabel(label)
				a.status = "renamed group to " + label
			}
		}
		a.mode = modeNormal
		return nil
	}
	var cmd tea.Cmd
	a.rename, cmd = a.rename.Update(msg)
	return cmd
}

func (a *App) updateNormal(msg tea.KeyMsg) tea.Cmd {
	keys := a.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit

	case key.Matches(msg, keys.NewEditor):
		g := a.model.ActiveGroup()
		if g == nil {
			g = a.model.OpenGroup("", true, -1)
		}
		a.untitledSeq++
		in := editor.NewUntitledInput(fmt.Sprintf("Untitled-%d", a.untitledSeq))
		a.views[g].OpenEditor(in, stacks.OpenOptions{Pinned: false, Active: true, Index: -1})

	case key.Matches(msg, keys.CloseEditor):
		if g := a.model.ActiveGroup(); g != nil {
			return a.views[g].RequestClose(g.ActiveEditor())
		}

	case key.Matches(msg, keys.CloseOthers):
		if g := a.model.ActiveGroup(); g != nil && g.ActiveEditor() != nil {
			g.CloseEditors(g.ActiveEditor(), stacks.CloseOthers)
		}

	case key.Matches(msg, keys.ReopenClosed):
		in := a.model.PopLastClosedEditor()
		if in == nil {
			a.status = "nothing to reopen"
			break
		}
		g := a.model.ActiveGroup()
		if g == nil {
			g = a.model.OpenGroup("", true, -1)
		}
		a.views[g].OpenEditor(in, stacks.OpenOptions{Pinned: true, Active: true, Index: -1})

	case key.Matches(msg, keys.TogglePin):
		if g := a.model.ActiveGroup(); g != nil {
			a.views[g].TogglePin(g.ActiveEditor())
		}

	case key.Matches(msg, keys.ToggleDirty):
		a.toggleDirty()

	case key.Matches(msg, keys.PrevTab):
		if g := a.model.ActiveGroup(); g != nil {
			a.views[g].ActivateRelative(-1)
		}

	case key.Matches(msg, keys.NextTab):
		if g := a.model.ActiveGroup(); g != nil {
			a.views[g].ActivateRelative(1)
		}

	case key.Matches(msg, keys.MoveTabLeft):
		if g := a.model.ActiveGroup(); g != nil {
			a.views[g].MoveActive(-1)
		}

	case key.Matches(msg, keys.MoveTabRight):
		if g := a.model.ActiveGroup(); g != nil {
			a.views[g].MoveActive(1)
		}

	case key.Matches(msg, keys.NextEditor):
		if pos := a.model.Next(); pos != nil {
			a.model.SetActive(pos.Group)
			pos.Group.SetActive(pos.Editor)
		}

	case key.Matches(msg, keys.PrevEditor):
		if pos := a.model.Previous(); pos != nil {
			a.model.SetActive(pos.Group)
			pos.Group.SetActive(pos.Editor)
		}

	case key.Matches(msg, keys.NewGroup):
		if max := a.cfg.UI.MaxGroups; max > 0 && a.model.GroupCount() >= max {
			a.status = fmt.Sprintf("group limit reached (%d)", max)
			break
		}
		a.model.OpenGroup("", true, -1)

	case key.Matches(msg, keys.CloseGroup):
		if g := a.model.ActiveGroup(); g != nil {
			a.model.CloseGroup(g)
		}

	case key.Matches(msg, keys.CycleGroup):
		groups := a.model.Groups()
		if len(groups) < 2 {
			break
		}
		for i, g := range groups {
			if g == a.model.ActiveGroup() {
				a.model.SetActive(groups[(i+1)%len(groups)])
				break
			}
		}

	case key.Matches(msg, keys.RenameGroup):
		if g := a.model.ActiveGroup(); g != nil {
			a.rename = textinput.New()
			a.rename.Prompt = "label: "
			a.rename.SetValue(g.Label())
			a.rename.Focus()
			a.mode = modeRename
		}

	case key.Matches(msg, keys.Picker):
		a.picker = view.NewPicker(a.pickerItems())
		a.mode = modePicker
	}
	return nil
}

func (a *App) toggleDirty() {
	g := a.model.ActiveGroup()
	if g == nil {
		return
	}
	switch in := g.ActiveEditor().(type) {
	case *editor.FileInput:
		in.SetDirty(!in.Dirty())
	case *editor.UntitledInput:
		if in.Dirty() {
			in.SetContent("")
		} else {
			in.SetContent("draft")
		}
	}
}

// pickerItems flattens all open editors, active group first, MRU within
// each group.
func (a *App) pickerItems() []view.PickerItem {
	var items []view.PickerItem
	appendGroup := func(g *stacks.Group) {
		for _, in := range g.Editors(true) {
			items = append(items, view.PickerItem{Group: g, Editor: in})
		}
	}
	if active := a.model.ActiveGroup(); active != nil {
		appendGroup(active)
	}
	for _, g := range a.model.Groups() {
		if g == a.model.ActiveGroup() {
			continue
		}
		appendGroup(g)
	}
	return items
}

var (
	statusStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)

	confirmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2)
)

func (a *App) View() string {
	groups := a.model.Groups()

	var body string
	switch {
	case a.mode == modePicker && a.picker != nil:
		body = a.picker.View(10)
	case a.mode == modeConfirm && len(a.prompts) > 0:
		body = confirmStyle.Render(fmt.Sprintf("%q has unsaved changes.\nClose anyway? (y/n)", a.prompts[0].editor.Name()))
	case a.mode == modeRename:
		body = confirmStyle.Render("Rename group\n" + a.rename.View())
	case len(groups) == 0:
		body = statusStyle.Render("no groups, ctrl+n opens an editor")
	default:
		width := a.width
		if n := len(groups); n > 0 && width > 0 {
			width = a.width / n
		}
		panes := make([]string, 0, len(groups))
		for _, g := range groups {
			v, ok := a.views[g]
			if !ok {
				continue
			}
			panes = append(panes, v.Render(width, a.height-2, g == a.model.ActiveGroup()))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	}

	status := a.status
	if status == "" {
		if g := a.model.ActiveGroup(); g != nil {
			if v, ok := a.views[g]; ok {
				status = v.Status()
			}
		}
	}
	bar := statusStyle.Render(status + "  ·  ctrl+n new · ctrl+w close · ctrl+p quick open · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, body, bar)
}
