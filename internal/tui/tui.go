// Package tui is the interactive front end: an input line for new items
// above a selectable list, driven by bubbletea. Every change goes straight
// through the todolist.Manager; the list view is rebuilt from the state the
// Manager publishes to its subscribers.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/todolist"
)

// Options tune the interactive view.
type Options struct {
	Theme     string
	AltScreen bool
}

type focus int

const (
	focusInput focus = iota
	focusList
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) FilterValue() string { return i.Text }

// viewState receives the Manager's published state. It sits behind a
// pointer because bubbletea copies the model on every Update.
type viewState struct {
	state todolist.State
}

type modelTUI struct {
	mgr    *todolist.Manager
	view   *viewState
	styles styles
	keys   keyMap

	list   list.Model
	ti     textinput.Model
	focus  focus
	status string // last notice, e.g. a rejected empty add
}

type keyMap struct {
	commit, toggle, remove, removeAll, switchFocus, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		toggle:      key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "toggle")),
		remove:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		removeAll:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		switchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "input/list")),
		quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	styles styles
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := d.styles.muted.Render(d.styles.boxUnchecked)
	text := it.Text
	if it.Completed {
		box = d.styles.success.Render(d.styles.boxChecked)
		text = d.styles.done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = d.styles.selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

func newModel(mgr *todolist.Manager, opt Options) (modelTUI, func()) {
	st := newStyles(opt.Theme)
	view := &viewState{state: todolist.State{Items: mgr.Items(), PendingInput: mgr.PendingInput()}}
	unsubscribe := mgr.Subscribe(func(s todolist.State) { view.state = s })

	keys := newKeyMap()
	l := list.New(nil, itemDelegate{styles: st}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	// indexes handed to the Manager are positions in the full list
	l.SetFilteringEnabled(false)
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()
	extra := func() []key.Binding {
		return []key.Binding{keys.toggle, keys.remove, keys.removeAll, keys.switchFocus}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter a todo"
	ti.CharLimit = 500
	ti.SetValue(view.state.PendingInput)
	ti.Focus()

	m := modelTUI{
		mgr:    mgr,
		view:   view,
		styles: st,
		keys:   keys,
		list:   l,
		ti:     ti,
		focus:  focusInput,
	}
	m.refresh()
	return m, unsubscribe
}

// Run starts the program and blocks until the user quits. Every change is
// already stored when it happens, so nothing is written on exit.
func Run(mgr *todolist.Manager, opt Options) error {
	m, unsubscribe := newModel(mgr, opt)
	defer unsubscribe()

	var popts []tea.ProgramOption
	if opt.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(m, popts...).Run()
	return err
}

// refresh rebuilds list rows and the title from the last published state.
func (m *modelTUI) refresh() {
	items := m.view.state.Items
	rows := make([]list.Item, 0, len(items))
	done := 0
	for _, it := range items {
		rows = append(rows, listItem{Item: it})
		if it.Completed {
			done++
		}
	}
	m.list.SetItems(rows)
	if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todo List",
		m.styles.success.Render("✔"), done,
		m.styles.pending.Render("•"), len(items)-done,
		m.styles.accent.Render("Total"), len(items),
	)
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return textinput.Blink }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.switchFocus) {
			m.setFocus(1 - m.focus)
			return m, nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.ti, cmd = m.ti.Update(msg)
	}
	return m, cmd
}

func (m modelTUI) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.commit):
		if m.mgr.Commit() {
			m.status = ""
		} else {
			m.status = "nothing to add"
		}
		m.ti.SetValue(m.mgr.PendingInput())
		m.refresh()
		return m, nil
	case msg.Type == tea.KeyEsc:
		m.setFocus(focusList)
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if v := m.ti.Value(); v != m.mgr.PendingInput() {
		m.mgr.SetPendingInput(v)
	}
	return m, cmd
}

func (m modelTUI) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggle):
		if len(m.list.Items()) > 0 {
			m.report(m.mgr.ToggleComplete(m.list.Index()))
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.remove):
		if len(m.list.Items()) > 0 {
			m.report(m.mgr.DeleteItem(m.list.Index()))
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.removeAll):
		m.mgr.DeleteAll()
		m.status = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *modelTUI) report(err error) {
	m.status = ""
	if err != nil {
		m.status = err.Error()
	}
}

func (m *modelTUI) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.ti.Focus()
	} else {
		m.ti.Blur()
	}
}

func (m modelTUI) View() string {
	input := m.ti.View()
	if m.focus == focusInput {
		input = m.styles.inputFocused.Render(input)
	} else {
		input = m.styles.inputBlurred.Render(input)
	}

	var b strings.Builder
	b.WriteString(input)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.error.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	if err := m.mgr.LastSyncError(); err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.error.Render("not saved: " + err.Error()))
	}
	return m.styles.panel.Render(b.String())
}
