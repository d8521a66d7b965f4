package entries

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/models"
)

type AddEntryMsg struct{}

type EditEntryMsg struct {
	Entry models.Entry
}

type DeleteEntryMsg struct {
	Entry models.Entry
}

type Item struct {
	Entry    models.Entry
	Currency string
}

func (i Item) Title() string {
	mark := "▲"
	if !i.Entry.IsSaving() {
		mark = "▼"
	}
	return mark + " " + i.Entry.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s · %s",
		cli.FormatAmount(i.Entry.Amount, i.Currency),
		i.Entry.Category,
		i.Entry.Timestamp.Format(constants.DateFormat+" "+constants.TimeFormat))
}

func (i Item) FilterValue() string { return i.Entry.Name + " " + i.Entry.Category }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.Entry, currency string, width, height int) Model {
	l := list.New(items(entries, currency), list.NewDefaultDelegate(), width, height)
	l.Title = "Entries"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	// Quitting is handled by the parent model
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func items(entries []models.Entry, currency string) []list.Item {
	out := make([]list.Item, len(entries))
	for i, e := range entries {
		out[i] = Item{Entry: e, Currency: currency}
	}
	return out
}

// SetEntries replaces the list contents, newest first as the store returns them.
func (m *Model) SetEntries(entries []models.Entry, currency string) {
	m.list.SetItems(items(entries, currency))
}

// Filtering reports whether the filter prompt has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEntryMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditEntryMsg{Entry: i.Entry} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{Entry: i.Entry} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No entries yet.\n  Press 'a' to record a saving or a waste."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
