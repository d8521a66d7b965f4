package goals

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
)

type AddGoalMsg struct{}

type EditGoalMsg struct {
	Goal models.Goal
}

type DeleteGoalMsg struct {
	ID string
}

type Item struct {
	Status   pipeline.GoalStatus
	Currency string
}

func (i Item) Title() string {
	if i.Status.Completed {
		return "✓ " + i.Status.Goal.Name
	}
	return "○ " + i.Status.Goal.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s %s / %s %s",
		cli.ProgressBar(i.Status.Fraction, 16),
		i.Status.Display.StringFixed(2),
		i.Status.Goal.TargetAmount.StringFixed(2),
		i.Currency)
	if i.Status.Goal.Description != "" {
		desc += " · " + i.Status.Goal.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Status.Goal.Name }

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

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Goals"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
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

// SetGoals shows active goals first, then completed ones.
func (m *Model) SetGoals(active, completed []pipeline.GoalStatus, currency string) {
	items := make([]list.Item, 0, len(active)+len(completed))
	for _, s := range active {
		items = append(items, Item{Status: s, Currency: currency})
	}
	for _, s := range completed {
		items = append(items, Item{Status: s, Currency: currency})
	}
	m.list.SetItems(items)
}

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
			return m, func() tea.Msg { return AddGoalMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditGoalMsg{Goal: i.Status.Goal} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteGoalMsg{ID: i.Status.Goal.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No goals yet.\n  Press 'a' to set one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
