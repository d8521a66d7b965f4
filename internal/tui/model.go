package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/goalboard"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
	"github.com/julianstephens/thrift/internal/storage"
	"github.com/julianstephens/thrift/internal/tui/components/achievements"
	"github.com/julianstephens/thrift/internal/tui/components/entries"
	"github.com/julianstephens/thrift/internal/tui/components/goals"
	"github.com/julianstephens/thrift/internal/tui/components/settings"
	"github.com/julianstephens/thrift/internal/tui/components/stats"
	"github.com/julianstephens/thrift/internal/validation"
)

// SnapshotMsg carries a freshly computed pipeline snapshot into the program.
type SnapshotMsg pipeline.Snapshot

// dataLoadedMsg carries the raw rows the pipeline snapshot does not hold.
type dataLoadedMsg struct {
	entries    []models.Entry
	categories []models.Category
	settings   models.Settings
	err        error
}

// opDoneMsg reports the outcome of a store write. It is sent only after the
// store call has returned.
type opDoneMsg struct {
	op   string
	info string
	err  error
}

type EntryFormModel struct {
	Name     string
	Amount   string
	Kind     models.EntryKind
	Category string
	Date     string
}

type GoalFormModel struct {
	Name        string
	Target      string
	Description string
	From        string
}

type SettingsFormModel struct {
	Currency string
	Language string
}

type Model struct {
	store     storage.Provider
	pipe      *pipeline.Pipeline
	validator *validation.Validator
	board     *goalboard.Board

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	entriesModel      entries.Model
	goalsModel        goals.Model
	statsModel        stats.Model
	achievementsModel achievements.Model
	settingsModel     settings.Model

	form         *huh.Form
	entryForm    *EntryFormModel
	goalForm     *GoalFormModel
	settingsForm *SettingsFormModel
	editingEntry *models.Entry
	editingGoal  *models.Goal
	pendingEntry *models.Entry
	formError    string

	snapshot       pipeline.Snapshot
	hasSnapshot    bool
	settings       models.Settings
	categories     []string
	welcomeChecked bool

	// status is shown once and cleared by the next key press
	status      string
	statusError bool

	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, pipe *pipeline.Pipeline, v *validation.Validator) Model {
	s := models.DefaultSettings()
	return Model{
		store:             store,
		pipe:              pipe,
		validator:         v,
		board:             goalboard.New(store),
		state:             constants.StateEntries,
		keys:              DefaultKeyMap(),
		help:              help.New(),
		entriesModel:      entries.New(nil, s.Currency, 0, 0),
		goalsModel:        goals.New(0, 0),
		statsModel:        stats.New(0, 0),
		achievementsModel: achievements.New(0, 0),
		settingsModel:     settings.New(s, 0, 0),
		settings:          s,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateEntries, constants.StateGoals:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	case constants.StateStats:
		keys = append(keys, m.statsModel.Keys()...)
	case constants.StateSettings:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}

	var actions []key.Binding
	switch m.state {
	case constants.StateEntries, constants.StateGoals:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete}
	case constants.StateStats:
		actions = m.statsModel.Keys()
	case constants.StateSettings:
		actions = []key.Binding{m.keys.Edit}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.loadDataCmd())
}

func (m Model) refreshCmd() tea.Cmd {
	pipe := m.pipe
	return func() tea.Msg {
		snap, err := pipe.Refresh(context.Background())
		if err != nil {
			return opDoneMsg{op: "refresh", err: err}
		}
		return SnapshotMsg(snap)
	}
}

func (m Model) loadDataCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		var msg dataLoadedMsg
		if msg.entries, msg.err = store.GetAllEntries(); msg.err != nil {
			return msg
		}
		if msg.categories, msg.err = store.GetAllCategories(); msg.err != nil {
			return msg
		}
		msg.settings, msg.err = store.GetSettings()
		return msg
	}
}

// isMainView reports whether the state is one of the tabs.
func isMainView(s constants.SessionState) bool {
	return s <= constants.StateSettings
}

// filtering reports whether a list on the current tab owns the keyboard.
func (m Model) filtering() bool {
	switch m.state {
	case constants.StateEntries:
		return m.entriesModel.Filtering()
	case constants.StateGoals:
		return m.goalsModel.Filtering()
	}
	return false
}
