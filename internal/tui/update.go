package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	apperrors "github.com/julianstephens/thrift/internal/errors"
	"github.com/julianstephens/thrift/internal/goalboard"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
	"github.com/julianstephens/thrift/internal/tui/components/entries"
	"github.com/julianstephens/thrift/internal/tui/components/goals"
	"github.com/julianstephens/thrift/internal/tui/components/settings"
	"github.com/julianstephens/thrift/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case SnapshotMsg:
		return m.applySnapshot(pipeline.Snapshot(msg))
	case dataLoadedMsg:
		return m.applyData(msg), nil
	case opDoneMsg:
		return m.handleOpDone(msg)
	case tea.KeyMsg:
		m.status = ""
		m.statusError = false
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case constants.StateWelcome:
		return m.updateWelcome(msg)
	case constants.StateAddEntry, constants.StateEditEntry,
		constants.StateAddGoal, constants.StateEditGoal, constants.StateEditSettings:
		return m.updateForm(msg)
	case constants.StateConfirmDeleteEntry, constants.StateConfirmDeleteGoal, constants.StateConfirmEditGoal:
		return m.updateConfirm(msg)
	}
	return m.updateMain(msg)
}

func (m *Model) resize() {
	// Tabs, status line and help take about six rows
	h := m.height - 6
	if h < 0 {
		h = 0
	}
	m.entriesModel.SetSize(m.width, h)
	m.goalsModel.SetSize(m.width, h)
	m.statsModel.SetSize(m.width, h)
	m.achievementsModel.SetSize(m.width, h)
	m.settingsModel.SetSize(m.width, h)
	m.help.Width = m.width
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
}

func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(km, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(km, m.keys.Tab):
			m.state = (m.state + 1) % (constants.StateSettings + 1)
			return m, nil
		case key.Matches(km, m.keys.ShiftTab):
			m.state = (m.state + constants.StateSettings) % (constants.StateSettings + 1)
			return m, nil
		case key.Matches(km, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case entries.AddEntryMsg:
		return m.openEntryForm(nil)
	case entries.EditEntryMsg:
		return m.openEntryForm(&msg.Entry)
	case entries.DeleteEntryMsg:
		e := msg.Entry
		m.pendingEntry = &e
		m.state = constants.StateConfirmDeleteEntry
		return m, nil
	case goals.AddGoalMsg:
		return m.openGoalForm(nil)
	case goals.EditGoalMsg:
		return m.openGoalForm(&msg.Goal)
	case goals.DeleteGoalMsg:
		if err := m.board.RequestDelete(msg.ID); err != nil {
			m.setStatus(apperrors.Report("delete goal", err), true)
			return m, nil
		}
		m.state = constants.StateConfirmDeleteGoal
		return m, nil
	case settings.EditSettingsMsg:
		return m.openSettingsForm()
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateEntries:
		m.entriesModel, cmd = m.entriesModel.Update(msg)
	case constants.StateGoals:
		m.goalsModel, cmd = m.goalsModel.Update(msg)
	case constants.StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	case constants.StateAchievements:
		m.achievementsModel, cmd = m.achievementsModel.Update(msg)
	case constants.StateSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Continue):
		m.state = constants.StateEntries
		return m, m.dismissWelcomeCmd()
	case key.Matches(km, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Confirm):
		if m.state == constants.StateConfirmDeleteEntry {
			e := m.pendingEntry
			m.pendingEntry = nil
			m.state = constants.StateEntries
			if e == nil {
				return m, nil
			}
			return m, m.deleteEntryCmd(*e)
		}
		m.state = constants.StateGoals
		return m, m.confirmGoalCmd()
	case key.Matches(km, m.keys.Cancel):
		if m.state == constants.StateConfirmDeleteEntry {
			m.pendingEntry = nil
			m.state = constants.StateEntries
			return m, nil
		}
		m.board.Cancel()
		m.state = constants.StateGoals
	}
	return m, nil
}

func (m Model) openEntryForm(e *models.Entry) (tea.Model, tea.Cmd) {
	m.previousState = constants.StateEntries
	m.formError = ""
	m.entryForm = newEntryFormModel(e)
	if e == nil {
		m.editingEntry = nil
		m.state = constants.StateAddEntry
		m.form = m.buildEntryForm("New entry")
	} else {
		orig := *e
		m.editingEntry = &orig
		m.state = constants.StateEditEntry
		m.form = m.buildEntryForm("Edit entry")
	}
	return m, m.form.Init()
}

func (m Model) openGoalForm(g *models.Goal) (tea.Model, tea.Cmd) {
	m.previousState = constants.StateGoals
	m.formError = ""
	m.goalForm = newGoalFormModel(g)
	if g == nil {
		m.editingGoal = nil
		m.state = constants.StateAddGoal
		m.form = m.buildGoalForm("New goal")
	} else {
		orig := *g
		m.editingGoal = &orig
		m.state = constants.StateEditGoal
		m.form = m.buildGoalForm("Edit goal")
	}
	return m, m.form.Init()
}

func (m Model) openSettingsForm() (tea.Model, tea.Cmd) {
	m.previousState = constants.StateSettings
	m.formError = ""
	m.settingsForm = &SettingsFormModel{Currency: m.settings.Currency, Language: m.settings.Language}
	m.state = constants.StateEditSettings
	m.form = m.buildSettingsForm()
	return m, m.form.Init()
}

func (m *Model) closeForm() {
	m.state = m.previousState
	m.form = nil
	m.editingEntry = nil
	m.editingGoal = nil
	m.formError = ""
}

// retryForm reopens the current form with the values already typed.
func (m Model) retryForm(err error) (tea.Model, tea.Cmd) {
	m.formError = apperrors.UserMessage(err)
	switch m.state {
	case constants.StateAddEntry:
		m.form = m.buildEntryForm("New entry")
	case constants.StateEditEntry:
		m.form = m.buildEntryForm("Edit entry")
	case constants.StateAddGoal:
		m.form = m.buildGoalForm("New goal")
	case constants.StateEditGoal:
		m.form = m.buildGoalForm("Edit goal")
	case constants.StateEditSettings:
		m.form = m.buildSettingsForm()
	}
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submitForm()
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.state {
	case constants.StateAddEntry, constants.StateEditEntry:
		return m.submitEntry()
	case constants.StateAddGoal, constants.StateEditGoal:
		return m.submitGoal()
	case constants.StateEditSettings:
		return m.submitSettings()
	}
	m.closeForm()
	return m, nil
}

func (m Model) submitEntry() (tea.Model, tea.Cmd) {
	f := m.entryForm
	ts, err := cli.ParseDate(f.Date)
	if err != nil {
		return m.retryForm(err)
	}

	in := validation.EntryInput{
		Name:      f.Name,
		Amount:    f.Amount,
		Kind:      f.Kind,
		Category:  f.Category,
		Timestamp: ts,
	}
	if m.editingEntry != nil {
		in.ID = m.editingEntry.ID
		if ts.IsZero() || sameSecond(ts, m.editingEntry.Timestamp) {
			in.Timestamp = m.editingEntry.Timestamp
		}
	}

	entry, err := m.validator.Entry(in)
	if err != nil {
		return m.retryForm(err)
	}

	isNew := m.editingEntry == nil
	m.closeForm()
	return m, m.saveEntryCmd(entry, isNew)
}

// sameSecond reports whether a form date is the prefilled value of stored,
// which the form shows without fractional seconds.
func sameSecond(parsed, stored time.Time) bool {
	return parsed.Equal(stored.Truncate(time.Second))
}

func (m Model) submitGoal() (tea.Model, tea.Cmd) {
	f := m.goalForm
	from, err := cli.ParseDate(f.From)
	if err != nil {
		return m.retryForm(err)
	}

	in := validation.GoalInput{
		Name:        f.Name,
		Description: f.Description,
		Target:      f.Target,
		CountsFrom:  from,
	}
	editing := m.editingGoal
	if editing != nil {
		in.ID = editing.ID
		in.CreatedAt = editing.CreatedAt
		if from.IsZero() || sameSecond(from, editing.CountsFrom) {
			in.CountsFrom = editing.CountsFrom
		}
	}

	goal, err := m.validator.Goal(in)
	if err != nil {
		return m.retryForm(err)
	}

	m.closeForm()
	if editing == nil {
		return m, m.addGoalCmd(goal)
	}

	// Edits wait for an explicit confirmation
	if err := m.board.RequestEdit(goal); err != nil {
		m.setStatus(apperrors.Report("edit goal", err), true)
		return m, nil
	}
	m.state = constants.StateConfirmEditGoal
	return m, nil
}

func (m Model) submitSettings() (tea.Model, tea.Cmd) {
	s := m.settings
	s.Currency = strings.ToUpper(strings.TrimSpace(m.settingsForm.Currency))
	s.Language = m.settingsForm.Language
	if err := m.validator.Settings(s); err != nil {
		return m.retryForm(err)
	}
	m.closeForm()
	return m, m.saveSettingsCmd(s)
}

func (m Model) applySnapshot(snap pipeline.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	m.hasSnapshot = true
	m.statsModel.SetSnapshot(snap)
	m.achievementsModel.SetProgress(snap.Achievements)
	m.board.Update(snap.Goals)
	m.goalsModel.SetGoals(m.board.Active(), m.board.Completed(), snap.Currency)

	// The goal awaiting confirmation may have been deleted elsewhere
	if m.state == constants.StateConfirmDeleteGoal || m.state == constants.StateConfirmEditGoal {
		if _, ok := m.board.Pending(); !ok {
			m.state = constants.StateGoals
			m.setStatus(apperrors.UserMessage(models.ErrNotFound), true)
		}
	}
	return m, m.loadDataCmd()
}

func (m Model) applyData(msg dataLoadedMsg) Model {
	if msg.err != nil {
		m.setStatus(apperrors.Report("load data", msg.err), true)
		return m
	}

	m.settings = msg.settings
	models.ApplyDefaultSettings(&m.settings)
	m.entriesModel.SetEntries(msg.entries, m.settings.Currency)
	m.settingsModel.SetSettings(m.settings)

	m.categories = make([]string, 0, len(msg.categories))
	for _, c := range msg.categories {
		m.categories = append(m.categories, c.Name)
	}

	if !m.welcomeChecked {
		m.welcomeChecked = true
		if !m.settings.WelcomeSeen && m.state == constants.StateEntries {
			m.state = constants.StateWelcome
		}
	}
	return m
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(apperrors.Report(msg.op, msg.err), true)
		return m, nil
	}
	if msg.info != "" {
		m.setStatus(msg.info, false)
	}
	return m, m.loadDataCmd()
}

func (m Model) saveEntryCmd(entry models.Entry, isNew bool) tea.Cmd {
	store, v := m.store, m.validator
	return func() tea.Msg {
		// Entries carry their own label; the registry only feeds suggestions
		if cat, err := v.Category(entry.Category); err == nil {
			if err := store.AddCategory(cat); err != nil && !errors.Is(err, models.ErrDuplicateCategory) {
				return opDoneMsg{op: "add category", err: err}
			}
		}
		if isNew {
			return opDoneMsg{op: "add entry", info: "Entry added", err: store.AddEntry(entry)}
		}
		return opDoneMsg{op: "update entry", info: "Entry updated", err: store.UpdateEntry(entry)}
	}
}

func (m Model) deleteEntryCmd(entry models.Entry) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return opDoneMsg{op: "delete entry", info: "Entry deleted", err: store.DeleteEntry(entry.ID)}
	}
}

func (m Model) addGoalCmd(goal models.Goal) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return opDoneMsg{op: "add goal", info: "Goal added", err: store.AddGoal(goal)}
	}
}

func (m Model) confirmGoalCmd() tea.Cmd {
	board := m.board
	pending, ok := board.Pending()
	if !ok {
		return nil
	}
	op, info := "delete goal", "Goal deleted"
	if pending.Kind == goalboard.ActionEdit {
		op, info = "update goal", "Goal updated"
	}
	return func() tea.Msg {
		return opDoneMsg{op: op, info: info, err: board.Confirm()}
	}
}

func (m Model) saveSettingsCmd(s models.Settings) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return opDoneMsg{op: "save settings", info: "Settings saved", err: store.SaveSettings(s)}
	}
}

func (m Model) dismissWelcomeCmd() tea.Cmd {
	store := m.store
	s := m.settings
	s.WelcomeSeen = true
	return func() tea.Msg {
		return opDoneMsg{op: "save settings", err: store.SaveSettings(s)}
	}
}
