package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/goalboard"
)

var tabTitles = []string{"Entries", "Goals", "Stats", "Achievements", "Settings"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateWelcome:
		return m.viewWelcome()
	case constants.StateEntries:
		content = docStyle.Render(m.entriesModel.View())
	case constants.StateGoals:
		content = docStyle.Render(m.goalsModel.View())
	case constants.StateStats:
		content = m.statsModel.View()
	case constants.StateAchievements:
		content = m.achievementsModel.View()
	case constants.StateSettings:
		content = m.settingsModel.View()
	case constants.StateAddEntry, constants.StateEditEntry,
		constants.StateAddGoal, constants.StateEditGoal, constants.StateEditSettings:
		content = m.viewForm()
	case constants.StateConfirmDeleteEntry:
		content = m.viewConfirmDeleteEntry()
	case constants.StateConfirmDeleteGoal, constants.StateConfirmEditGoal:
		content = m.viewConfirmGoal()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusError {
		return dangerStyle.Render("✗ " + m.status)
	}
	return infoStyle.Render("✓ " + m.status)
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.formError), "", view)
	}
	return docStyle.Render(view)
}

func (m Model) viewWelcome() string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Welcome to "+constants.AppName),
			"",
			"Log the money you save and the money you waste.",
			"Set goals, watch your streak, unlock achievements.",
			"",
			mutedStyle.Render("[enter] Get started   [q] Quit"),
		),
	)
}

func (m Model) viewConfirmDeleteEntry() string {
	if m.pendingEntry == nil {
		return ""
	}
	e := m.pendingEntry
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete entry %q (%s)?", e.Name, cli.FormatAmount(e.Amount, m.settings.Currency))),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmGoal() string {
	p, ok := m.board.Pending()
	if !ok {
		return ""
	}
	prompt := dangerStyle.Render(fmt.Sprintf("Delete goal %q?", p.Goal.Name))
	if p.Kind == goalboard.ActionEdit {
		prompt = warningStyle.Render(fmt.Sprintf("Save changes to goal %q?", p.Goal.Name))
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			prompt,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
