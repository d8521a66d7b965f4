package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thrift/internal/currency"
	"github.com/julianstephens/thrift/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	settings models.Settings
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, width, height int) Model {
	return Model{
		settings: settings,
		width:    width,
		height:   height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	rate := "not in conversion table"
	if currency.Known(m.settings.Currency) {
		rate = currency.Rate(m.settings.Currency).String()
	}

	title := titleStyle.Render("General Settings")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		fmt.Sprintf("%s %s", labelStyle.Render("Currency:"), valueStyle.Render(m.settings.Currency)),
		fmt.Sprintf("%s %s", labelStyle.Render("Rate to reference:"), valueStyle.Render(rate)),
		fmt.Sprintf("%s %s", labelStyle.Render("Language:"), valueStyle.Render(m.settings.Language)),
		fmt.Sprintf("%s %s", labelStyle.Render("Welcome seen:"), valueStyle.Render(fmt.Sprintf("%t", m.settings.WelcomeSeen))),
	)

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'e' to edit settings")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, sectionStyle.Render(title+"\n"+content), helpText),
		),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
