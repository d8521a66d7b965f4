package achievements

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	achievedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type Model struct {
	progress []models.AchievementProgress
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{width: width, height: height}
}

func (m *Model) SetProgress(progress []models.AchievementProgress) {
	m.progress = progress
}

// Label is the display name of an achievement.
func Label(d models.AchievementDefinition) string {
	switch d.Kind {
	case models.AchievementSaved:
		return fmt.Sprintf("Save %.0f %s", d.Target, constants.ReferenceCurrency)
	case models.AchievementWasted:
		return fmt.Sprintf("Waste %.0f %s", d.Target, constants.ReferenceCurrency)
	case models.AchievementStreak:
		return fmt.Sprintf("%.0f-day streak", d.Target)
	}
	return d.ID
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	if len(m.progress) == 0 {
		return "\n  Loading achievements..."
	}

	header := titleStyle.Render(fmt.Sprintf("Achievements: %d of %d earned",
		pipeline.CountAchieved(m.progress), len(m.progress)))

	rows := []string{header}
	for _, p := range m.progress {
		line := fmt.Sprintf("%-22s %s %.0f / %.0f", Label(p.Definition),
			cli.ProgressBar(p.Fraction(), 20), p.Current, p.Definition.Target)
		if p.Achieved {
			rows = append(rows, achievedStyle.Render("✓ "+line))
		} else {
			rows = append(rows, lockedStyle.Render("○ "+line))
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
