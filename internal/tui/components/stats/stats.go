package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginBottom(1)
)

var periodLabels = map[pipeline.Period]string{
	pipeline.PeriodToday: "Today",
	pipeline.PeriodWeek:  "This week",
	pipeline.PeriodMonth: "This month",
	pipeline.PeriodYear:  "This year",
}

type KeyMap struct {
	Next key.Binding
	Prev key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next slice"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev slice"),
		),
	}
}

type Model struct {
	snap   pipeline.Snapshot
	ready  bool
	keys   KeyMap
	angle  float64 // chart pointer, degrees clockwise from 12 o'clock
	width  int
	height int
}

func New(width, height int) Model {
	return Model{
		keys:   DefaultKeyMap(),
		width:  width,
		height: height,
	}
}

func (m *Model) SetSnapshot(snap pipeline.Snapshot) {
	m.snap = snap
	m.ready = true
	if s, ok := pipeline.SliceAt(snap.Slices, m.angle); ok {
		m.angle = s.Start + s.Sweep/2
	}
}

// Selected is the chart slice under the pointer.
func (m Model) Selected() (pipeline.PieSlice, bool) {
	return pipeline.SliceAt(m.snap.Slices, m.angle)
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Prev, m.keys.Next}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	cur, ok := m.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.moveTo(cur.End() + 0.001)
	case key.Matches(keyMsg, m.keys.Prev):
		m.moveTo(cur.Start - 0.001)
	}
	return m, nil
}

func (m *Model) moveTo(angle float64) {
	angle = math.Mod(angle+360, 360)
	if s, ok := pipeline.SliceAt(m.snap.Slices, angle); ok {
		m.angle = s.Start + s.Sweep/2
	}
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading statistics..."
	}
	cur := m.snap.Currency

	var sections []string

	totals := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", labelStyle.Render("Saved:"), cli.StyleAmount(m.snap.Totals.Saved, cur)),
		fmt.Sprintf("%s %s", labelStyle.Render("Wasted:"), cli.StyleAmount(m.snap.Totals.Wasted.Neg(), cur)),
		fmt.Sprintf("%s %s", labelStyle.Render("Net:"), cli.StyleAmount(m.snap.Totals.Net, cur)),
		fmt.Sprintf("%s %d day(s)", labelStyle.Render("Streak:"), m.snap.Streak),
	)
	sections = append(sections, sectionStyle.Render(titleStyle.Render("Totals")+"\n"+totals))

	var periods []string
	for _, p := range pipeline.AllPeriods {
		t := m.snap.Periods[p]
		periods = append(periods, fmt.Sprintf("%s saved %s  wasted %s",
			labelStyle.Render(periodLabels[p]+":"),
			cli.StyleAmount(t.Saved, cur), cli.StyleAmount(t.Wasted.Neg(), cur)))
	}
	sections = append(sections, sectionStyle.Render(titleStyle.Render("Periods")+"\n"+lipgloss.JoinVertical(lipgloss.Left, periods...)))

	if len(m.snap.Slices) > 0 {
		sel, hasSel := m.Selected()
		var rows []string
		for _, s := range m.snap.Slices {
			share := s.Sweep / 360 * 100
			bar := strings.Repeat("■", int(share/5+0.5))
			row := fmt.Sprintf("%-18s %s %5.1f%% %s", s.Category, cli.StyleAmount(s.Total, cur), share, bar)
			if hasSel && s.Category == sel.Category {
				row = selectedStyle.Render("▶ " + row)
			} else {
				row = "  " + row
			}
			rows = append(rows, row)
		}
		sections = append(sections, titleStyle.Render("Categories")+"\n"+lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
