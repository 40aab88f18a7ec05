package hunter

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressiondto "shadowgate/internal/modules/progression/dto"
	"shadowgate/internal/ui/theme"
)

const recentActivities = 10

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Status(ctx context.Context) (progressiondto.PlayerOutput, error)
	ListActivities(ctx context.Context, limit int) ([]progressiondto.ActivityOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type HunterLoadedMsg struct {
	Player     progressiondto.PlayerOutput
	Activities []progressiondto.ActivityOutput
	Err        error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       Port
	player     progressiondto.PlayerOutput
	activities []progressiondto.ActivityOutput
	barWidth   int
	log        viewport.Model
	err        error
	width      int
	height     int
}

func New(port Port) Model {
	return Model{port: port, barWidth: 20, log: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

// Reload fetches the player document and the recent activity log.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		player, err := m.port.Status(ctx)
		if err != nil {
			return HunterLoadedMsg{Err: err}
		}
		acts, err := m.port.ListActivities(ctx, recentActivities)
		return HunterLoadedMsg{Player: player, Activities: acts, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.barWidth = max(10, msg.Width/2-8)
		m.log.Width = msg.Width - 4
		m.log.Height = msg.Height - 14
		if m.log.Height < 3 {
			m.log.Height = 3
		}
	case HunterLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.player = msg.Player
			m.activities = msg.Activities
			m.log.SetContent(m.renderActivities())
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Bad.Render("status unavailable: " + m.err.Error())
	}
	p := m.player
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.Name) + "  " +
		theme.RankStyle(p.Rank).Render("Rank "+p.Rank) + "  " +
		theme.Hot.Render(fmt.Sprintf("Lv. %d", p.Level)) + "\n\n")

	sb.WriteString(fmt.Sprintf("%s %s %d/%d\n", theme.Muted.Render("XP      "), bar(m.barWidth, xpRatio(p), theme.Sapphire), p.Experience, p.NextLevelXP))
	sb.WriteString(fmt.Sprintf("%s %s %d/100\n", theme.Muted.Render("Fatigue "), bar(m.barWidth, float64(p.Fatigue)/100, theme.Red), p.Fatigue))
	sb.WriteString(fmt.Sprintf("%s %d\n\n", theme.Muted.Render("Gold    "), p.Currency))

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("STR", p.STR), statBox("INT", p.INT), statBox("WIS", p.WIS), statBox("VIT", p.VIT))
	sb.WriteString(stats + "\n\n")
	sb.WriteString(theme.Title.Render("Recent activity") + "\n")
	sb.WriteString(m.log.View())
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func xpRatio(p progressiondto.PlayerOutput) float64 {
	if p.Level < 1 || p.NextLevelXP <= 0 {
		return 0
	}
	span := p.NextLevelXP / p.Level
	base := p.NextLevelXP - span
	if span <= 0 {
		return 0
	}
	r := float64(p.Experience-base) / float64(span)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func bar(width int, ratio float64, color lipgloss.Color) string {
	filled := int(ratio * float64(width))
	filled = min(max(filled, 0), width)
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Surface1).Render(strings.Repeat("░", width-filled))
}

func statBox(name string, value int) string {
	return theme.Pane.Width(10).Align(lipgloss.Center).
		Render(theme.Muted.Render(name) + "\n" + theme.Hot.Render(fmt.Sprintf("%d", value)))
}

func (m Model) renderActivities() string {
	if len(m.activities) == 0 {
		return theme.Muted.Render("Nothing logged yet. Use activity:log from the palette.")
	}
	var sb strings.Builder
	for _, a := range m.activities {
		sb.WriteString(fmt.Sprintf("%s  %-8s %4d min  grade %s  +%d XP\n",
			theme.Muted.Render(a.CreatedAt.Local().Format("2006-01-02 15:04")),
			a.Activity, a.Minutes, a.Grade, a.XPGained))
	}
	return sb.String()
}
