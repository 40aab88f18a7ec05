package gates

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dungeondto "shadowgate/internal/modules/dungeon/dto"
	gatedto "shadowgate/internal/modules/gate/dto"
	"shadowgate/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListGates(ctx context.Context) ([]gatedto.GateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type GatesLoadedMsg struct {
	Gates []gatedto.GateOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type gateItem struct {
	gate gatedto.GateOutput
}

func (i gateItem) Title() string {
	return fmt.Sprintf("%d. %s %s", i.gate.Index, theme.RankStyle(i.gate.Rank).Render("["+i.gate.Rank+"]"), i.gate.Name)
}
func (i gateItem) Description() string { return i.gate.ExamLevel + "  " + i.gate.Status() }
func (i gateItem) FilterValue() string { return i.gate.Name + " " + i.gate.ID }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	last    *dungeondto.GradeOutput
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Gates"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, preview: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload rescans the catalog.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.ListGates(context.Background())
		return GatesLoadedMsg{Gates: items, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case GatesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Gates: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Gates"
		items := make([]list.Item, len(msg.Gates))
		for i, g := range msg.Gates {
			items[i] = gateItem{gate: g}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Scanning gates…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedGate returns the highlighted gate, if any.
func (m Model) SelectedGate() (gatedto.GateOutput, bool) {
	if item, ok := m.list.SelectedItem().(gateItem); ok {
		return item.gate, true
	}
	return gatedto.GateOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ShowResult keeps the latest grading result in the detail pane.
func (m *Model) ShowResult(out dungeondto.GradeOutput) {
	m.last = &out
	m.preview.SetContent(m.renderDetail())
	m.preview.GotoTop()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	g, ok := m.SelectedGate()
	if !ok {
		sb.WriteString(theme.Muted.Render("No gates found. Add exercises under the subjects root."))
	} else {
		sb.WriteString(theme.RankStyle(g.Rank).Render("["+g.Rank+"] ") + theme.Title.Render(g.Name) + "\n\n")
		sb.WriteString(theme.Muted.Render("id:      ") + g.ID + "\n")
		sb.WriteString(theme.Muted.Render("exam:    ") + g.ExamLevel + "\n")
		sb.WriteString(theme.Muted.Render("status:  ") + g.Status() + "\n")
		if g.SourcePath != "" {
			sb.WriteString(theme.Muted.Render("source:  ") + g.SourcePath + "\n")
		}
		if g.Command != "" {
			sb.WriteString(theme.Muted.Render("command: ") + g.Command + "\n")
		}
		if g.XPReward > 0 {
			sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("reward:  "), g.XPReward))
		}
		sb.WriteString("\n" + theme.Muted.Render("enter: run  e: enter  g: grade active  r: rescan"))
	}

	if m.last != nil {
		out := m.last
		verdict := theme.Bad.Render("FAILED")
		if out.Passed {
			verdict = theme.Good.Render("CLEARED")
		}
		sb.WriteString("\n\n" + verdict + " " + out.Active.GateName + theme.Muted.Render(" ("+out.Reason+")") + "\n")
		if strings.TrimSpace(out.Output) != "" {
			sb.WriteString("\n" + strings.TrimRight(out.Output, "\n") + "\n")
		}
	}
	return sb.String()
}
