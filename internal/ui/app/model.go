package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dailydto "shadowgate/internal/modules/daily/dto"
	dungeondto "shadowgate/internal/modules/dungeon/dto"
	gatedto "shadowgate/internal/modules/gate/dto"
	progressiondto "shadowgate/internal/modules/progression/dto"
	apperrors "shadowgate/internal/platform/errors"
	"shadowgate/internal/ui/components"
	"shadowgate/internal/ui/theme"
	dailyview "shadowgate/internal/ui/views/daily"
	gatesview "shadowgate/internal/ui/views/gates"
	hunterview "shadowgate/internal/ui/views/hunter"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type gatePort interface {
	ListGates(ctx context.Context) ([]gatedto.GateOutput, error)
	WatchGates(ctx context.Context, onChange func([]gatedto.GateOutput, error)) error
}

type dungeonPort interface {
	Enter(ctx context.Context, gateRef string, force bool) (dungeondto.ActiveOutput, error)
	Grade(ctx context.Context) (dungeondto.GradeOutput, error)
	Run(ctx context.Context, gateRef string) (dungeondto.GradeOutput, error)
	Reset(ctx context.Context) error
	GetActive(ctx context.Context) (dungeondto.ActiveOutput, error)
}

type progressionPort interface {
	Status(ctx context.Context) (progressiondto.PlayerOutput, error)
	ListActivities(ctx context.Context, limit int) ([]progressiondto.ActivityOutput, error)
	LogActivity(ctx context.Context, activity string, minutes int, grade string) (progressiondto.LogActivityOutput, error)
}

type dailyPort interface {
	Show(ctx context.Context) (dailydto.StateOutput, error)
	Complete(ctx context.Context, number int) (dailydto.StateOutput, error)
	Reset(ctx context.Context, number int) (dailydto.StateOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabGates tabID = iota
	tabHunter
	tabDaily
	tabCount
)

var tabLabels = [tabCount]string{
	"Gates", "Hunter", "Daily",
}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active dungeondto.ActiveOutput
	err    error
}

type enteredMsg struct {
	active dungeondto.ActiveOutput
	err    error
}

type gradedMsg struct {
	out dungeondto.GradeOutput
	err error
}

type resetMsg struct{ err error }

type activityLoggedMsg struct {
	out progressiondto.LogActivityOutput
	err error
}

// catalogChangedMsg is delivered by the gate watcher after a debounced
// filesystem change.
type catalogChangedMsg struct {
	gates []gatedto.GateOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Run     key.Binding
	Enter   key.Binding
	Grade   key.Binding
	Rescan  key.Binding
	Toggle  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Run:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run gate")),
		Enter:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "enter dungeon")),
		Grade:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grade active")),
		Rescan:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle quest")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Run, k.Enter, k.Grade, k.Rescan},
		{k.Toggle},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the active
// dungeon banner, the help overlay and the command palette. Gate actions
// run through the dungeon port and refresh the hunter and daily views.
type Model struct {
	gates       gatePort
	dungeon     dungeonPort
	progression progressionPort
	daily       dailyPort

	gateView   gatesview.Model
	hunterView hunterview.Model
	dailyView  dailyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	active    dungeondto.ActiveOutput
	hasActive bool
	busy      bool
	status    string
	watchCh   chan catalogChangedMsg
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(gates gatePort, dungeon dungeonPort, progression progressionPort, daily dailyPort) Model {
	return Model{
		gates:       gates,
		dungeon:     dungeon,
		progression: progression,
		daily:       daily,
		gateView:    gatesview.New(gates),
		hunterView:  hunterview.New(progression),
		dailyView:   dailyview.New(daily),
		activeTab:   tabGates,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
		watchCh:     make(chan catalogChangedMsg, 1),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.gateView.Init(),
		m.hunterView.Init(),
		m.dailyView.Init(),
		m.loadActiveCmd(),
		m.startWatchCmd(),
		m.waitCatalogCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case activeLoadedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveDungeon) {
				m.status = "active dungeon check: " + msg.err.Error()
			}
			m.hasActive = false
		} else {
			m.hasActive = true
			m.active = msg.active
			m.status = "dungeon recovered: " + msg.active.GateName
		}
		return m, nil

	case enteredMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, apperrors.ErrActiveDungeonExists) {
				m.status = "a dungeon is already active; grade it or use dungeon:enter <gate> --force"
			} else {
				m.status = "enter failed: " + msg.err.Error()
			}
			return m, nil
		}
		m.hasActive = true
		m.active = msg.active
		m.status = "entered " + msg.active.GateName + " → " + msg.active.WorkspaceDir
		return m, nil

	case gradedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "grade failed: " + msg.err.Error()
			return m, m.loadActiveCmd()
		}
		m.gateView.ShowResult(msg.out)
		m.status = gradeStatus(msg.out)
		if msg.out.Passed {
			m.hasActive = false
			m.active = dungeondto.ActiveOutput{}
		} else {
			m.hasActive = true
			m.active = msg.out.Active
		}
		return m, m.hunterView.Reload()

	case resetMsg:
		if msg.err != nil {
			m.status = "reset failed: " + msg.err.Error()
			return m, nil
		}
		m.hasActive = false
		m.active = dungeondto.ActiveOutput{}
		m.status = "workspace cleared"
		return m, nil

	case activityLoggedMsg:
		if msg.err != nil {
			m.status = "activity: " + msg.err.Error()
			return m, nil
		}
		a := msg.out.Activity
		m.status = fmt.Sprintf("logged %s %d min (%s) +%d XP", a.Activity, a.Minutes, a.Grade, a.XPGained)
		if msg.out.RankedUp {
			m.status = theme.Hot.Render("RANK UP → "+msg.out.Player.Rank) + "  " + m.status
		} else if msg.out.LeveledUp {
			m.status = theme.Hot.Render(fmt.Sprintf("LEVEL UP → %d", msg.out.Player.Level)) + "  " + m.status
		}
		return m, m.hunterView.Reload()

	case catalogChangedMsg:
		if msg.err == nil {
			m.palette.SetGates(gateIDs(msg.gates))
		}
		var cmd tea.Cmd
		m.gateView, cmd = m.gateView.Update(gatesview.GatesLoadedMsg{Gates: msg.gates, Err: msg.err})
		if msg.err == nil {
			m.status = fmt.Sprintf("catalog refreshed (%d gates)", len(msg.gates))
		}
		return m, tea.Batch(cmd, m.waitCatalogCmd())

	case gatesview.GatesLoadedMsg:
		if msg.Err == nil {
			m.palette.SetGates(gateIDs(msg.Gates))
		}
		var cmd tea.Cmd
		m.gateView, cmd = m.gateView.Update(msg)
		return m, cmd

	case hunterview.HunterLoadedMsg:
		var cmd tea.Cmd
		m.hunterView, cmd = m.hunterView.Update(msg)
		return m, cmd

	case dailyview.StateMsg:
		var cmd tea.Cmd
		m.dailyView, cmd = m.dailyView.Update(msg)
		if msg.Err != nil {
			m.status = "daily: " + msg.Err.Error()
		}
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabGates && m.gateView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}

		if m.activeTab == tabGates {
			switch msg.String() {
			case "enter":
				if g, ok := m.gateView.SelectedGate(); ok {
					return m.runGate(g.ID)
				}
				return m, nil
			case "e":
				if g, ok := m.gateView.SelectedGate(); ok {
					return m.enterGate(g.ID, false)
				}
				return m, nil
			case "g":
				return m.gradeActive()
			case "r":
				m.status = "rescanning gates"
				return m, m.gateView.Reload()
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabGates:
		m.gateView, tabCmd = m.gateView.Update(msg)
	case tabHunter:
		m.hunterView, tabCmd = m.hunterView.Update(msg)
	case tabDaily:
		m.dailyView, tabCmd = m.dailyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabGates:
		return m.gateView.View()
	case tabHunter:
		return m.hunterView.View()
	case tabDaily:
		return m.dailyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "shadowgate  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.busy {
		left = theme.Muted.Render("working… ") + left
	}
	if m.hasActive {
		left = theme.Hot.Render("● "+m.active.GateName) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "dungeon:enter":
		if len(parts) < 2 {
			m.status = "usage: dungeon:enter <gate> [--force]"
			return m, nil
		}
		force := len(parts) > 2 && parts[2] == "--force"
		return m.enterGate(parts[1], force)

	case "dungeon:run":
		if len(parts) < 2 {
			m.status = "usage: dungeon:run <gate>"
			return m, nil
		}
		return m.runGate(parts[1])

	case "dungeon:grade":
		return m.gradeActive()

	case "dungeon:reset":
		return m, m.resetCmd()

	case "dungeon:active":
		return m, m.loadActiveCmd()

	case "gates:rescan":
		m.status = "rescanning gates"
		return m, m.gateView.Reload()

	case "daily:complete", "daily:reset":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid quest number"
			return m, nil
		}
		m.activeTab = tabDaily
		return m, m.toggleQuestCmd(n, parts[0] == "daily:complete")

	case "activity:log":
		if len(parts) < 3 {
			m.status = "usage: activity:log <activity> <minutes> [grade]"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		grade := "B"
		if len(parts) > 3 {
			grade = parts[3]
		}
		return m, m.logActivityCmd(parts[1], minutes, grade)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) enterGate(ref string, force bool) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.status = "opening gate " + ref
	return m, func() tea.Msg {
		active, err := m.dungeon.Enter(context.Background(), ref, force)
		return enteredMsg{active: active, err: err}
	}
}

func (m Model) runGate(ref string) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.status = "running gate " + ref
	return m, func() tea.Msg {
		out, err := m.dungeon.Run(context.Background(), ref)
		return gradedMsg{out: out, err: err}
	}
}

func (m Model) gradeActive() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if !m.hasActive {
		m.status = "no active dungeon"
		return m, nil
	}
	m.busy = true
	m.status = "grading " + m.active.GateName
	return m, func() tea.Msg {
		out, err := m.dungeon.Grade(context.Background())
		return gradedMsg{out: out, err: err}
	}
}

func gradeStatus(out dungeondto.GradeOutput) string {
	if !out.Passed {
		return theme.Bad.Render("FAILED") + fmt.Sprintf(" %s (%s) fatigue %d → %d",
			out.Active.GateName, out.Reason, out.Progress.FatigueBefore, out.Progress.FatigueAfter)
	}
	s := theme.Good.Render("CLEARED") + fmt.Sprintf(" %s +%d XP +%d gold",
		out.Active.GateName, out.Progress.XPGained, out.Progress.CurrencyGained)
	switch {
	case out.Progress.RankedUp:
		s += "  " + theme.Hot.Render("RANK UP → "+out.Progress.Player.Rank)
	case out.Progress.LeveledUp:
		s += "  " + theme.Hot.Render(fmt.Sprintf("LEVEL UP → %d", out.Progress.Player.Level))
	}
	return s
}

func gateIDs(gates []gatedto.GateOutput) []string {
	ids := make([]string, len(gates))
	for i, g := range gates {
		ids[i] = g.ID
	}
	return ids
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.gateView, _ = m.gateView.Update(sz)
	m.hunterView, _ = m.hunterView.Update(sz)
	m.dailyView, _ = m.dailyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.dungeon.GetActive(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		return resetMsg{err: m.dungeon.Reset(context.Background())}
	}
}

func (m Model) toggleQuestCmd(n int, completed bool) tea.Cmd {
	return func() tea.Msg {
		var (
			st  dailydto.StateOutput
			err error
		)
		if completed {
			st, err = m.daily.Complete(context.Background(), n)
		} else {
			st, err = m.daily.Reset(context.Background(), n)
		}
		return dailyview.StateMsg{State: st, Err: err}
	}
}

func (m Model) logActivityCmd(activity string, minutes int, grade string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.progression.LogActivity(context.Background(), activity, minutes, grade)
		return activityLoggedMsg{out: out, err: err}
	}
}

// startWatchCmd runs the gate watcher for the lifetime of the program. Only
// the latest catalog is kept when the UI falls behind.
func (m Model) startWatchCmd() tea.Cmd {
	ch := m.watchCh
	return func() tea.Msg {
		go func() {
			_ = m.gates.WatchGates(context.Background(), func(gates []gatedto.GateOutput, err error) {
				msg := catalogChangedMsg{gates: gates, err: err}
				select {
				case ch <- msg:
				default:
					select {
					case <-ch:
					default:
					}
					ch <- msg
				}
			})
		}()
		return nil
	}
}

func (m Model) waitCatalogCmd() tea.Cmd {
	ch := m.watchCh
	return func() tea.Msg {
		return <-ch
	}
}
