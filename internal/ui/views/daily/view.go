package daily

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	dailydto "shadowgate/internal/modules/daily/dto"
	"shadowgate/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Show(ctx context.Context) (dailydto.StateOutput, error)
	Complete(ctx context.Context, number int) (dailydto.StateOutput, error)
	Reset(ctx context.Context, number int) (dailydto.StateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// StateMsg carries the checklist after a load or a toggle.
type StateMsg struct {
	State dailydto.StateOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   Port
	state  dailydto.StateOutput
	cursor int
	err    error
}

func New(port Port) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		st, err := m.port.Show(context.Background())
		return StateMsg{State: st, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.state = msg.State
			if m.cursor >= len(m.state.Quests) {
				m.cursor = max(0, len(m.state.Quests)-1)
			}
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.state.Quests)-1 {
				m.cursor++
			}
		case " ", "x":
			return m, m.toggle()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Daily quests") + theme.Muted.Render("  "+m.state.Date) + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()) + "\n")
		return sb.String()
	}
	for i, q := range m.state.Quests {
		marker := "  "
		if i == m.cursor {
			marker = theme.Hot.Render("› ")
		}
		box := "[ ]"
		name := q.Name
		if q.Completed {
			box = theme.Good.Render("[x]")
			name = theme.Muted.Render(q.Name)
		}
		sb.WriteString(fmt.Sprintf("%s%s %d. %s\n", marker, box, q.Number, name))
	}
	sb.WriteString("\n")
	if m.state.AllComplete {
		sb.WriteString(theme.Good.Render("All daily quests complete.") + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("Unfinished quests carry a penalty at the next day's login.") + "\n")
	}
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) toggle() tea.Cmd {
	if m.cursor >= len(m.state.Quests) {
		return nil
	}
	q := m.state.Quests[m.cursor]
	return func() tea.Msg {
		var (
			st  dailydto.StateOutput
			err error
		)
		if q.Completed {
			st, err = m.port.Reset(context.Background(), q.Number)
		} else {
			st, err = m.port.Complete(context.Background(), q.Number)
		}
		return StateMsg{State: st, Err: err}
	}
}
