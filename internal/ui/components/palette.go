package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shadowgate/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const maxSuggestions = 5

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
	argStyle  = lipgloss.NewStyle().Foreground(theme.Surface1)
)

type paletteCommand struct {
	name  string
	args  string
	gated bool // first argument is a gate reference
}

// commands must stay in sync with the switch in app/model.go executePalette.
var commands = []paletteCommand{
	{name: "dungeon:enter", args: "<gate> [--force]", gated: true},
	{name: "dungeon:run", args: "<gate>", gated: true},
	{name: "dungeon:grade"},
	{name: "dungeon:reset"},
	{name: "dungeon:active"},
	{name: "gates:rescan"},
	{name: "daily:complete", args: "<n>"},
	{name: "daily:reset", args: "<n>"},
	{name: "activity:log", args: "<activity> <minutes> [grade]"},
}

// Suggestion is one completion candidate. Fill replaces the whole input when
// the suggestion is accepted with tab.
type Suggestion struct {
	Label string
	Fill  string
}

// Palette is a command-palette overlay backed by bubbles/textinput. Commands
// that take a gate complete against the current catalog.
type Palette struct {
	input   textinput.Model
	gateIDs []string
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command… (tab completes)"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

// SetGates replaces the gate IDs offered after dungeon:enter and dungeon:run.
func (p *Palette) SetGates(ids []string) {
	p.gateIDs = append([]string(nil), ids...)
}

// SetValue replaces the input text.
func (p *Palette) SetValue(v string) {
	p.input.SetValue(v)
	p.input.CursorEnd()
}

// Value returns the raw input text.
func (p Palette) Value() string { return p.input.Value() }

// Suggestions lists completions for the current input: command names while
// the first word is typed, gate IDs for the first argument of a gate command.
func (p Palette) Suggestions() []Suggestion {
	value := p.input.Value()
	name, rest, hasArgs := strings.Cut(strings.TrimLeft(value, " "), " ")
	name = strings.ToLower(name)

	var out []Suggestion
	if !hasArgs {
		for _, c := range commands {
			if strings.HasPrefix(c.name, name) {
				out = append(out, Suggestion{Label: strings.TrimSpace(c.name + " " + c.args), Fill: c.name + " "})
			}
		}
		return limit(out)
	}

	cmd, ok := lookup(name)
	if !ok || !cmd.gated || strings.Contains(strings.TrimLeft(rest, " "), " ") {
		return nil
	}
	prefix := strings.TrimLeft(rest, " ")
	for _, id := range p.gateIDs {
		if strings.HasPrefix(id, prefix) {
			out = append(out, Suggestion{Label: id, Fill: cmd.name + " " + id + " "})
		}
	}
	return limit(out)
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if s := p.Suggestions(); len(s) > 0 {
				p.SetValue(s[0].Fill)
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if s := p.Suggestions(); len(s) > 0 {
		sb.WriteString("\n")
		for _, h := range s {
			name, args, _ := strings.Cut(h.Label, " ")
			sb.WriteString(hintStyle.Render("  "+name) + " " + argStyle.Render(args) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

func lookup(name string) (paletteCommand, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return paletteCommand{}, false
}

func limit(s []Suggestion) []Suggestion {
	if len(s) > maxSuggestions {
		return s[:maxSuggestions]
	}
	return s
}
