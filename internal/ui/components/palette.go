package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stillness/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const (
	maxHints  = 5
	maxRecall = 20
)

// CommandSpec describes one palette command and how many arguments it takes.
type CommandSpec struct {
	Name    string
	Args    string
	MinArgs int
	MaxArgs int
	Help    string
}

func (s CommandSpec) Usage() string {
	if s.Args == "" {
		return s.Name
	}
	return s.Name + " " + s.Args
}

// Commands is the palette vocabulary. app/model.go dispatches on Name.
var Commands = []CommandSpec{
	{Name: "timer:minutes", Args: "<n>", MinArgs: 1, MaxArgs: 1, Help: "set the timer length"},
	{Name: "timer:meditation", Args: "<id>", MinArgs: 1, MaxArgs: 1, Help: "start a catalog meditation"},
	{Name: "breath:minutes", Args: "<n>", MinArgs: 1, MaxArgs: 1, Help: "set the breath session length"},
	{Name: "breath:technique", Args: "<box|478|coherence>", MinArgs: 1, MaxArgs: 1, Help: "choose a pattern"},
	{Name: "stats:refresh", MinArgs: 0, MaxArgs: 0, Help: "reload stats and history"},
	{Name: "history:delete", Args: "[id]", MinArgs: 0, MaxArgs: 1, Help: "delete a session, default selected"},
}

// Command is a parsed palette line.
type Command struct {
	Name string
	Args []string
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// ParseCommand splits input and checks it against Commands. An empty line
// yields a zero Command and no error.
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, nil
	}
	name := strings.ToLower(fields[0])
	for _, spec := range Commands {
		if spec.Name != name {
			continue
		}
		args := fields[1:]
		if len(args) < spec.MinArgs || len(args) > spec.MaxArgs {
			return Command{}, fmt.Errorf("usage: %s", spec.Usage())
		}
		return Command{Name: name, Args: args}, nil
	}
	return Command{}, fmt.Errorf("unknown command: %s", fields[0])
}

// Styles are built per render so they follow theme.Use.
func paletteStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Teal).
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(0, 1)
}

func usageStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(theme.Subtext0) }
func helpStyle() lipgloss.Style  { return lipgloss.NewStyle().Foreground(theme.Overlay0).Italic(true) }

// Palette is the ":" overlay. It completes command names with tab and recalls
// earlier submissions with up/down.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int

	recent []string
	cursor int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "timer:minutes 20"
	ti.CharLimit = 128
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty line and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.cursor = len(p.recent)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "tab":
			if matches := p.matching(); len(matches) > 0 {
				p.input.SetValue(matches[0].Name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.cursor > 0 {
				p.cursor--
				p.input.SetValue(p.recent[p.cursor])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.cursor < len(p.recent) {
				p.cursor++
				value := ""
				if p.cursor < len(p.recent) {
					value = p.recent[p.cursor]
				}
				p.input.SetValue(value)
				p.input.CursorEnd()
			}
			return p, nil
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.remember(val)
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(line string) {
	if line == "" {
		return
	}
	if n := len(p.recent); n > 0 && p.recent[n-1] == line {
		return
	}
	p.recent = append(p.recent, line)
	if len(p.recent) > maxRecall {
		p.recent = p.recent[len(p.recent)-maxRecall:]
	}
}

// matching filters Commands by the first typed word.
func (p Palette) matching() []CommandSpec {
	typed := strings.Fields(strings.ToLower(p.input.Value()))
	prefix := ""
	if len(typed) > 0 {
		prefix = typed[0]
	}
	var out []CommandSpec
	for _, spec := range Commands {
		if strings.HasPrefix(spec.Name, prefix) {
			out = append(out, spec)
			if len(out) == maxHints {
				break
			}
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matches := p.matching(); len(matches) > 0 {
		sb.WriteString("\n")
		for _, spec := range matches {
			sb.WriteString(usageStyle().Render("  "+spec.Usage()) + "  " + helpStyle().Render(spec.Help) + "\n")
		}
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle().Width(w - 2).Render(sb.String())
}
