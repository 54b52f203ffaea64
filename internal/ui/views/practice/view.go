package practice

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "stillness/internal/modules/catalog/dto"
	practicedto "stillness/internal/modules/practice/dto"
	"stillness/internal/platform/clock"
	"stillness/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type EnginePort interface {
	State(ctx context.Context, kind string) (practicedto.StateOutput, error)
	Toggle(ctx context.Context, kind string, cues bool) (practicedto.StateOutput, error)
	StartMeditation(ctx context.Context, meditationID string, cues bool) (practicedto.StateOutput, error)
	Reset(ctx context.Context, kind string) (practicedto.StateOutput, error)
	Complete(ctx context.Context, kind string) (practicedto.CompletionOutput, error)
	Adjust(ctx context.Context, kind string, delta int) (practicedto.StateOutput, error)
	SetMinutes(ctx context.Context, kind string, minutes int) (practicedto.StateOutput, error)
	SelectTechnique(ctx context.Context, technique string) (practicedto.StateOutput, error)
}

type CatalogPort interface {
	List(ctx context.Context, category string) ([]catalogdto.MeditationOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StateMsg struct {
	Kind  string
	State practicedto.StateOutput
	Err   error
}

// CompletedMsg carries the result of an early completion request.
type CompletedMsg struct {
	Kind string
	Out  practicedto.CompletionOutput
	Err  error
}

type meditationsLoadedMsg struct {
	items []catalogdto.MeditationOutput
	err   error
}

var techniques = []string{"box", "478", "coherence"}

// ─── list item ───────────────────────────────────────────────────────────────

type meditationItem struct {
	m catalogdto.MeditationOutput
}

func (i meditationItem) Title() string { return i.m.Title }
func (i meditationItem) Description() string {
	return fmt.Sprintf("%d min  %s", i.m.DurationMinutes, i.m.Category)
}
func (i meditationItem) FilterValue() string { return i.m.Title }

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders one engine. The timer tab also offers the guided meditation
// catalog; the breath tab shows the current phase cue.
type Model struct {
	kind        string
	port        EnginePort
	catalog     CatalogPort
	state       practicedto.StateOutput
	bar         progress.Model
	meditations list.Model
	note        string
	width       int
	height      int
}

func New(kind string, port EnginePort, catalog CatalogPort) Model {
	bar := progress.New(
		progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)),
		progress.WithoutPercentage(),
	)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Guided meditations"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)

	return Model{
		kind:        kind,
		port:        port,
		catalog:     catalog,
		bar:         bar,
		meditations: l,
		state:       practicedto.StateOutput{Kind: kind, Mode: "idle"},
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadStateCmd()}
	if m.catalog != nil {
		cmds = append(cmds, m.loadMeditationsCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Kind() string { return m.kind }

// Running reports whether the engine is out of idle.
func (m Model) Running() bool { return m.state.Mode != "" && m.state.Mode != "idle" }

func (m Model) State() practicedto.StateOutput { return m.state }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case StateMsg:
		if msg.Kind != m.kind {
			return m, nil
		}
		if msg.Err != nil {
			m.note = msg.Err.Error()
		}
		if msg.State.Kind != "" {
			m.state = msg.State
		}
		return m, nil

	case meditationsLoadedMsg:
		if msg.err != nil {
			m.meditations.Title = "Guided meditations: " + msg.err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = meditationItem{m: item}
		}
		return m, m.meditations.SetItems(items)

	case tea.KeyMsg:
		if m.catalog != nil {
			var cmd tea.Cmd
			m.meditations, cmd = m.meditations.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// ApplyTick folds an engine tick into the displayed state without a round
// trip through the usecase.
func (m *Model) ApplyTick(tick practicedto.TickOutput) {
	if tick.Kind != m.kind {
		return
	}
	m.state.RemainingSeconds = tick.RemainingSeconds
	m.state.Ratio = tick.Ratio
	if m.state.Mode == "idle" {
		m.state.Mode = "running"
	}
}

func (m *Model) ApplyPhase(phase practicedto.PhaseOutput) {
	if phase.Kind != m.kind {
		return
	}
	m.state.PhaseLabel = phase.Label
	m.state.PhaseRemaining = phase.SecondsRemaining
}

func (m *Model) ApplyCompletion(done practicedto.CompletionOutput) {
	if done.Kind != m.kind {
		return
	}
	switch {
	case done.Discarded:
		m.note = "under a minute, not recorded"
	case done.Recorded:
		m.note = fmt.Sprintf("recorded %d min", done.Minutes)
	default:
		m.note = fmt.Sprintf("%d min completed but not saved", done.Minutes)
	}
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) ToggleCmd(cues bool) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.Toggle(ctx, m.kind, cues)
	})
}

func (m Model) ResetCmd() tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.Reset(ctx, m.kind)
	})
}

func (m Model) AdjustCmd(delta int) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.Adjust(ctx, m.kind, delta)
	})
}

func (m Model) SetMinutesCmd(minutes int) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.SetMinutes(ctx, m.kind, minutes)
	})
}

// CycleTechniqueCmd moves the breath engine to the next technique.
func (m Model) CycleTechniqueCmd() tea.Cmd {
	next := techniques[0]
	for i, t := range techniques {
		if t == m.state.Technique {
			next = techniques[(i+1)%len(techniques)]
			break
		}
	}
	return m.SelectTechniqueCmd(next)
}

func (m Model) SelectTechniqueCmd(technique string) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.SelectTechnique(ctx, technique)
	})
}

// StartSelectedCmd starts the highlighted guided meditation, if any.
func (m Model) StartSelectedCmd(cues bool) tea.Cmd {
	item, ok := m.meditations.SelectedItem().(meditationItem)
	if !ok {
		return nil
	}
	return m.StartMeditationCmd(item.m.ID, cues)
}

func (m Model) StartMeditationCmd(id string, cues bool) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.StartMeditation(ctx, id, cues)
	})
}

func (m Model) CompleteCmd() tea.Cmd {
	kind := m.kind
	return func() tea.Msg {
		out, err := m.port.Complete(context.Background(), kind)
		return CompletedMsg{Kind: kind, Out: out, Err: err}
	}
}

func (m Model) RefreshCmd() tea.Cmd { return m.loadStateCmd() }

func (m Model) loadStateCmd() tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (practicedto.StateOutput, error) {
		return m.port.State(ctx, m.kind)
	})
}

func (m Model) stateCmd(call func(context.Context) (practicedto.StateOutput, error)) tea.Cmd {
	kind := m.kind
	return func() tea.Msg {
		state, err := call(context.Background())
		return StateMsg{Kind: kind, State: state, Err: err}
	}
}

func (m Model) loadMeditationsCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.catalog.List(context.Background(), "")
		return meditationsLoadedMsg{items: items, err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	engine := m.renderEngine()
	if m.catalog == nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, engine)
	}
	listW := m.width * 4 / 10
	left := lipgloss.Place(m.width-listW, m.height, lipgloss.Center, lipgloss.Center, engine)
	right := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.meditations.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderEngine() string {
	s := m.state
	var sb strings.Builder

	heading := fmt.Sprintf("%s  %d min", strings.ToUpper(m.kind), s.Minutes)
	if s.TechniqueName != "" {
		heading += "  " + s.TechniqueName
	}
	if s.MeditationID != "" {
		heading += "  " + s.MeditationID
	}
	sb.WriteString(theme.Title.Render(heading) + "\n")

	remaining := s.RemainingSeconds
	if s.Mode == "idle" && remaining == 0 {
		remaining = float64(s.DurationSeconds)
	}
	sb.WriteString(theme.Clock.Render(clock.FormatCountdown(remaining)) + "\n")
	sb.WriteString(m.bar.ViewAs(math.Max(0, math.Min(1, s.Ratio))) + "\n\n")

	if s.PhaseLabel != "" {
		cue := fmt.Sprintf("%s  %ds", s.PhaseLabel, int(math.Ceil(s.PhaseRemaining)))
		sb.WriteString(theme.Phase(s.PhaseLabel).Render(cue) + "\n\n")
	}

	mode := s.Mode
	if mode == "" {
		mode = "idle"
	}
	sb.WriteString(theme.Muted.Render("state: ") + mode + "\n")
	if m.note != "" {
		sb.WriteString(theme.Muted.Render(m.note) + "\n")
	}

	hint := "space: start/pause  r: reset  c: complete  +/-: minutes"
	switch {
	case m.kind == "breath":
		hint += "  t: technique"
	case m.catalog != nil:
		hint += "  enter: start meditation"
	}
	sb.WriteString("\n" + theme.Muted.Render(hint))
	return theme.Pane.Render(sb.String())
}

func (m *Model) resize() {
	barW := m.width / 2
	if m.catalog != nil {
		barW = m.width * 6 / 10 / 2
	}
	if barW < 20 {
		barW = 20
	}
	m.bar.Width = barW
	if m.catalog != nil {
		m.meditations.SetSize(m.width*4/10, m.height)
	}
}
