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

	catalogdto "stillness/internal/modules/catalog/dto"
	historydto "stillness/internal/modules/history/dto"
	practicedto "stillness/internal/modules/practice/dto"
	practicein "stillness/internal/modules/practice/port/in"
	statsdto "stillness/internal/modules/stats/dto"
	"stillness/internal/platform/clock"
	apperrors "stillness/internal/platform/errors"
	"stillness/internal/ui/components"
	"stillness/internal/ui/theme"
	practiceview "stillness/internal/ui/views/practice"
	statsview "stillness/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type practicePort interface {
	practiceview.EnginePort
	Subscribe(observer practicein.Observer) func()
}

type statsPort interface {
	Show(ctx context.Context) statsdto.SnapshotOutput
}

type catalogPort interface {
	List(ctx context.Context, category string) ([]catalogdto.MeditationOutput, error)
}

type historyPort interface {
	List(ctx context.Context, kind, since string, limit int) ([]historydto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabBreath
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Breath", "Stats"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab       key.Binding
	Help      key.Binding
	Palette   key.Binding
	Quit      key.Binding
	Toggle    key.Binding
	Reset     key.Binding
	Complete  key.Binding
	More      key.Binding
	Less      key.Binding
	Technique key.Binding
	Bell      key.Binding
	Enter     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Complete:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete now")),
		More:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "minutes")),
		Less:      key.NewBinding(key.WithKeys("-"), key.WithHelp("+/-", "minutes")),
		Technique: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "technique")),
		Bell:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "bell on/off")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start meditation")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Complete, k.More},
		{k.Technique, k.Enter, k.Bell},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes keys to the active tab, owns
// the help overlay and the command palette, and pumps engine events from the
// observer channel into the practice views.
type Model struct {
	practice practicePort
	observer *engineObserver

	timerView  practiceview.Model
	breathView practiceview.Model
	statsView  statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	bell      bool
	status    string
	width     int
	height    int
}

// NewModel builds the root model and subscribes it to engine events. The
// returned stop func unsubscribes and must run after the program exits.
func NewModel(practice practicePort, stats statsPort, catalog catalogPort, history historyPort) (Model, func()) {
	observer := newEngineObserver()
	unsubscribe := practice.Subscribe(observer)
	stop := func() {
		unsubscribe()
		observer.close()
	}
	return Model{
		practice:   practice,
		observer:   observer,
		timerView:  practiceview.New("timer", practice, catalog),
		breathView: practiceview.New("breath", practice, nil),
		statsView:  statsview.New(stats, history, catalog),
		activeTab:  tabTimer,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}, stop
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.breathView.Init(),
		m.statsView.Init(),
		m.observer.wait(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Engine events keep flowing while the palette is open.
	switch msg := msg.(type) {
	case tickMsg:
		m.timerView.ApplyTick(practicedto.TickOutput(msg))
		m.breathView.ApplyTick(practicedto.TickOutput(msg))
		return m, m.observer.wait()
	case phaseMsg:
		m.timerView.ApplyPhase(practicedto.PhaseOutput(msg))
		m.breathView.ApplyPhase(practicedto.PhaseOutput(msg))
		return m, m.observer.wait()
	case completeMsg:
		done := practicedto.CompletionOutput(msg)
		m.timerView.ApplyCompletion(done)
		m.breathView.ApplyCompletion(done)
		m.status = completionStatus(done)
		return m, tea.Batch(
			m.observer.wait(),
			m.timerView.RefreshCmd(),
			m.breathView.RefreshCmd(),
			m.statsView.RefreshCmd(),
		)
	}

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

	case practiceview.StateMsg:
		if msg.Err != nil {
			m.status = stateError(msg.Err)
		}
		m.timerView, _ = m.timerView.Update(msg)
		m.breathView, _ = m.breathView.Update(msg)
		return m, nil

	case practiceview.CompletedMsg:
		if msg.Err != nil {
			m.status = "complete: " + msg.Err.Error()
		}
		// A successful early completion also arrives through the observer.
		return m, nil

	case statsview.DeletedMsg:
		if msg.Err != nil {
			m.status = "delete failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = "deleted " + msg.ID
		return m, m.statsView.RefreshCmd()

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
		if m.activeTab == tabStats && m.statsView.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case msg.String() == "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Bell):
			m.bell = !m.bell
			m.status = fmt.Sprintf("bell %s for new sessions", onOff(m.bell))
			return m, nil
		}

		if view, ok := m.practiceView(); ok {
			if cmd, handled := m.practiceKey(view, msg); handled {
				return m, cmd
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabBreath:
		m.breathView, tabCmd = m.breathView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) practiceKey(view practiceview.Model, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return view.ToggleCmd(m.bell), true
	case key.Matches(msg, m.keys.Reset):
		return view.ResetCmd(), true
	case key.Matches(msg, m.keys.Complete):
		return view.CompleteCmd(), true
	case key.Matches(msg, m.keys.More):
		return view.AdjustCmd(1), true
	case key.Matches(msg, m.keys.Less):
		return view.AdjustCmd(-1), true
	case key.Matches(msg, m.keys.Technique) && view.Kind() == "breath":
		return view.CycleTechniqueCmd(), true
	case key.Matches(msg, m.keys.Enter) && view.Kind() == "timer":
		return view.StartSelectedCmd(m.bell), true
	}
	return nil, false
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
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
		switch m.activeTab {
		case tabTimer:
			content = m.timerView.View()
		case tabBreath:
			content = m.breathView.View()
		case tabStats:
			content = m.statsView.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
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
	bar := "stillness  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	for _, view := range []practiceview.Model{m.timerView, m.breathView} {
		if view.Running() {
			s := view.State()
			left = theme.Hot.Render(fmt.Sprintf("● %s %s", s.Kind, clock.FormatCountdown(s.RemainingSeconds))) + "  " + left
		}
	}
	if m.bell {
		left = theme.Calm.Render("♪") + " " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  ::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	command, err := components.ParseCommand(input)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch command.Name {
	case "timer:minutes", "breath:minutes":
		minutes, err := strconv.Atoi(command.Arg(0))
		if err != nil {
			m.status = "invalid minutes: " + command.Arg(0)
			return m, nil
		}
		if command.Name == "timer:minutes" {
			m.activeTab = tabTimer
			return m, m.timerView.SetMinutesCmd(minutes)
		}
		m.activeTab = tabBreath
		return m, m.breathView.SetMinutesCmd(minutes)

	case "timer:meditation":
		m.activeTab = tabTimer
		return m, m.timerView.StartMeditationCmd(command.Arg(0), m.bell)

	case "breath:technique":
		m.activeTab = tabBreath
		return m, m.breathView.SelectTechniqueCmd(command.Arg(0))

	case "stats:refresh":
		m.activeTab = tabStats
		m.status = "stats refreshed"
		return m, m.statsView.RefreshCmd()

	case "history:delete":
		id := command.Arg(0)
		if id == "" && m.activeTab == tabStats {
			id, _ = m.statsView.SelectedSessionID()
		}
		if id == "" {
			m.status = "select a session or pass its id"
			return m, nil
		}
		return m, m.statsView.DeleteCmd(id)
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) practiceView() (practiceview.Model, bool) {
	switch m.activeTab {
	case tabTimer:
		return m.timerView, true
	case tabBreath:
		return m.breathView, true
	}
	return practiceview.Model{}, false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.breathView, _ = m.breathView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func stateError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrActiveSessionExists):
		return "another session is running"
	case errors.Is(err, apperrors.ErrEngineBusy):
		return "stop the session before changing it"
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return "nothing to complete"
	}
	return err.Error()
}

func completionStatus(done practicedto.CompletionOutput) string {
	switch {
	case done.Discarded:
		return fmt.Sprintf("%s under a minute, not recorded", done.Kind)
	case done.Recorded:
		return fmt.Sprintf("recorded %d min %s", done.Minutes, done.Kind)
	default:
		return fmt.Sprintf("%s completed, not saved (see log)", done.Kind)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
