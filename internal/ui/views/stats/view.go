package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "stillness/internal/modules/catalog/dto"
	historydto "stillness/internal/modules/history/dto"
	statsdto "stillness/internal/modules/stats/dto"
	"stillness/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type StatsPort interface {
	Show(ctx context.Context) statsdto.SnapshotOutput
}

type HistoryPort interface {
	List(ctx context.Context, kind, since string, limit int) ([]historydto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
}

type CatalogPort interface {
	List(ctx context.Context, category string) ([]catalogdto.MeditationOutput, error)
}

const historyLimit = 200

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Snapshot statsdto.SnapshotOutput
	Sessions []historydto.SessionOutput
	Titles   map[string]string
	Err      error
}

type DeletedMsg struct {
	ID  string
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	s     historydto.SessionOutput
	title string
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s  %s %d min", i.s.CompletedAt.Local().Format("Jan 02 15:04"), i.s.Kind, i.s.DurationMinutes)
}

func (i sessionItem) Description() string {
	switch {
	case i.title != "":
		return i.title + "  " + i.s.ID
	case i.s.Technique != "":
		return i.s.Technique + "  " + i.s.ID
	default:
		return i.s.ID
	}
}

func (i sessionItem) FilterValue() string { return i.s.Kind + " " + i.title + " " + i.s.Technique }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	stats    StatsPort
	history  HistoryPort
	catalog  CatalogPort
	snapshot statsdto.SnapshotOutput
	titles   map[string]string
	list     list.Model
	spinner  spinner.Model
	loading  bool
	err      error
	width    int
	height   int
}

func New(stats StatsPort, history HistoryPort, catalog CatalogPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		stats:   stats,
		history: history,
		catalog: catalog,
		list:    l,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.RefreshCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*55/100, m.height)
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		m.snapshot = msg.Snapshot
		m.titles = msg.Titles
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{s: s, title: msg.Titles[s.MeditationID]}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// Filtering reports whether the history filter is open, so the app model
// does not treat typed letters as global keys.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SelectedSessionID returns the highlighted history row's id.
func (m Model) SelectedSessionID() (string, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.s.ID, true
	}
	return "", false
}

// RefreshCmd reloads the snapshot, recent history and meditation titles.
func (m Model) RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out := LoadedMsg{Snapshot: m.stats.Show(ctx), Titles: map[string]string{}}
		if m.catalog != nil {
			if items, err := m.catalog.List(ctx, ""); err == nil {
				for _, item := range items {
					out.Titles[item.ID] = item.Title
				}
			}
		}
		out.Sessions, out.Err = m.history.List(ctx, "", "", historyLimit)
		return out
	}
}

func (m Model) DeleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: m.history.Delete(context.Background(), id)}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading stats…")
	}
	listW := m.width * 55 / 100
	summaryW := m.width - listW

	summary := theme.Pane.
		Width(summaryW - 2).
		Height(m.height - 2).
		Render(m.renderSummary())
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, summary, listPane)
}

func (m Model) renderSummary() string {
	s := m.snapshot
	var sb strings.Builder
	title := "Practice"
	if !s.Fresh {
		title += " (cached)"
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")

	last := s.LastSessionDate
	if last == "" {
		last = "-"
	}
	row := func(label, value string) {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-10s", label)) + value + "\n")
	}
	row("sessions", fmt.Sprintf("%d", s.TotalSessions))
	row("minutes", fmt.Sprintf("%d", s.TotalMinutes))
	row("last", last)
	row("streak", fmt.Sprintf("%d days", s.StreakDays))
	row("current", theme.Hot.Render(fmt.Sprintf("%d days", s.CurrentStreakDays)))

	if len(s.ByKind) > 0 {
		sb.WriteString("\n" + theme.Title.Render("By kind") + "\n")
		for _, b := range s.ByKind {
			sb.WriteString(fmt.Sprintf("  %-10s %3d × %4d min\n", b.Key, b.Sessions, b.Minutes))
		}
	}
	if len(s.ByMeditation) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Guided") + "\n")
		for _, b := range s.ByMeditation {
			name := b.Key
			if title, ok := m.titles[b.Key]; ok {
				name = title
			}
			sb.WriteString(fmt.Sprintf("  %-22s %3d × %4d min\n", name, b.Sessions, b.Minutes))
		}
	}
	if m.err != nil {
		sb.WriteString("\n" + theme.Error.Render("history: "+m.err.Error()) + "\n")
	}
	if !s.AsOf.IsZero() {
		sb.WriteString("\n" + theme.Muted.Render("as of "+s.AsOf.Local().Format("2006-01-02 15:04")))
	}
	return sb.String()
}
