package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()
	cmd, err := ParseCommand("  Breath:Technique 478 ")
	require.NoError(t, err)
	assert.Equal(t, "breath:technique", cmd.Name)
	assert.Equal(t, "478", cmd.Arg(0))
	assert.Equal(t, "", cmd.Arg(1))

	cmd, err = ParseCommand("history:delete")
	require.NoError(t, err)
	assert.Empty(t, cmd.Args)

	_, err = ParseCommand("timer:minutes")
	assert.EqualError(t, err, "usage: timer:minutes <n>")
	_, err = ParseCommand("stats:refresh now")
	assert.EqualError(t, err, "usage: stats:refresh")
	_, err = ParseCommand("reader:open")
	assert.EqualError(t, err, "unknown command: reader:open")

	cmd, err = ParseCommand("   ")
	require.NoError(t, err)
	assert.Equal(t, Command{}, cmd)
}

func typeInto(p Palette, text string) Palette {
	for _, r := range text {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func special(p Palette, k tea.KeyType) (Palette, tea.Cmd) {
	return p.Update(tea.KeyMsg{Type: k})
}

func TestPaletteTabCompletesCommandName(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeInto(p, "bre")
	assert.Len(t, p.matching(), 2)

	p, _ = special(p, tea.KeyTab)
	assert.Equal(t, "breath:minutes ", p.input.Value())
}

func TestPaletteSubmitAndRecall(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeInto(p, "timer:minutes 20")
	p, cmd := special(p, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, PaletteSubmitMsg{Input: "timer:minutes 20"}, cmd())
	assert.False(t, p.Visible())

	p.Open()
	p = typeInto(p, "stats:refresh")
	p, _ = special(p, tea.KeyEnter)

	p.Open()
	p, _ = special(p, tea.KeyUp)
	assert.Equal(t, "stats:refresh", p.input.Value())
	p, _ = special(p, tea.KeyUp)
	assert.Equal(t, "timer:minutes 20", p.input.Value())
	p, _ = special(p, tea.KeyUp)
	assert.Equal(t, "timer:minutes 20", p.input.Value())
	p, _ = special(p, tea.KeyDown)
	p, _ = special(p, tea.KeyDown)
	assert.Equal(t, "", p.input.Value())

	p, cmd = special(p, tea.KeyEsc)
	assert.Equal(t, PaletteCancelMsg{}, cmd())
	assert.False(t, p.Visible())
}
