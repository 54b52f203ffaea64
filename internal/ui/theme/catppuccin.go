package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Flavour is one Catppuccin palette.
type Flavour struct {
	Name     string
	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Overlay0 lipgloss.Color
	Lavender lipgloss.Color
	Sapphire lipgloss.Color
	Teal     lipgloss.Color
	Green    lipgloss.Color
	Peach    lipgloss.Color
	Red      lipgloss.Color
}

var (
	Mocha = Flavour{
		Name:     "dark",
		Base:     "#1e1e2e",
		Mantle:   "#181825",
		Surface0: "#313244",
		Surface1: "#45475a",
		Text:     "#cdd6f4",
		Subtext0: "#a6adc8",
		Overlay0: "#6c7086",
		Lavender: "#b4befe",
		Sapphire: "#74c7ec",
		Teal:     "#94e2d5",
		Green:    "#a6e3a1",
		Peach:    "#fab387",
		Red:      "#f38ba8",
	}
	Latte = Flavour{
		Name:     "light",
		Base:     "#eff1f5",
		Mantle:   "#e6e9ef",
		Surface0: "#ccd0da",
		Surface1: "#bcc0cc",
		Text:     "#4c4f69",
		Subtext0: "#6c6f85",
		Overlay0: "#9ca0b0",
		Lavender: "#7287fd",
		Sapphire: "#209fb5",
		Teal:     "#179299",
		Green:    "#40a02b",
		Peach:    "#fe640b",
		Red:      "#d20f39",
	}
)

// Current colours and styles. Use replaces them; call it before building
// any view.
var (
	Base, Mantle, Surface0, Surface1 lipgloss.Color
	Text, Subtext0, Overlay0         lipgloss.Color
	Lavender, Sapphire, Teal         lipgloss.Color
	Green, Peach, Red                lipgloss.Color

	Pane, Title, Muted, Hot, Calm, Error lipgloss.Style

	// Clock renders the large countdown digits.
	Clock lipgloss.Style

	active Flavour
)

func init() {
	apply(Mocha)
}

// Use switches to the flavour for a settings theme value ("dark" or
// "light"). Anything else selects dark.
func Use(name string) Flavour {
	if strings.EqualFold(strings.TrimSpace(name), Latte.Name) {
		apply(Latte)
	} else {
		apply(Mocha)
	}
	return active
}

// Active reports the flavour in use.
func Active() Flavour { return active }

func apply(f Flavour) {
	active = f
	Base, Mantle, Surface0, Surface1 = f.Base, f.Mantle, f.Surface0, f.Surface1
	Text, Subtext0, Overlay0 = f.Text, f.Subtext0, f.Overlay0
	Lavender, Sapphire, Teal = f.Lavender, f.Sapphire, f.Teal
	Green, Peach, Red = f.Green, f.Peach, f.Red

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1, 2)
	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Calm = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red)
	Clock = lipgloss.NewStyle().Foreground(Lavender).Bold(true).Padding(1, 0)
}

// Phase picks a colour per breathing cue so the label changes visibly on
// every transition.
func Phase(label string) lipgloss.Style {
	switch label {
	case "Inhale":
		return Calm
	case "Exhale":
		return lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	}
}
