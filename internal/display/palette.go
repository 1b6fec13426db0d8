package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerArt string

// Palette is the set of styles the UI renders with.
type Palette struct {
	Bar       lipgloss.Style
	BarLabel  lipgloss.Style
	BarValue  lipgloss.Style
	Separator lipgloss.Style
	Prompt    lipgloss.Style
	Banner    lipgloss.Style
	Chat      lipgloss.Style
	Heading   lipgloss.Style
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Urgent    lipgloss.Style
	Echo      lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DarkPalette is the soft zinc palette for dark terminals.
var DarkPalette = Palette{
	Bar: lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa")),
	BarLabel:  fg("#a1a1aa"),
	BarValue:  fg("#fde68a"),
	Separator: fg("#52525b"),
	Prompt:    fg("#94a3b8"),
	Banner:    fg("#94a3b8"),
	Chat:      fg("#bae6fd"),
	Heading:   fg("#bbf7d0"),
	Primary:   fg("#d4d4d8"),
	Secondary: fg("#71717a"),
	Urgent:    fg("#fca5a5"),
	Echo:      fg("#a1a1aa"),
}

// LightPalette keeps contrast on light terminal backgrounds.
var LightPalette = Palette{
	Bar: lipgloss.NewStyle().
		Background(lipgloss.Color("#e4e4e7")).
		Foreground(lipgloss.Color("#3f3f46")),
	BarLabel:  fg("#52525b"),
	BarValue:  fg("#b45309"),
	Separator: fg("#a1a1aa"),
	Prompt:    fg("#475569"),
	Banner:    fg("#475569"),
	Chat:      fg("#0369a1"),
	Heading:   fg("#15803d"),
	Primary:   fg("#27272a"),
	Secondary: fg("#71717a"),
	Urgent:    fg("#b91c1c"),
	Echo:      fg("#52525b"),
}

// PaletteFor returns the palette matching the dark-mode flag.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

// Splash returns the banner art in the banner style, centred as a block
// within width columns.
func (p Palette) Splash(width int) string {
	art := p.Banner.Render(strings.TrimRight(bannerArt, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, art)
}

// TermWidth returns the terminal column count, or 80 when stdout is not a
// terminal.
func TermWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
