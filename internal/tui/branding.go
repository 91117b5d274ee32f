package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flik/internal/config"
)

const AppName = "flik"

const Tagline = "Find movies you'll enjoy without the hassle"

var LogoLines = []string{
	"▄████ ██     ██ ██   ▄█",
	"██    ██        ██ ▄█▀ ",
	"████  ██     ██ ████   ",
	"██    ██     ██ ██ ▀█▄ ",
	"██    ██████ ██ ██   ▀█",
}

const CompactLogo = "flik ›"

// BannerColors run from the hero gradient's light end to its dark end.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#D6C7FF"),
	lipgloss.Color("#C4B1FF"),
	lipgloss.Color("#AB8BFF"),
	lipgloss.Color("#9574F0"),
	lipgloss.Color("#AB8BFF"),
}

var (
	PrimaryColor   = lipgloss.Color("#AB8BFF")
	SecondaryColor = lipgloss.Color("#D6C7FF")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#030014")
	SurfaceColor    = lipgloss.Color("#0F0D23")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#A8B5DB")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
	RatingColor  = lipgloss.Color("#FFE66D")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
	MutedStyle         lipgloss.Style
	RatingStyle        lipgloss.Style
	RankStyle          lipgloss.Style
	CardStyle          lipgloss.Style
	SelectedCardStyle  lipgloss.Style
	CardTitleStyle     lipgloss.Style
	ErrorMessageStyle  lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	rebuildStyles()
}

// applyTheme overrides the palette with any colors set in cfg and rebuilds
// the derived styles.
func applyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&BackgroundColor, c.Background)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	rebuildStyles()
}

func rebuildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	MutedStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	RatingStyle = lipgloss.NewStyle().
		Foreground(RatingColor).
		Bold(true)

	RankStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		Width(3).
		Align(lipgloss.Right)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Padding(0, 1)

	SelectedCardStyle = CardStyle.
		BorderForeground(AccentColor)

	CardTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(RatingColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

func GetCompactBanner(message string) string {
	rows := make([]string, 0, len(LogoLines)+2)
	for _, line := range LogoLines {
		rows = append(rows, LogoStyle.Render(line))
	}
	rows = append(rows, "", HelpStyle.Render(message))
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// ShowBanner writes the startup banner with the given version to w.
func ShowBanner(w io.Writer, version string) {
	lines := make([]string, len(LogoLines), len(LogoLines)+2)
	copy(lines, LogoLines)

	tagline := "    " + Tagline
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}
	lines = append(lines, "", tagline)

	colored := make([]string, 0, len(lines))
	for i, line := range lines {
		if line == "" {
			colored = append(colored, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		colored = append(colored, style.Render(line))
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 3).
		MarginTop(1)

	center := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)

	fmt.Fprintln(w, center.Render(frame.Render(lipgloss.JoinVertical(lipgloss.Center, colored...))))
	fmt.Fprintln(w, center.MarginBottom(1).Render(
		lipgloss.NewStyle().Foreground(AccentColor).Render("◆ ◇ ◆ ◇ ◆"),
	))
}
