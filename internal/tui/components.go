package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/history"
	"github.com/pders01/flik/internal/popularity"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	rows := []string{HeaderStyle.Render(truncateEnd(title, width-2))}
	if subtitle != "" {
		rows = append(rows, renderMuted(truncateEnd(subtitle, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return MutedStyle.Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

func renderSuggestions(suggestions []history.Suggestion, width int) string {
	if len(suggestions) == 0 {
		return ""
	}
	rows := make([]string, 0, len(suggestions))
	for i, s := range suggestions {
		marker := "  "
		if i == 0 {
			marker = "› "
		}
		label := truncateEnd(s.Text, width-12)
		rows = append(rows, renderMuted(marker+label+"  ("+s.Kind.String()+")"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderTrending lists ranked search terms with a short poster reference.
// It returns "" for an empty list so the caller can omit the section.
func renderTrending(entries []popularity.Entry, width int) string {
	if len(entries) == 0 {
		return ""
	}
	rows := []string{HeaderStyle.Render("› Trending Movies")}
	for _, e := range entries {
		term := truncateEnd(e.SearchTerm, 32)
		line := RankStyle.Render(fmt.Sprintf("%d", e.Rank)) + "  " + CardTitleStyle.Render(term)
		if e.PosterURL != "" {
			line += "  " + renderMuted(truncateMiddle(e.PosterURL, max(width-lipgloss.Width(line)-4, 0)))
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard draws one movie as a fixed-width card with title, poster
// reference, rating, language and release year.
func renderCard(m catalog.Movie, imageBase string, width int, selected bool) string {
	inner := max(width-4, 8)

	poster := m.PosterURL(imageBase)
	if poster == "" {
		poster = "no poster"
	} else {
		poster = truncateMiddle(poster, inner)
	}

	meta := RatingStyle.Render("★ "+m.Rating()) +
		renderMuted(" • "+m.Language()+" • "+m.Year())

	body := lipgloss.JoinVertical(lipgloss.Left,
		CardTitleStyle.Render(truncateEnd(m.Title, inner)),
		meta,
		renderMuted(poster),
	)

	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}
	return style.Width(width - 2).Render(body)
}

// renderGrid lays cards out row by row in list order.
func renderGrid(movies []catalog.Movie, imageBase string, cardWidth, columns, selected int, highlight bool) string {
	if len(movies) == 0 {
		return ""
	}
	columns = max(columns, 1)

	var rows []string
	for start := 0; start < len(movies); start += columns {
		end := min(start+columns, len(movies))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(movies[i], imageBase, cardWidth, highlight && i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}
