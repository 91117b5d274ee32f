package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingMovies  = "Loading movies…"
	MsgLoadingDetails = "Loading details…"
	MsgNoResults      = "No movies found"
	MsgNoSuggestion   = "No suggestion to accept"
	MsgNoPage         = "Nothing to open"
)

func MsgResultsCount(query string, n int) string {
	noun := "movies"
	if n == 1 {
		noun = "movie"
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Sprintf("%d popular %s", n, noun)
	}
	return fmt.Sprintf("%d %s for '%s'", n, noun, query)
}

func MsgOpened(url string) string {
	return "Opened " + truncateMiddle(url, 60)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
	a.err = nil
}

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}
