package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flik/internal/catalog"
)

// fetchMovies runs one catalog call. A panic in the source is reported as
// a failed fetch so the results region never stays in Loading.
func (a *App) fetchMovies(seq uint64, query string) tea.Cmd {
	source := a.movies
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = moviesFetchedMsg{seq: seq, query: query, err: fmt.Errorf("catalog fetch panicked: %v", r)}
			}
		}()
		if source == nil {
			return moviesFetchedMsg{seq: seq, query: query, err: fmt.Errorf("no catalog configured")}
		}
		movies, err := source.SearchOrDiscover(context.Background(), query)
		return moviesFetchedMsg{seq: seq, query: query, movies: movies, err: err}
	}
}

func (a *App) loadTrending() tea.Cmd {
	source := a.trending
	limit := a.config.Search.TrendingLimit
	timeout := a.config.Store.Timeout
	return func() tea.Msg {
		if source == nil {
			return trendingLoadedMsg{}
		}
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return trendingLoadedMsg{entries: source.LoadTop(ctx, limit)}
	}
}

// waitForSettled blocks on the debouncer's channel and re-enters Update
// with the settled query. Update re-arms it after every delivery.
func (a *App) waitForSettled() tea.Cmd {
	ch := a.debouncer.C()
	return func() tea.Msg {
		return settledQueryMsg{query: <-ch}
	}
}

func (a *App) renderDetail(m catalog.Movie) tea.Cmd {
	imageBase := a.config.Catalog.ImageBaseURL
	webBase := a.config.Catalog.WebURL
	r, rendererErr := a.getRenderer()
	return func() tea.Msg {
		var content strings.Builder
		fmt.Fprintf(&content, "# %s\n\n", m.Title)
		fmt.Fprintf(&content, "**Rating:** %s", m.Rating())
		if m.VoteCount > 0 {
			fmt.Fprintf(&content, " (%d votes)", m.VoteCount)
		}
		fmt.Fprintf(&content, " • **Language:** %s • **Year:** %s\n\n", m.Language(), m.Year())
		if m.ReleaseDate != "" {
			fmt.Fprintf(&content, "*Released: %s*\n\n", m.ReleaseDate)
		}
		if poster := m.PosterURL(imageBase); poster != "" {
			fmt.Fprintf(&content, "Poster: %s\n\n", poster)
		}
		if m.ID != 0 && webBase != "" {
			fmt.Fprintf(&content, "[View on TMDB](%s)\n\n", m.PageURL(webBase))
		}
		content.WriteString("---\n\n")
		if overview := strings.TrimSpace(m.Overview); overview != "" {
			content.WriteString(overview)
		} else {
			content.WriteString("_No overview available._")
		}

		if rendererErr != nil {
			return detailRenderedMsg{movieID: m.ID, content: "Error initializing renderer: " + rendererErr.Error()}
		}
		rendered, err := r.Render(content.String())
		if err != nil {
			return detailRenderedMsg{movieID: m.ID, content: fmt.Sprintf("# Error\n\nFailed to render details: %s\n\nPress Escape to go back.", err)}
		}
		return detailRenderedMsg{movieID: m.ID, content: rendered}
	}
}

func (a *App) openURL(url string) tea.Cmd {
	opener := a.launcher
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return errorMsg{err: wrapErr("failed to open "+truncateMiddle(url, 60), err)}
		}
		return urlOpenedMsg{url: url}
	}
}
