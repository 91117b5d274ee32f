package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/debounce"
	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/history"
	"github.com/pders01/flik/internal/launcher"
	"github.com/pders01/flik/internal/popularity"
)

// MovieSource fetches search results, or the discover list for "".
type MovieSource interface {
	SearchOrDiscover(ctx context.Context, query string) ([]catalog.Movie, error)
}

// SearchRecorder records a successful search without blocking the caller.
type SearchRecorder interface {
	Go(query string, top catalog.Movie)
}

// TrendingSource returns ranked popularity entries, empty on failure.
type TrendingSource interface {
	LoadTop(ctx context.Context, limit int) []popularity.Entry
}

type URLOpener interface {
	Open(url string) error
}

// Deps are the collaborators the App drives. Suggester and Launcher may be
// nil; defaults are built from the config.
type Deps struct {
	Movies    MovieSource
	Recorder  SearchRecorder
	Trending  TrendingSource
	Suggester history.Suggester
	Launcher  URLOpener
}

type App struct {
	config     *config.Config
	movies     MovieSource
	recorder   SearchRecorder
	trending   TrendingSource
	suggester  history.Suggester
	launcher   URLOpener
	debouncer  *debounce.Debouncer[string]
	keyHandler *KeyHandler

	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	view  View
	focus Focus

	// settledQuery is the last query that left the debouncer; lastPushed is
	// the sanitized input most recently handed to it.
	settledQuery string
	lastPushed   string
	fetchSeq     uint64

	loading    bool
	fetchError string
	results    []catalog.Movie
	cursor     int

	trendingEntries []popularity.Entry
	suggestions     []history.Suggestion
	detailMovie     *catalog.Movie

	width           int
	height          int
	status          string
	statusKind      StatusKind
	err             error
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(deps Deps, cfg *config.Config) *App {
	applyTheme(cfg.UI.Colors)

	si := textinput.New()
	si.Placeholder = "Search through thousands of movies"
	si.Prompt = "⌕ "
	si.CharLimit = cfg.Search.MaxQueryLength
	si.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	if deps.Suggester == nil {
		deps.Suggester = history.New()
	}
	if deps.Launcher == nil {
		deps.Launcher = launcher.NewLauncher(cfg)
	}

	app := &App{
		config:      cfg,
		movies:      deps.Movies,
		recorder:    deps.Recorder,
		trending:    deps.Trending,
		suggester:   deps.Suggester,
		launcher:    deps.Launcher,
		debouncer:   debounce.New[string](cfg.Search.Debounce),
		searchInput: si,
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		view:        ViewBrowse,
		focus:       FocusSearch,
		results:     []catalog.Movie{},
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// Close stops the debouncer. Pending input is dropped.
func (a *App) Close() {
	a.debouncer.Stop()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	wordWrapWidth = min(max(wordWrapWidth, 40), 100)
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Init issues the trending load and the discover fetch together and arms
// the settled-query subscription.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadTrending(),
		a.startFetch(""),
		a.waitForSettled(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-3, 1)
		a.searchInput.Width = max(min(msg.Width-12, 80), 10)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case settledQueryMsg:
		cmds = append(cmds, a.waitForSettled())
		if msg.query != a.settledQuery {
			a.settledQuery = msg.query
			cmds = append(cmds, a.startFetch(msg.query))
		}

	case moviesFetchedMsg:
		a.applyFetch(msg)

	case trendingLoadedMsg:
		a.trendingEntries = msg.entries

	case detailRenderedMsg:
		if a.view == ViewDetail && a.detailMovie != nil && a.detailMovie.ID == msg.movieID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case urlOpenedMsg:
		a.setStatus(MsgOpened(msg.url), StatusSuccess)

	case errorMsg:
		a.err = msg.err
		debuglog.Warnf("tui: %v", msg.err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.loading {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	if a.view == ViewDetail {
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// startFetch moves the results region to Loading and issues a fetch tagged
// with a fresh sequence number.
func (a *App) startFetch(query string) tea.Cmd {
	a.fetchSeq++
	a.loading = true
	a.fetchError = ""
	a.setStatus(MsgLoadingMovies, StatusInfo)
	return tea.Batch(a.fetchMovies(a.fetchSeq, query), a.spinner.Tick)
}

// applyFetch settles the results region from the latest fetch. Older
// completions are dropped so Loading is cleared exactly once.
func (a *App) applyFetch(msg moviesFetchedMsg) {
	if msg.seq != a.fetchSeq {
		debuglog.Debugf("tui: discarding stale fetch #%d for %q (latest #%d)", msg.seq, msg.query, a.fetchSeq)
		return
	}
	a.loading = false

	if msg.err != nil {
		a.fetchError = catalog.UserMessage(msg.err)
		a.results = []catalog.Movie{}
		a.cursor = 0
		a.setStatus("", StatusInfo)
		a.keyHandler.focusSearch()
		debuglog.WithFields(map[string]interface{}{
			"query": msg.query,
			"seq":   msg.seq,
		}).Errorf("fetch failed: %v", msg.err)
		return
	}

	a.fetchError = ""
	a.results = msg.movies
	if a.results == nil {
		a.results = []catalog.Movie{}
	}
	a.cursor = 0
	if len(a.results) == 0 {
		a.setStatus(MsgNoResults, StatusWarn)
		a.keyHandler.focusSearch()
	} else {
		a.setStatus(MsgResultsCount(msg.query, len(a.results)), StatusInfo)
	}

	if msg.query == "" || len(a.results) == 0 {
		return
	}
	if a.recorder != nil {
		a.recorder.Go(msg.query, a.results[0])
	}
	a.suggester.Add(msg.query, topTitles(a.results, 3))
}

func topTitles(movies []catalog.Movie, n int) []string {
	titles := make([]string, 0, n)
	for _, m := range movies[:min(n, len(movies))] {
		titles = append(titles, m.Title)
	}
	return titles
}

// columns is how many cards fit side by side.
func (a *App) columns() int {
	width := a.config.UI.CardWidth
	if width <= 0 || a.width <= 0 {
		return 1
	}
	return max((a.width-2)/width, 1)
}

func (a *App) selectedMovie() (catalog.Movie, bool) {
	if a.loading || a.fetchError != "" || a.cursor < 0 || a.cursor >= len(a.results) {
		return catalog.Movie{}, false
	}
	return a.results[a.cursor], true
}

func (a *App) refreshSuggestions() {
	value := strings.TrimSpace(a.searchInput.Value())
	if value == "" {
		a.suggestions = nil
		return
	}
	a.suggestions = a.suggester.Suggest(value, a.config.Search.SuggestionLimit)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewDetail:
		content = a.viewport.View()
	default:
		content = a.browseView()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus == "" {
		return content
	}
	separator := renderMuted(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
}

// browseView renders header, search box, optional trending section and the
// results region.
func (a *App) browseView() string {
	width := max(a.width, 40)

	sections := []string{
		renderHeader(CompactLogo+" movies", Tagline, width),
		"",
		renderInputFrame(a.searchInput.View(), a.focus == FocusSearch, a.searchInput.Width+2),
	}
	if a.focus == FocusSearch {
		if s := renderSuggestions(a.suggestions, width); s != "" {
			sections = append(sections, s)
		}
	}

	if trending := renderTrending(a.trendingEntries, width); trending != "" {
		sections = append(sections, "", trending)
	}

	sections = append(sections, "", HeaderStyle.Render("› All Movies"), a.resultsView(width))

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if a.height <= 3 {
		return body
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 2).
		MaxHeight(a.height - 2).
		Render(body)
}

func (a *App) resultsView(width int) string {
	switch {
	case a.loading:
		return a.spinner.View() + " " + renderMuted(MsgLoadingMovies)
	case a.fetchError != "":
		return ErrorMessageStyle.Render(a.fetchError)
	default:
		return renderGrid(a.results, a.config.Catalog.ImageBaseURL, min(a.config.UI.CardWidth, width),
			a.columns(), a.cursor, a.focus == FocusResults)
	}
}

func (a *App) getCustomStatusBar() string {
	bar := lipgloss.NewStyle().Width(a.width).Padding(0, 1)

	if a.err != nil {
		return bar.Render(StatusErrorStyle.Render("✗ " + a.err.Error()))
	}

	parts := make([]string, 0, 2)
	if a.status != "" {
		parts = append(parts, statusStyle(a.statusKind).Render(a.status))
	}
	if commands := a.keyHandler.GetHelpForCurrentView(); len(commands) > 0 {
		parts = append(parts, renderHelp(strings.Join(commands, " • ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return bar.Render(strings.Join(parts, renderMuted("  │  ")))
}
