package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/history"
	"github.com/pders01/flik/internal/popularity"
)

type fakeResult struct {
	movies []catalog.Movie
	err    error
}

type fakeMovies struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []string
}

func newFakeMovies() *fakeMovies {
	return &fakeMovies{results: make(map[string]fakeResult)}
}

func (f *fakeMovies) set(query string, movies []catalog.Movie, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = fakeResult{movies: movies, err: err}
}

func (f *fakeMovies) SearchOrDiscover(_ context.Context, query string) ([]catalog.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	r := f.results[query]
	return r.movies, r.err
}

type recordCall struct {
	query string
	top   catalog.Movie
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordCall
}

func (f *fakeRecorder) Go(query string, top catalog.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordCall{query: query, top: top})
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeTrending struct {
	entries []popularity.Entry
	limit   int
}

func (f *fakeTrending) LoadTop(_ context.Context, limit int) []popularity.Entry {
	f.limit = limit
	if f.entries == nil {
		return []popularity.Entry{}
	}
	return f.entries
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

type testHarness struct {
	app      *App
	movies   *fakeMovies
	recorder *fakeRecorder
	trending *fakeTrending
	opener   *fakeOpener
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		movies:   newFakeMovies(),
		recorder: &fakeRecorder{},
		trending: &fakeTrending{},
		opener:   &fakeOpener{},
	}
	h.app = NewApp(Deps{
		Movies:    h.movies,
		Recorder:  h.recorder,
		Trending:  h.trending,
		Suggester: history.NewMemoryIndex(),
		Launcher:  h.opener,
	}, config.TestConfig())
	t.Cleanup(h.app.Close)

	h.app.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return h
}

// fetch starts a fetch for query the way a settled query does and returns
// the completion message without applying it.
func (h *testHarness) fetch(query string) moviesFetchedMsg {
	h.app.startFetch(query)
	return h.app.fetchMovies(h.app.fetchSeq, query)().(moviesFetchedMsg)
}

// settle runs query through the settled-query path and applies the result.
func (h *testHarness) settle(query string) {
	h.app.Update(settledQueryMsg{query: query})
	if h.app.loading {
		msg := h.app.fetchMovies(h.app.fetchSeq, query)()
		h.app.Update(msg)
	}
}

func (h *testHarness) key(msg tea.KeyMsg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

func (h *testHarness) typeText(s string) {
	for _, r := range s {
		h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	batman = catalog.Movie{
		ID:               414906,
		Title:            "The Batman",
		PosterPath:       "/74xTEgt7R36Fpooo50r9T25onhq.jpg",
		ReleaseDate:      "2022-03-01",
		VoteAverage:      7.7,
		VoteCount:        9000,
		OriginalLanguage: "en",
		Overview:         "In his second year of fighting crime, Batman uncovers corruption.",
	}
	batmanBegins = catalog.Movie{ID: 272, Title: "Batman Begins", ReleaseDate: "2005-06-10", VoteAverage: 7.7, OriginalLanguage: "en"}
	dune         = catalog.Movie{ID: 438631, Title: "Dune", ReleaseDate: "2021-09-15", VoteAverage: 7.8, OriginalLanguage: "en"}
)
