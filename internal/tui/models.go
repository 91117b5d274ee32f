package tui

import (
	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/popularity"
)

type View int

const (
	ViewBrowse View = iota
	ViewDetail
)

// Focus is the browse-view element receiving keys.
type Focus int

const (
	FocusSearch Focus = iota
	FocusResults
)

type moviesFetchedMsg struct {
	seq    uint64
	query  string
	movies []catalog.Movie
	err    error
}

type trendingLoadedMsg struct {
	entries []popularity.Entry
}

type settledQueryMsg struct {
	query string
}

type detailRenderedMsg struct {
	movieID int
	content string
}

type urlOpenedMsg struct {
	url string
}

type errorMsg struct {
	err error
}
