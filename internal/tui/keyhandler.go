package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) binding(name string) string {
	return kh.modifierKey + name
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kh.app.err = nil

	if key == "ctrl+c" || key == kh.binding(kh.config.Keys.Bindings.Quit) {
		return kh.app, tea.Quit
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewBrowse && kh.app.focus == FocusSearch
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case kh.config.Keys.Bindings.Back:
		if kh.app.searchInput.Value() == "" {
			return kh.app, nil
		}
		kh.app.searchInput.SetValue("")
		kh.pushQuery()
		return kh.app, nil
	case "enter", "tab", "down":
		kh.focusResults()
		return kh.app, nil
	case kh.binding(kh.config.Keys.Bindings.AcceptSuggestion):
		return kh.acceptSuggestion()
	case kh.binding(kh.config.Keys.Bindings.Open):
		return kh.openSelected()
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search box and hands the
// sanitized value to the debouncer when it changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput
	kh.pushQuery()
	return kh.app, cmd
}

// pushQuery feeds the current input to the debouncer and refreshes the
// suggestions. Edits that sanitize to the same query do not restart the
// quiet period.
func (kh *KeyHandler) pushQuery() {
	query := sanitizeQuery(kh.app.searchInput.Value(), kh.config.Search.MaxQueryLength)
	kh.app.refreshSuggestions()
	if query == kh.app.lastPushed {
		return
	}
	kh.app.lastPushed = query
	kh.app.debouncer.Push(query)
}

func (kh *KeyHandler) acceptSuggestion() (tea.Model, tea.Cmd) {
	if len(kh.app.suggestions) == 0 {
		kh.app.setStatus(MsgNoSuggestion, StatusWarn)
		return kh.app, nil
	}
	kh.app.searchInput.SetValue(kh.app.suggestions[0].Text)
	kh.app.searchInput.CursorEnd()
	kh.pushQuery()
	return kh.app, nil
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "q":
		return kh.app, tea.Quit, true
	case kh.binding(kh.config.Keys.Bindings.Open):
		model, cmd := kh.openSelected()
		return model, cmd, true
	case kh.config.Keys.Bindings.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	if kh.app.view != ViewBrowse {
		return kh.app, nil, false
	}

	switch key {
	case "tab", "/":
		kh.focusSearch()
	case "enter":
		return kh.showDetail()
	case "left", "h":
		kh.moveCursor(-1)
	case "right", "l":
		kh.moveCursor(1)
	case "up", "k":
		if kh.app.cursor < kh.app.columns() {
			kh.focusSearch()
		} else {
			kh.moveCursor(-kh.app.columns())
		}
	case "down", "j":
		kh.moveCursor(kh.app.columns())
	case "home", "g":
		kh.app.cursor = 0
	case "end", "G":
		kh.app.cursor = max(len(kh.app.results)-1, 0)
	default:
		return kh.app, nil, false
	}
	return kh.app, nil, true
}

// delegateToCharm hands unclaimed keys to the focused bubble.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.view == ViewDetail {
		newViewport, cmd := kh.app.viewport.Update(msg)
		kh.app.viewport = newViewport
		return kh.app, cmd
	}
	return kh.app, nil
}

func (kh *KeyHandler) moveCursor(delta int) {
	next := kh.app.cursor + delta
	if next < 0 || next >= len(kh.app.results) {
		return
	}
	kh.app.cursor = next
}

func (kh *KeyHandler) focusSearch() {
	kh.app.focus = FocusSearch
	kh.app.searchInput.Focus()
}

func (kh *KeyHandler) focusResults() {
	if _, ok := kh.app.selectedMovie(); !ok {
		return
	}
	kh.app.focus = FocusResults
	kh.app.searchInput.Blur()
}

func (kh *KeyHandler) showDetail() (tea.Model, tea.Cmd, bool) {
	m, ok := kh.app.selectedMovie()
	if !ok {
		return kh.app, nil, true
	}
	kh.app.detailMovie = &m
	kh.app.view = ViewDetail
	kh.app.viewport.SetContent(renderCentered(kh.app.viewport.Width, kh.app.viewport.Height, renderMuted(MsgLoadingDetails)))
	return kh.app, kh.app.renderDetail(m), true
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewDetail:
		kh.app.view = ViewBrowse
		kh.app.detailMovie = nil
	case ViewBrowse:
		kh.focusSearch()
	}
	return kh.app, nil
}

func (kh *KeyHandler) openSelected() (tea.Model, tea.Cmd) {
	var (
		m  catalog.Movie
		ok bool
	)
	if kh.app.view == ViewDetail && kh.app.detailMovie != nil {
		m, ok = *kh.app.detailMovie, true
	} else {
		m, ok = kh.app.selectedMovie()
	}
	if !ok || m.ID == 0 {
		kh.app.setStatus(MsgNoPage, StatusWarn)
		return kh.app, nil
	}
	return kh.app, kh.app.openURL(m.PageURL(kh.config.Catalog.WebURL))
}

// GetHelpForCurrentView returns the key hints for the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	quit := kh.binding(kh.config.Keys.Bindings.Quit) + ": quit"
	open := kh.binding(kh.config.Keys.Bindings.Open) + ": open"

	switch {
	case kh.app.view == ViewDetail:
		return []string{"↑↓: scroll", open, kh.config.Keys.Bindings.Back + ": back", quit}
	case kh.app.focus == FocusResults:
		return []string{"←↑↓→: move", "enter: details", open, "tab: search", quit}
	default:
		help := []string{"enter: results"}
		if len(kh.app.suggestions) > 0 {
			help = append(help, kh.binding(kh.config.Keys.Bindings.AcceptSuggestion)+": complete")
		}
		return append(help, kh.config.Keys.Bindings.Back+": clear", quit)
	}
}
