// Package history remembers what was searched during a session and offers
// completions for partial input. Nothing is persisted.
package history

type Kind int

const (
	KindQuery Kind = iota
	KindTitle
)

func (k Kind) String() string {
	if k == KindTitle {
		return "title"
	}
	return "query"
}

// Suggestion is one completion for the current input.
type Suggestion struct {
	Text  string
	Kind  Kind
	Score float64
}

// Suggester defines the minimal completion API used by the TUI.
type Suggester interface {
	// Add records a query that produced results and the titles it found.
	Add(query string, titles []string)
	// Suggest returns up to limit completions for input, queries first.
	Suggest(input string, limit int) []Suggestion
}

// DocCounter is implemented by suggesters that can report their size.
type DocCounter interface {
	DocCount() (int, error)
}

// New returns the bleve-backed suggester, or the in-memory scorer if the
// index cannot be created.
func New() Suggester {
	idx, err := NewBleveIndex()
	if err != nil {
		return NewMemoryIndex()
	}
	return idx
}
