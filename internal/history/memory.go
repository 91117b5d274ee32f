package history

import (
	"strings"
	"sync"
	"unicode"
)

// memoryIndex scores entries by word prefixes without an index.
type memoryIndex struct {
	mu      sync.Mutex
	entries map[string]Suggestion
}

func NewMemoryIndex() Suggester {
	return &memoryIndex{entries: map[string]Suggestion{}}
}

func (m *memoryIndex) Add(query string, titles []string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[docID(KindQuery, query)] = Suggestion{Text: query, Kind: KindQuery}
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		m.entries[docID(KindTitle, title)] = Suggestion{Text: title, Kind: KindTitle}
	}
}

func (m *memoryIndex) Suggest(input string, limit int) []Suggestion {
	if len(strings.TrimSpace(input)) < 2 || limit <= 0 {
		return nil
	}
	terms := tokenize(input)
	if len(terms) == 0 {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(input))

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Suggestion
	for _, entry := range m.entries {
		if strings.ToLower(entry.Text) == normalized {
			continue
		}
		if score := scorePrefixes(entry.Text, terms); score > 0 {
			entry.Score = score
			out = append(out, entry)
		}
	}

	sortSuggestions(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memoryIndex) DocCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

// scorePrefixes returns 0 unless every term prefixes some word of text.
// Exact word matches and shorter texts score higher.
func scorePrefixes(text string, terms []string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	for _, term := range terms {
		best := 0.0
		for _, word := range words {
			switch {
			case word == term:
				best = 1.5
			case strings.HasPrefix(word, term) && best < 1.0:
				best = 1.0
			}
		}
		if best == 0 {
			return 0
		}
		score += best
	}
	return score / float64(len(words))
}

// tokenize breaks text into lowercase words, skipping single characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if len([]rune(current.String())) > 1 {
		terms = append(terms, current.String())
	}

	return terms
}
