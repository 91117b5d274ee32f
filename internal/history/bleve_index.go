package history

import (
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/flik/internal/debuglog"
)

const suggestAnalyzer = "suggest"

type bleveIndex struct {
	mu  sync.Mutex
	idx bleve.Index
}

// NewBleveIndex creates an in-memory index.
func NewBleveIndex() (Suggester, error) {
	im, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, err
	}
	return &bleveIndex{idx: idx}, nil
}

func buildIndexMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()

	// Lowercased unicode words without stop-word removal, so "the" and
	// "2001" stay searchable.
	err := im.AddCustomAnalyzer(suggestAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}
	im.DefaultAnalyzer = suggestAnalyzer

	dm := bleve.NewDocumentMapping()

	text := bleve.NewTextFieldMapping()
	text.Analyzer = suggestAnalyzer
	text.Store = true
	text.IncludeTermVectors = false

	kind := bleve.NewTextFieldMapping()
	kind.Analyzer = keyword.Name
	kind.Store = true

	dm.AddFieldMappingsAt("text", text)
	dm.AddFieldMappingsAt("kind", kind)

	im.DefaultMapping = dm
	return im, nil
}

func (b *bleveIndex) Add(query string, titles []string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.idx.NewBatch()
	_ = batch.Index(docID(KindQuery, query), map[string]any{
		"text": query,
		"kind": KindQuery.String(),
	})
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		_ = batch.Index(docID(KindTitle, title), map[string]any{
			"text": title,
			"kind": KindTitle.String(),
		})
	}
	if err := b.idx.Batch(batch); err != nil {
		debuglog.Warnf("indexing search history: %v", err)
	}
}

func (b *bleveIndex) Suggest(input string, limit int) []Suggestion {
	if len(strings.TrimSpace(input)) < 2 || limit <= 0 {
		return nil
	}
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return nil
	}

	// Every typed word must prefix a word of the suggestion.
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qp := bleve.NewPrefixQuery(tok)
		qp.SetField("text")
		qs = append(qs, qp)
	}
	q := bleve.NewConjunctionQuery(qs...)

	// Over-fetch so exact echoes of the input can be dropped.
	srch := bleve.NewSearchRequestOptions(q, limit*4, 0, false)
	srch.Fields = []string{"text", "kind"}

	b.mu.Lock()
	res, err := b.idx.Search(srch)
	b.mu.Unlock()
	if err != nil {
		debuglog.Warnf("searching history: %v", err)
		return nil
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	seen := map[string]bool{}
	var out []Suggestion
	for _, h := range res.Hits {
		text, _ := h.Fields["text"].(string)
		lower := strings.ToLower(text)
		if text == "" || lower == normalized || seen[lower] {
			continue
		}
		seen[lower] = true

		kind := KindQuery
		if k, _ := h.Fields["kind"].(string); k == KindTitle.String() {
			kind = KindTitle
		}
		out = append(out, Suggestion{Text: text, Kind: kind, Score: h.Score})
	}

	sortSuggestions(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DocCount reports total documents in the index.
func (b *bleveIndex) DocCount() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, err := b.idx.DocCount()
	return int(n), err
}

func sortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Kind != s[j].Kind {
			return s[i].Kind == KindQuery
		}
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].Text < s[j].Text
	})
}

func docID(kind Kind, text string) string {
	return kind.String() + ":" + strings.ToLower(strings.TrimSpace(text))
}
