// Package knowledge holds the general Q&A base and its keyword-overlap
// search used to back the confidence aggregator's knowledge bonus.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nutrimed/interactions-api/logging"
)

const knowledgeFile = "qa_knowledge.json"

// Entry is one question/answer record from the knowledge table.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

// Match pairs an entry with its overlap score against a query.
type Match struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// Base is an immutable Q&A index built once at load time. Search is
// read-only and safe for concurrent use.
type Base struct {
	entries []Entry
	// tokens[i] is the token set of entries[i], precomputed at load time.
	tokens []map[string]struct{}
}

// stopWords are tokens ignored by the overlap score. Turkish first, the
// language of the Q&A table, plus English function words.
var stopWords = map[string]struct{}{
	"ve": {}, "ile": {}, "bir": {}, "bu": {}, "ne": {}, "mi": {}, "mı": {},
	"mu": {}, "için": {}, "gibi": {}, "da": {}, "de": {}, "nasıl": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "is": {}, "are": {},
	"of": {}, "to": {}, "in": {}, "with": {}, "what": {}, "how": {},
}

// Load reads the Q&A table from the data directory. A missing table yields
// an empty base, not an error: the knowledge bonus simply never fires.
func Load(dataDir string) (*Base, error) {
	path := filepath.Join(dataDir, knowledgeFile)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Warn("Knowledge table missing, search disabled", "path", path)
			return &Base{}, nil
		}
		return nil, fmt.Errorf("failed to read knowledge table: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge table: %w", err)
	}

	base := &Base{
		entries: entries,
		tokens:  make([]map[string]struct{}, len(entries)),
	}
	for i, entry := range entries {
		base.tokens[i] = tokenize(entry.Question + " " + entry.Answer)
	}

	logging.Info("Knowledge table loaded", "entries", len(entries))
	return base, nil
}

// Len returns the number of entries in the base.
func (b *Base) Len() int {
	return len(b.entries)
}

// Search scores every entry by keyword overlap with the query and returns
// the topK best matches with a positive score, best first. The score is the
// fraction of query tokens found in the entry, so it is bounded to [0,1].
func (b *Base) Search(query string, topK int) []Match {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || topK <= 0 {
		return nil
	}

	var matches []Match
	for i := range b.entries {
		overlap := 0
		for token := range queryTokens {
			if _, ok := b.tokens[i][token]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			matches = append(matches, Match{
				Entry: b.entries[i],
				Score: float64(overlap) / float64(len(queryTokens)),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// TopScore returns the best match score for a query, 0 when nothing
// matches. This is the signal fed to the confidence aggregator.
func (b *Base) TopScore(query string) float64 {
	matches := b.Search(query, 1)
	if len(matches) == 0 {
		return 0
	}
	return matches[0].Score
}

// tokenize lowercases, splits on non-letter/digit boundaries and drops stop
// words and single-character tokens.
func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < 2 {
			continue
		}
		if _, skip := stopWords[field]; skip {
			continue
		}
		tokens[field] = struct{}{}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '-' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || r > 127
}
