// Package expand widens a search query with synonyms of its words.
package expand

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

// LexicalResource looks up synonyms for a single word.
type LexicalResource interface {
	Synonyms(ctx context.Context, word string) ([]string, error)
}

var (
	tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)
	separators   = strings.NewReplacer("_", " ", "-", " ")
)

// Expander turns a query into its set of terms plus their synonyms.
type Expander struct {
	lexicon LexicalResource
	logger  *zap.Logger
}

// New creates an Expander. lexicon may be nil, in which case only the
// query's own tokens are returned.
func New(lexicon LexicalResource, logger *zap.Logger) *Expander {
	return &Expander{lexicon: lexicon, logger: logger}
}

// Tokenize splits text on word boundaries and lowercases each word.
func Tokenize(text string) []string {
	words := tokenPattern.FindAllString(text, -1)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

// Expand returns the sorted, de-duplicated terms for query. The query's own
// tokens are always included; a failed lookup only loses that token's synonyms.
func (e *Expander) Expand(ctx context.Context, query string) []string {
	tokens := Tokenize(query)
	terms := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		terms[tok] = struct{}{}
	}

	if e.lexicon != nil {
		for _, tok := range tokens {
			syns, err := e.lexicon.Synonyms(ctx, tok)
			if err != nil {
				e.logger.Warn("Synonym lookup failed, keeping original token",
					zap.String("token", tok),
					zap.Error(fmt.Errorf("%w: %w", domain.ErrExpansion, err)),
				)
				continue
			}
			for _, s := range syns {
				if term := normalize(s); term != "" {
					terms[term] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(terms))
	for t := range terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(separators.Replace(s))), " ")
}
