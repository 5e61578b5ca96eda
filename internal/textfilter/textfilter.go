// Package textfilter removes stopwords from free text and counts the words
// that remain. Filter and CountWords share one pipeline, so a count is
// always the tally of the corresponding filtered sequence.
package textfilter

import (
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/normalize"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/stopwords"
)

// SetLoader resolves a language code to its stopword set.
type SetLoader interface {
	Load(language string) (stopwords.Set, error)
}

// DirLoader loads sets straight from a data directory on every call.
type DirLoader string

func (d DirLoader) Load(language string) (stopwords.Set, error) {
	return stopwords.Load(string(d), language)
}

// Stats reports how many raw tokens went in and how many survived.
type Stats struct {
	Tokens   int
	Retained int
}

type Filter struct {
	loader SetLoader
}

func New(loader SetLoader) *Filter {
	return &Filter{loader: loader}
}

// Filter returns the tokens of text that are not stopwords in language,
// in their original order with duplicates kept.
func (f *Filter) Filter(text, language string, keepPunctuation bool) ([]string, error) {
	tokens, _, err := f.FilterWithStats(text, language, keepPunctuation)
	return tokens, err
}

// FilterWithStats is Filter plus token counts for instrumentation.
func (f *Filter) FilterWithStats(text, language string, keepPunctuation bool) ([]string, Stats, error) {
	set, err := f.loader.Load(language)
	if err != nil {
		return nil, Stats{}, err
	}
	raw := normalize.Tokenize(text, keepPunctuation)
	kept := Remove(set, raw)
	return kept, Stats{Tokens: len(raw), Retained: len(kept)}, nil
}

// CountWords returns the frequency of every token Filter would return.
func (f *Filter) CountWords(text, language string, keepPunctuation bool) (map[string]int, error) {
	tokens, err := f.Filter(text, language, keepPunctuation)
	if err != nil {
		return nil, err
	}
	return Tally(tokens), nil
}

// Remove drops empty tokens and stopwords, keeping order.
func Remove(set stopwords.Set, tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" || set.Contains(token) {
			continue
		}
		kept = append(kept, token)
	}
	return kept
}

// Tally counts occurrences of each token.
func Tally(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
