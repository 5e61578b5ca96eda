package textfilter

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/stopwords"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
)

const englishStopwords = "a\nand\nare\nhello\nin\nis\nit\nof\nthe\nto\n"

func newTestFilter(t *testing.T) *Filter {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "english.txt"), []byte(englishStopwords), 0o644); err != nil {
		t.Fatal(err)
	}
	return New(DirLoader(dir))
}

func TestFilter(t *testing.T) {
	f := newTestFilter(t)

	tests := []struct {
		name            string
		text            string
		keepPunctuation bool
		want            []string
	}{
		{
			name: "basic",
			text: "The quick brown fox",
			want: []string{"quick", "brown", "fox"},
		},
		{
			name: "possessive and punctuation",
			text: "It's a test.",
			want: []string{"test"},
		},
		{
			name:            "keep punctuation",
			text:            "Hello,   world!!",
			keepPunctuation: true,
			want:            []string{"hello,", "world!!"},
		},
		{
			name:            "keep punctuation exact stopword match",
			text:            "Hello world",
			keepPunctuation: true,
			want:            []string{"world"},
		},
		{
			name: "duplicates and order preserved",
			text: "Dogs and cats and DOGS, the dogs' bowls",
			want: []string{"dogs", "cats", "dogs", "dogs", "bowls"},
		},
		{
			name: "possessive on a name",
			text: "John's car is in the garage",
			want: []string{"john", "car", "garage"},
		},
		{
			name: "only punctuation",
			text: "... !!! ???",
			want: []string{},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Filter(tt.text, "english", tt.keepPunctuation)
			if err != nil {
				t.Fatalf("Filter: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountWordsMatchesFilter(t *testing.T) {
	f := newTestFilter(t)
	texts := []string{
		"running dogs and running cats are running fast",
		"It's John's book; it's not Mary's.",
		"Hello,   world!! hello, WORLD!!",
		"",
	}
	for _, keep := range []bool{false, true} {
		for _, text := range texts {
			tokens, err := f.Filter(text, "english", keep)
			if err != nil {
				t.Fatal(err)
			}
			counts, err := f.CountWords(text, "english", keep)
			if err != nil {
				t.Fatal(err)
			}
			total := 0
			for token, n := range counts {
				total += n
				found := false
				for _, tok := range tokens {
					if tok == token {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("count key %q not in filtered tokens %q", token, tokens)
				}
			}
			if total != len(tokens) {
				t.Errorf("CountWords(%q, keep=%v) sums to %d, Filter returned %d tokens", text, keep, total, len(tokens))
			}
			if len(counts) != len(Tally(tokens)) {
				t.Errorf("distinct keys mismatch for %q", text)
			}
		}
	}
}

func TestCountWords(t *testing.T) {
	f := newTestFilter(t)
	got, err := f.CountWords("running dogs and running cats are running fast", "english", false)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"running": 3, "dogs": 1, "cats": 1, "fast": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountWords() = %v, want %v", got, want)
	}
}

func TestUnknownLanguage(t *testing.T) {
	f := newTestFilter(t)
	tokens, err := f.Filter("anything at all", "klingon", false)
	if !errors.Is(err, apperrors.ErrStopwordsFileNotFound) {
		t.Fatalf("expected ErrStopwordsFileNotFound, got %v", err)
	}
	if tokens != nil {
		t.Errorf("expected nil tokens, got %q", tokens)
	}
	if _, err := f.CountWords("", "klingon", false); !errors.Is(err, apperrors.ErrStopwordsFileNotFound) {
		t.Errorf("CountWords on empty text must still load the set, got %v", err)
	}
}

func TestFilterWithStats(t *testing.T) {
	f := newTestFilter(t)
	tokens, stats, err := f.FilterWithStats("The cat and the hat", "english", false)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Tokens != 5 || stats.Retained != 2 || len(tokens) != 2 {
		t.Errorf("stats = %+v, tokens = %q", stats, tokens)
	}
}

func TestWithCachingLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(stopwords.Path(dir, "english"), []byte(englishStopwords), 0o644); err != nil {
		t.Fatal(err)
	}
	f := New(stopwords.NewLoader(dir))
	got, err := f.Filter("The end", "english", false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"end"}) {
		t.Errorf("Filter() = %q", got)
	}
}

func TestRemoveSkipsEmpty(t *testing.T) {
	set := stopwords.Set{"the": {}}
	got := Remove(set, []string{"", "the", "x", ""})
	if !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Remove() = %q", got)
	}
}
