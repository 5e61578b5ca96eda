package benchmark

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/generator"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/normalize"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/stopwords"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/textfilter"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Stopword removal is one of the first steps in most text pipelines. It's
        cheap, it's language specific, and it drops the words that carry the least
        meaning: articles, pronouns, auxiliaries and the like. What remains is a
        shorter sequence of content words whose frequencies say far more about a
        document's subject than the raw text does.`,
	"long": strings.Repeat(`Information retrieval systems form the backbone of modern search
        infrastructure. These systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. The user's query is lowercased,
        stripped of punctuation, and split on whitespace before any lookup happens! `, 20),
}

func bundledLoader(b *testing.B) *stopwords.Loader {
	b.Helper()
	dir := b.TempDir()
	if _, err := generator.New(corpus.Bundled(), dir, nil).Run(); err != nil {
		b.Fatalf("generating data files: %v", err)
	}
	return stopwords.NewLoader(dir)
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := normalize.Tokenize(text, false)
				_ = tokens
			}
		})
	}
}

func BenchmarkFilter(b *testing.B) {
	f := textfilter.New(bundledLoader(b))
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				if _, err := f.Filter(text, "english", false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFilterParallel(b *testing.B) {
	f := textfilter.New(bundledLoader(b))
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := f.Filter(text, "english", false); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// BenchmarkFilterUncached reads the data file on every call, as the CLI does.
func BenchmarkFilterUncached(b *testing.B) {
	dir := bundledLoader(b).DataDir()
	f := textfilter.New(textfilter.DirLoader(dir))
	text := sampleTexts["short"]
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := f.Filter(text, "english", false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCountWordsVaryingSize(b *testing.B) {
	f := textfilter.New(bundledLoader(b))
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "the stopword filter counts what the user's text is about "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				if _, err := f.CountWords(text, "english", false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkParseDataFile(b *testing.B) {
	dir := bundledLoader(b).DataDir()
	data, err := os.ReadFile(stopwords.Path(dir, "english"))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if _, err := stopwords.Parse(strings.NewReader(string(data))); err != nil {
			b.Fatal(err)
		}
	}
}
