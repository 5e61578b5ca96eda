package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/stopwords"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
)

func writeEnglish(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(stopwords.Path(dir, "english"), []byte("the\nand\nis\na\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunFromArgs(t *testing.T) {
	opts := options{language: "english", dataDir: writeEnglish(t)}
	var out bytes.Buffer
	if err := run(opts, []string{"The", "quick", "brown", "fox"}, strings.NewReader("ignored"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "quick brown fox\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunFromStdin(t *testing.T) {
	opts := options{language: "english", dataDir: writeEnglish(t), keepPunctuation: true}
	var out bytes.Buffer
	if err := run(opts, nil, strings.NewReader("The end.\nIs near!"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "end. near!\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunCount(t *testing.T) {
	opts := options{language: "english", dataDir: writeEnglish(t), count: true}
	var out bytes.Buffer
	if err := run(opts, []string{"b a b the c c b"}, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "b\t3\nc\t2\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunMissingLanguage(t *testing.T) {
	opts := options{language: "klingon", dataDir: writeEnglish(t)}
	err := run(opts, []string{"hello"}, nil, &bytes.Buffer{})
	if !errors.Is(err, apperrors.ErrStopwordsFileNotFound) {
		t.Fatalf("err = %v, want ErrStopwordsFileNotFound", err)
	}
}

func TestByFrequencyTies(t *testing.T) {
	got := byFrequency(map[string]int{"pear": 1, "apple": 1, "fig": 2})
	want := []string{"fig", "apple", "pear"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
