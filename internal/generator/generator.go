// Package generator writes one stopword data file per corpus language.
package generator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/stopwords"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
)

// FileResult describes one generated data file.
type FileResult struct {
	Language string
	Path     string
	Words    int
}

// Result summarises a generation run.
type Result struct {
	OutputDir string
	Files     []FileResult
}

// Languages returns the generated language codes in order.
func (r *Result) Languages() []string {
	languages := make([]string, len(r.Files))
	for i, f := range r.Files {
		languages[i] = f.Language
	}
	return languages
}

// Generator turns a Corpus into data files under OutputDir, printing
// progress lines to Progress.
type Generator struct {
	corpus    corpus.Corpus
	outputDir string
	progress  io.Writer
	logger    *slog.Logger
}

func New(c corpus.Corpus, outputDir string, progress io.Writer) *Generator {
	if progress == nil {
		progress = io.Discard
	}
	return &Generator{
		corpus:    c,
		outputDir: outputDir,
		progress:  progress,
		logger:    slog.Default().With("component", "generator"),
	}
}

// Run generates every language the corpus exposes. It stops at the first
// failure; files already written are left in place.
func (g *Generator) Run() (*Result, error) {
	languages, err := g.corpus.Languages()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, apperrors.IO("creating", g.outputDir, err)
	}
	fmt.Fprintf(g.progress, "Creating stopwords data files in %s/\n", g.outputDir)

	result := &Result{OutputDir: g.outputDir}
	for _, language := range languages {
		file, err := g.writeLanguage(language)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, file)
		fmt.Fprintf(g.progress, "  Created %s%s (%d words)\n", language, stopwords.FileExt, file.Words)
	}

	fmt.Fprintf(g.progress, "\nSuccessfully generated %d stopwords files.\n", len(result.Files))
	fmt.Fprintf(g.progress, "Available languages: %s\n", strings.Join(result.Languages(), ", "))
	return result, nil
}

func (g *Generator) writeLanguage(language string) (FileResult, error) {
	if err := stopwords.ValidateLanguage(language); err != nil {
		return FileResult{}, err
	}
	words, err := g.corpus.Words(language)
	if err != nil {
		return FileResult{}, err
	}

	path := stopwords.Path(g.outputDir, language)
	f, err := os.Create(path)
	if err != nil {
		return FileResult{}, apperrors.IO("creating", path, err)
	}
	n, err := stopwords.Write(f, words)
	if err != nil {
		f.Close()
		return FileResult{}, apperrors.IO("writing", path, err)
	}
	if err := f.Close(); err != nil {
		return FileResult{}, apperrors.IO("closing", path, err)
	}
	g.logger.Debug("data file written", "language", language, "path", path, "words", n)
	return FileResult{Language: language, Path: path, Words: n}, nil
}
