// Command generate writes one stopword data file per language from the NLTK
// stopwords corpus into the data directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/generator"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults and SW_* env vars when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	os.Exit(exitCode(os.Stderr, run(cfg, os.Stdout)))
}

// exitCode reports err on stderr and returns the process exit status. A
// missing corpus also gets the remediation hint.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, apperrors.ErrDataSourceUnavailable) {
		fmt.Fprintln(stderr, corpus.RemediationHint)
	}
	return 1
}

func run(cfg *config.Config, stdout io.Writer) error {
	c, err := corpus.Open(cfg.Stopwords.CorpusDir)
	if err != nil {
		return err
	}
	slog.Debug("corpus opened", "corpus", c.Name(), "output_dir", cfg.Stopwords.DataDir)

	result, err := generator.New(c, cfg.Stopwords.DataDir, stdout).Run()
	if err != nil {
		return err
	}
	slog.Debug("generation complete", "files", len(result.Files))
	return nil
}
