// Command filter removes stopwords from text given as arguments or on stdin
// and prints the remaining words, or their counts with -count.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/textfilter"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/logger"
)

type options struct {
	language        string
	keepPunctuation bool
	count           bool
	dataDir         string
}

func main() {
	configPath := flag.String("config", "", "path to config file (defaults and SW_* env vars when empty)")
	language := flag.String("lang", "", "stopword language (default from config)")
	keep := flag.Bool("keep-punctuation", false, "keep punctuation and possessives attached to words")
	count := flag.Bool("count", false, "print word counts instead of the filtered text")
	dataDir := flag.String("data-dir", "", "directory holding <language>.txt files (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	opts := options{
		language:        cfg.Stopwords.DefaultLanguage,
		keepPunctuation: cfg.Stopwords.KeepPunctuation,
		count:           *count,
		dataDir:         cfg.Stopwords.DataDir,
	}
	if *language != "" {
		opts.language = *language
	}
	if *dataDir != "" {
		opts.dataDir = *dataDir
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "keep-punctuation" {
			opts.keepPunctuation = *keep
		}
	})

	if err := run(opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, apperrors.ErrStopwordsFileNotFound) {
			fmt.Fprintln(os.Stderr, "Run the generate command to create the stopword data files.")
		}
		os.Exit(1)
	}
}

// run filters args joined by spaces, or all of stdin when args is empty.
func run(opts options, args []string, stdin io.Reader, stdout io.Writer) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	f := textfilter.New(textfilter.DirLoader(opts.dataDir))
	if !opts.count {
		tokens, err := f.Filter(text, opts.language, opts.keepPunctuation)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, strings.Join(tokens, " "))
		return err
	}

	counts, err := f.CountWords(text, opts.language, opts.keepPunctuation)
	if err != nil {
		return err
	}
	for _, word := range byFrequency(counts) {
		if _, err := fmt.Fprintf(stdout, "%s\t%d\n", word, counts[word]); err != nil {
			return err
		}
	}
	return nil
}

// byFrequency orders words by descending count, then alphabetically.
func byFrequency(counts map[string]int) []string {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	return words
}
