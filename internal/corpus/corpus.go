// Package corpus exposes multilingual stopword lists laid out like the NLTK
// stopwords corpus: one file per language, named after the language, one word
// per line. A copy of the corpus is bundled into the binary.
package corpus

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
)

// RemediationHint tells an operator how to obtain a corpus directory.
const RemediationHint = "Set stopwords.corpusDir (or SW_CORPUS_DIR) to an NLTK stopwords directory, " +
	"e.g. download it with: python -m nltk.downloader stopwords " +
	"and point at ~/nltk_data/corpora/stopwords"

//go:embed nltk
var bundled embed.FS

// Corpus supplies raw word lists per language.
type Corpus interface {
	Languages() ([]string, error)
	Words(language string) ([]string, error)
}

// FSCorpus reads an NLTK-layout corpus from a file system.
type FSCorpus struct {
	fsys fs.FS
	name string
}

// New wraps fsys, whose root holds one file per language.
func New(fsys fs.FS, name string) *FSCorpus {
	return &FSCorpus{fsys: fsys, name: name}
}

// Bundled returns the corpus compiled into the binary.
func Bundled() *FSCorpus {
	sub, err := fs.Sub(bundled, "nltk")
	if err != nil {
		panic(fmt.Sprintf("bundled corpus: %v", err))
	}
	return New(sub, "bundled")
}

// OpenDir opens a corpus directory on disk. A missing directory is reported
// as ErrDataSourceUnavailable.
func OpenDir(dir string) (*FSCorpus, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrDataSourceUnavailable, http.StatusServiceUnavailable, "corpus directory %s not found", dir)
		}
		return nil, apperrors.IO("opening corpus", dir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.Newf(apperrors.ErrDataSourceUnavailable, http.StatusServiceUnavailable, "corpus path %s is not a directory", dir)
	}
	return New(os.DirFS(dir), dir), nil
}

// Open returns the corpus at dir, or the bundled corpus when dir is empty.
func Open(dir string) (*FSCorpus, error) {
	if dir == "" {
		return Bundled(), nil
	}
	return OpenDir(dir)
}

func (c *FSCorpus) Name() string {
	return c.name
}

// Languages lists every language file, sorted. README and dotfiles are not
// languages. An empty corpus is reported as ErrDataSourceUnavailable.
func (c *FSCorpus) Languages() ([]string, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, apperrors.IO("listing corpus", c.name, err)
	}
	languages := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.EqualFold(name, "README") {
			continue
		}
		languages = append(languages, name)
	}
	if len(languages) == 0 {
		return nil, apperrors.Newf(apperrors.ErrDataSourceUnavailable, http.StatusServiceUnavailable, "corpus %s has no language files", c.name)
	}
	sort.Strings(languages)
	return languages, nil
}

// Words returns the raw word list for language, in file order. Lines are
// trimmed and blank lines dropped; nothing else is altered.
func (c *FSCorpus) Words(language string) ([]string, error) {
	f, err := c.fsys.Open(language)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrDataSourceUnavailable, http.StatusServiceUnavailable, "corpus %s has no language %q", c.name, language)
		}
		return nil, apperrors.IO("opening corpus file", language, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if word := strings.TrimSpace(scanner.Text()); word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.IO("reading corpus file", language, err)
	}
	return words, nil
}
