// Package stopwords loads per-language stopword data files into in-memory
// sets. A data file is <dataDir>/<language>.txt with one word per line.
package stopwords

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/normalize"
	apperrors "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/errors"
)

// FileExt is the extension of every stopword data file.
const FileExt = ".txt"

// Set is an immutable set of lowercase stopwords.
type Set map[string]struct{}

// Contains reports whether word is a stopword. The lookup is exact; callers
// lowercase before asking.
func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Words returns the set's members in sorted order.
func (s Set) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Path resolves the data file for language inside dataDir.
func Path(dataDir, language string) string {
	return filepath.Join(dataDir, language+FileExt)
}

// ValidateLanguage rejects codes that could escape the data directory.
func ValidateLanguage(language string) error {
	if language == "" {
		return apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "language code is empty")
	}
	if language == "." || language == ".." || strings.ContainsAny(language, `/\`) || strings.ContainsRune(language, 0) {
		return apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid language code %q", language)
	}
	return nil
}

// Load reads the data file for language. Each line is trimmed and
// lowercased; blank lines are skipped. A missing file yields
// ErrStopwordsFileNotFound carrying the resolved path.
func Load(dataDir, language string) (Set, error) {
	if err := ValidateLanguage(language); err != nil {
		return nil, err
	}
	path := Path(dataDir, language)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.New(apperrors.ErrStopwordsFileNotFound, http.StatusNotFound, path)
		}
		return nil, apperrors.IO("opening", path, err)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return nil, apperrors.IO("reading", path, err)
	}
	return set, nil
}

// Parse builds a Set from newline-delimited words.
func Parse(r io.Reader) (Set, error) {
	set := make(Set)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		word := normalize.Lower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Languages lists the language codes that have a data file in dataDir.
func Languages(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrStopwordsFileNotFound, http.StatusNotFound, "data directory %s does not exist", dataDir)
		}
		return nil, apperrors.IO("listing", dataDir, err)
	}
	languages := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, FileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(name, FileExt))
	}
	sort.Strings(languages)
	return languages, nil
}

// Write stores words as a data file: lowercased, sorted, de-duplicated, one
// per line, each newline-terminated. It returns the number of lines written.
func Write(w io.Writer, words []string) (int, error) {
	lowered := make([]string, 0, len(words))
	for _, word := range words {
		lowered = append(lowered, normalize.Lower(word))
	}
	sort.Strings(lowered)

	bw := bufio.NewWriter(w)
	written := 0
	for i, word := range lowered {
		if i > 0 && word == lowered[i-1] {
			continue
		}
		if _, err := fmt.Fprintln(bw, word); err != nil {
			return written, err
		}
		written++
	}
	return written, bw.Flush()
}
