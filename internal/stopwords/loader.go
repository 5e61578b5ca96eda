package stopwords

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Observer receives the outcome of every load that reached the disk.
type Observer interface {
	ObserveLoad(language string, size int, err error)
}

// Loader caches Sets per language for one data directory. Concurrent first
// loads of the same language share a single read.
type Loader struct {
	dataDir  string
	mu       sync.RWMutex
	sets     map[string]Set
	group    singleflight.Group
	observer Observer
	logger   *slog.Logger
}

func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir: dataDir,
		sets:    make(map[string]Set),
		logger:  slog.Default().With("component", "stopword-loader"),
	}
}

// WithObserver attaches an Observer and returns the Loader.
func (l *Loader) WithObserver(o Observer) *Loader {
	l.observer = o
	return l
}

func (l *Loader) DataDir() string {
	return l.dataDir
}

// Load returns the cached Set for language, reading it on first use. Failed
// loads are not cached.
func (l *Loader) Load(language string) (Set, error) {
	l.mu.RLock()
	set, ok := l.sets[language]
	l.mu.RUnlock()
	if ok {
		return set, nil
	}

	val, err, _ := l.group.Do(language, func() (interface{}, error) {
		l.mu.RLock()
		cached, ok := l.sets[language]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
		loaded, err := Load(l.dataDir, language)
		if l.observer != nil {
			l.observer.ObserveLoad(language, len(loaded), err)
		}
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.sets[language] = loaded
		l.mu.Unlock()
		l.logger.Debug("stopword set loaded", "language", language, "words", len(loaded))
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(Set), nil
}

// Languages lists the languages available in the loader's data directory.
func (l *Loader) Languages() ([]string, error) {
	return Languages(l.dataDir)
}

// Reset drops every cached Set so the next Load re-reads from disk.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.sets = make(map[string]Set)
	l.mu.Unlock()
}
