// Package local implements the on-disk medical corpus knowledge source.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.KnowledgeSource = (*Source)(nil)

// DefaultCorpusFile is the corpus file name used when no path is configured.
const DefaultCorpusFile = "Data.txt"

// Source looks terms up in a numbered-section corpus file.
// The parsed corpus is cached until the file changes.
type Source struct {
	path string

	mu     sync.RWMutex
	cached *corpus
}

// NewSource creates a corpus source for path.
// If path is empty, defaults to ~/.healthrag/Data.txt.
func NewSource(path string) (*Source, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".healthrag", DefaultCorpusFile)
	}
	return &Source{path: path}, nil
}

// Name identifies the source.
func (s *Source) Name() domain.SourceName {
	return domain.SourceLocal
}

// Path returns the corpus file path.
func (s *Source) Path() string {
	return s.path
}

// Lookup returns the section whose header ends with term.
// A missing or unreadable corpus is reported as domain.ErrSourceUnavailable.
func (s *Source) Lookup(ctx context.Context, term string) (domain.SourceOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.SourceOutcome{}, err
	}

	c, err := s.load()
	if err != nil {
		return domain.SourceOutcome{}, err
	}

	text := c.find(term)
	if text == "" {
		logger.Debug("local: %q not in corpus", term)
		return domain.NotFound(domain.SourceLocal), nil
	}
	logger.Debug("local: %q matched %d bytes", term, len(text))
	return domain.Found(domain.SourceLocal, text), nil
}

func (s *Source) load() (*corpus, error) {
	s.mu.RLock()
	c := s.cached
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus %s: %w", domain.ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	c, err = parseCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse corpus %s: %w", domain.ErrSourceUnavailable, s.path, err)
	}

	s.mu.Lock()
	s.cached = c
	s.mu.Unlock()
	return c, nil
}

// Invalidate drops the cached corpus so the next lookup rereads the file.
func (s *Source) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Watch invalidates the cache whenever the corpus file is written, replaced
// or removed. It blocks until ctx is cancelled. The parent directory is
// watched so editors that save by rename are seen.
func (s *Source) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !relevant(event.Op) {
				continue
			}
			logger.Debug("local: corpus changed (%s), invalidating cache", event.Op)
			s.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				s.Invalidate()
				continue
			}
			logger.Warn("local: watcher error: %v", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
