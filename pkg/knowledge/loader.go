// Package knowledge loads the reference case corpus and caches it in memory
// for the life of the process.
package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/reed/pkg/models"
)

// Source is a read-only provider of reference cases
type Source interface {
	Load(ctx context.Context) ([]models.ReferenceCase, error)
}

// FileSource reads the corpus from a JSON knowledge base document
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) ([]models.ReferenceCase, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read knowledge base %s", s.path)
	}

	var kb models.KnowledgeBase
	if err := json.Unmarshal(b, &kb); err != nil {
		return nil, errors.Wrapf(err, "failed to parse knowledge base %s", s.path)
	}

	return kb.Applications, nil
}

// Loader wraps a Source with lazy, once-per-process loading. The corpus is
// immutable after load and shared read-only across requests.
type Loader struct {
	source Source
	logger ectologger.Logger

	mu     sync.RWMutex
	cases  []models.ReferenceCase
	loaded bool
}

func NewLoader(source Source, logger ectologger.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Corpus returns the cached cases, loading them on first use. Concurrent
// callers during the first load are serialized by the write lock.
func (l *Loader) Corpus(ctx context.Context) ([]models.ReferenceCase, error) {
	l.mu.RLock()
	if l.loaded {
		cases := l.cases
		l.mu.RUnlock()
		return cases, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.cases, nil
	}

	cases, err := l.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	l.cases = cases
	l.loaded = true
	l.logger.WithContext(ctx).WithField("cases", len(cases)).Info("knowledge base loaded")

	return l.cases, nil
}

// Reload discards the cached corpus and loads it again. Used by the refresh
// endpoint after the underlying source changes.
func (l *Loader) Reload(ctx context.Context) error {
	cases, err := l.source.Load(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.cases = cases
	l.loaded = true
	l.mu.Unlock()

	l.logger.WithContext(ctx).WithField("cases", len(cases)).Info("knowledge base reloaded")
	return nil
}

// Loaded reports whether the corpus has been loaded at least once
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}
