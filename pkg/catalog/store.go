package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/internal"
)

// Store is a JSON object document kept fully in memory and rewritten as a
// whole on every mutation.
type Store[V any] struct {
	mu     sync.RWMutex
	path   string
	logger *zap.Logger
	values map[string]V
}

// Open loads the document at path. A missing document starts empty; a
// corrupt one is logged and reset to empty rather than failing.
func Open[V any](path string, logger *zap.Logger) (*Store[V], error) {
	if logger == nil {
		logger = zap.L()
	}

	p := &Store[V]{
		path:   path,
		logger: logger.Named("catalog").With(zap.String("path", path)),
		values: make(map[string]V),
	}

	b, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to read catalog")
		}

		err = os.MkdirAll(filepath.Dir(p.path), internal.DirPerm)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create catalog directory")
		}

		return p, nil
	}

	err = json.Unmarshal(b, &p.values)
	if err != nil || p.values == nil {
		p.logger.Error("corrupt catalog, starting empty", zap.Error(err))
		p.values = make(map[string]V)
	}

	return p, nil
}

func (p *Store[V]) Path() string {
	return p.path
}

// save writes to a sibling temp file and renames it over the document.
// Callers hold p.mu.
func (p *Store[V]) save() error {
	b, err := json.Marshal(p.values)
	if err != nil {
		return errors.Wrap(err, "failed to marshal catalog")
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp catalog")
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(b)
	if err == nil {
		err = tmp.Chmod(internal.FilePerm)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrap(err, "failed to write catalog")
	}

	err = os.Rename(tmp.Name(), p.path)
	if err != nil {
		return errors.Wrap(err, "failed to replace catalog")
	}

	return nil
}

func (p *Store[V]) Put(key string, value V) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.apply(map[string]V{key: value})
}

// PutMany inserts all values with a single rewrite.
func (p *Store[V]) PutMany(values map[string]V) error {
	if len(values) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.apply(values)
}

// apply writes values and saves. On a failed save the previous entries are
// restored so memory keeps matching the document on disk.
func (p *Store[V]) apply(values map[string]V) error {
	prev := make(map[string]V, len(values))
	for k, v := range values {
		if old, ok := p.values[k]; ok {
			prev[k] = old
		}
		p.values[k] = v
	}

	err := p.save()
	if err != nil {
		for k := range values {
			if old, ok := prev[k]; ok {
				p.values[k] = old
			} else {
				delete(p.values, k)
			}
		}
	}
	return err
}

func (p *Store[V]) Get(key string) (V, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.values[key]
	return v, ok
}

func (p *Store[V]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.values)
}

func (p *Store[V]) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
