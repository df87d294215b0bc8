// Package docstore persists small keyed documents as pretty-printed JSON files.
//
// A document is a single top-level JSON object mapping string keys to values.
// Every operation reads the whole file, works on the decoded mapping in memory
// and, for writes, replaces the whole file. Document serialises those round
// trips inside one process so that concurrent requests cannot lose each
// other's updates; it does not coordinate between processes.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Load reads the document at path. A missing file yields an empty mapping.
// A file that is not a valid JSON object is reported as an error.
func Load[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := map[string]T{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]T{}
	}

	return doc, nil
}

// Save writes doc to path, fully replacing the previous contents. The data is
// written to a sibling temp file first and renamed into place, so readers see
// either the old or the new document.
func Save[T any](path string, doc map[string]T) error {
	if doc == nil {
		doc = map[string]T{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o640); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}

	return nil
}

// Document is a JSON document on disk with a single in-process writer.
type Document[T any] struct {
	path string
	mu   sync.Mutex
}

func NewDocument[T any](path string) *Document[T] {
	return &Document[T]{path: path}
}

// Path returns the file backing the document.
func (d *Document[T]) Path() string {
	return d.path
}

// View loads the document and passes it to fn. Changes made by fn are discarded.
func (d *Document[T]) View(ctx context.Context, fn func(doc map[string]T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := Load[T](d.path)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, lets fn mutate it and saves the result. If fn
// returns an error nothing is written and the error is returned unchanged.
func (d *Document[T]) Update(ctx context.Context, fn func(doc map[string]T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := Load[T](d.path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return Save(d.path, doc)
}
