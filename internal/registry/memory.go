package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MemoryClient is an immutable in-process registry.
type MemoryClient struct {
	byPath map[string]Entry
	byGUID map[string][]Entry
}

// NewMemory indexes entries. Later entries for the same path replace earlier ones.
func NewMemory(entries ...Entry) *MemoryClient {
	m := &MemoryClient{
		byPath: make(map[string]Entry, len(entries)),
		byGUID: make(map[string][]Entry),
	}
	for _, e := range entries {
		if old, ok := m.byPath[e.Path]; ok {
			m.byGUID[old.GUID] = removeEntry(m.byGUID[old.GUID], old)
		}
		m.byPath[e.Path] = e
		m.byGUID[e.GUID] = append(m.byGUID[e.GUID], e)
	}
	return m
}

func removeEntry(entries []Entry, target Entry) []Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryClient) ExistsByPath(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	_, ok := m.byPath[path]
	return ok, nil
}

func (m *MemoryClient) SelectByGUID(ctx context.Context, guid string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	src := m.byGUID[guid]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]Entry, len(src))
	copy(out, src)
	return out, nil
}

func (m *MemoryClient) SelectByPath(ctx context.Context, path string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	e, ok := m.byPath[path]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return e, nil
}

// Len returns the number of distinct paths.
func (m *MemoryClient) Len() int { return len(m.byPath) }

func (m *MemoryClient) Close() error { return nil }

// fileDocument is the on-disk layout of a file-backed registry.
type fileDocument struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads a YAML registry snapshot:
//
//	entries:
//	  - path: trunk/Assets/hero.png.meta
//	    guid: 9f1c2e...
func LoadFile(path string) (*MemoryClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading registry file %s: %w", ErrUnavailable, path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing registry file %s: %w", ErrUnavailable, path, err)
	}

	for i, e := range doc.Entries {
		if e.Path == "" || e.GUID == "" {
			return nil, fmt.Errorf("registry file %s: entry[%d] requires both 'path' and 'guid'", path, i)
		}
	}

	return NewMemory(doc.Entries...), nil
}
