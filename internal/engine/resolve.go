package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/lxiaocode/SVNTools/internal/commit"
)

var guidRe = regexp.MustCompile(`guid:\s*(\w+)`)

// ContentFetcher reads a file's text at the pending revision.
type ContentFetcher interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// ContentFetcherFunc adapts a function to ContentFetcher.
type ContentFetcherFunc func(ctx context.Context, path string) (string, error)

func (f ContentFetcherFunc) ReadFile(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// ExtractGUID returns the first "guid: <token>" value in content.
func ExtractGUID(content string) (string, bool) {
	m := guidRe.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Resolve builds the commit's MetadataIndex. Deleted metadata files are never
// fetched; added and updated ones must yield a guid.
func Resolve(ctx context.Context, snap *commit.Snapshot, content ContentFetcher, logger *slog.Logger) (*MetadataIndex, error) {
	if logger == nil {
		logger = discardLogger
	}

	idx := &MetadataIndex{Duplicates: make(map[string][]MetaEntry)}
	seen := make(map[string]int)

	for _, f := range snap.MetadataFiles() {
		if f.Status == commit.Deleted {
			idx.Deleted = append(idx.Deleted, MetaEntry{Path: f.Path})
			continue
		}

		text, err := content.ReadFile(ctx, f.Path)
		if err != nil {
			return nil, &FileError{Path: f.Path, Operation: "read", Err: fmt.Errorf("%w: %w", ErrContentFetch, err)}
		}

		guid, ok := ExtractGUID(text)
		if !ok {
			return nil, &FileError{Path: f.Path, Operation: "parse", Err: ErrGUIDNotFound}
		}

		entry := MetaEntry{Path: f.Path, GUID: guid}
		if seen[guid] > 0 {
			idx.Duplicates[guid] = append(idx.Duplicates[guid], entry)
		}
		seen[guid]++
		idx.resolved = append(idx.resolved, entry)

		switch f.Status {
		case commit.Added:
			idx.Added = append(idx.Added, entry)
		case commit.Updated:
			idx.Updated = append(idx.Updated, entry)
		}

		logger.DebugContext(ctx, "resolved metadata", "path", f.Path, "guid", guid, "status", f.Status.String())
	}

	return idx, nil
}
