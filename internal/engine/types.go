package engine

import (
	"errors"
	"slices"
)

var (
	// ErrContentFetch means a metadata file expected at the pending revision could not be read.
	ErrContentFetch = errors.New("content fetch failed")

	// ErrGUIDNotFound means a metadata file carries no guid token.
	ErrGUIDNotFound = errors.New("guid not found")
)

// MetaEntry pairs a metadata file path with the GUID it carries.
// GUID is empty when it was not resolved, e.g. for deleted files.
type MetaEntry struct {
	Path string
	GUID string
}

// MetadataIndex holds the metadata files touched by one commit, split by change.
type MetadataIndex struct {
	Deleted []MetaEntry
	Added   []MetaEntry
	Updated []MetaEntry

	// Duplicates maps a guid to the entries that repeated it within the commit.
	// The first entry seen with a guid is not itself listed.
	Duplicates map[string][]MetaEntry

	// resolved is every added or updated entry in encounter order.
	resolved []MetaEntry
}

// IsDeletedPath reports whether path is deleted in this commit.
func (idx *MetadataIndex) IsDeletedPath(path string) bool {
	return slices.ContainsFunc(idx.Deleted, func(m MetaEntry) bool { return m.Path == path })
}

// firstWithGUID returns the earliest resolved entry carrying guid.
func (idx *MetadataIndex) firstWithGUID(guid string) (MetaEntry, bool) {
	for _, m := range idx.resolved {
		if m.GUID == guid {
			return m, true
		}
	}
	return MetaEntry{}, false
}

// SyncViolationKind names how an asset and its sidecar went out of step.
type SyncViolationKind string

const (
	MissingMetaOnAdd    SyncViolationKind = "missing-meta-on-add"
	MissingMetaOnDelete SyncViolationKind = "missing-meta-on-delete"
)

// SyncViolation is an asset added or deleted without its metadata file.
type SyncViolation struct {
	Kind             SyncViolationKind
	AssetPath        string
	ExpectedMetaPath string
}

// FileError is a fatal failure tied to one path.
type FileError struct {
	Path      string
	Operation string
	Err       error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Operation + " failed: " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}
