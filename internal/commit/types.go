package commit

import (
	"errors"
	"path"
	"strings"
)

// ErrMalformedRecord is returned when a diff line cannot be classified.
var ErrMalformedRecord = errors.New("malformed change record")

// DefaultMetaExtension is the sidecar extension carrying an asset's GUID.
const DefaultMetaExtension = ".meta"

// Status is the change kind of a single path in a transaction.
type Status string

const (
	Added   Status = "A"
	Deleted Status = "D"
	Updated Status = "U"
)

func (s Status) String() string {
	switch s {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == Added || s == Deleted || s == Updated
}

// ChangeRecord is one changed path of a transaction.
type ChangeRecord struct {
	Status    Status
	Path      string
	Filename  string
	Extension string // empty for directories and extensionless files
}

// NewChangeRecord builds a record and derives Filename and Extension from p.
// Paths ending in "/" are directories.
func NewChangeRecord(status Status, p string) (ChangeRecord, error) {
	if !status.Valid() {
		return ChangeRecord{}, &RecordError{Line: string(status) + " " + p, Reason: "unknown status"}
	}
	if strings.TrimSpace(p) == "" {
		return ChangeRecord{}, &RecordError{Line: string(status), Reason: "empty path"}
	}

	rec := ChangeRecord{Status: status, Path: p}
	if strings.HasSuffix(p, "/") {
		rec.Filename = path.Base(strings.TrimSuffix(p, "/"))
		return rec, nil
	}

	rec.Filename = path.Base(p)
	rec.Extension = path.Ext(rec.Filename)
	if rec.Extension == rec.Filename {
		// dotfiles like ".gitignore" have no extension of their own
		rec.Extension = ""
	}
	return rec, nil
}

// IsDir reports whether the record names a directory.
func (r ChangeRecord) IsDir() bool {
	return strings.HasSuffix(r.Path, "/")
}

// RecordError describes a diff line that could not be parsed.
type RecordError struct {
	Line   string
	Reason string
}

func (e *RecordError) Error() string {
	return "malformed change record " + `"` + e.Line + `"` + ": " + e.Reason
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}
