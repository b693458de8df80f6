package svntools

import (
	"github.com/lxiaocode/SVNTools/internal/commit"
	"github.com/lxiaocode/SVNTools/internal/engine"
	"github.com/lxiaocode/SVNTools/internal/registry"
)

// Type aliases re-export the validation types as the public API.

type Report = engine.ValidationReport
type SyncViolation = engine.SyncViolation
type SyncViolationKind = engine.SyncViolationKind
type MetaEntry = engine.MetaEntry
type ContentFetcher = engine.ContentFetcher
type ContentFetcherFunc = engine.ContentFetcherFunc

type ChangeRecord = commit.ChangeRecord
type Status = commit.Status

type RegistryClient = registry.Client
type RegistryEntry = registry.Entry

const (
	MissingMetaOnAdd    = engine.MissingMetaOnAdd
	MissingMetaOnDelete = engine.MissingMetaOnDelete

	Added   = commit.Added
	Deleted = commit.Deleted
	Updated = commit.Updated
)

// Sentinel errors callers may test with errors.Is.
var (
	ErrContentFetch        = engine.ErrContentFetch
	ErrGUIDNotFound        = engine.ErrGUIDNotFound
	ErrMalformedRecord     = commit.ErrMalformedRecord
	ErrRegistryUnavailable = registry.ErrUnavailable
)
