package commit

// Scope selects which class of records a lookup considers.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeMeta
	ScopeAsset
)

// Snapshot is a read-only view of one transaction's changed paths.
// Derived views are computed once at construction.
type Snapshot struct {
	records []ChangeRecord
	assets  []ChangeRecord
	metas   []ChangeRecord
	metaExt string
}

// NewSnapshot classifies records by extension. An empty metaExt uses
// DefaultMetaExtension. Records with an empty path are rejected.
func NewSnapshot(records []ChangeRecord, metaExt string) (*Snapshot, error) {
	if metaExt == "" {
		metaExt = DefaultMetaExtension
	}

	s := &Snapshot{
		records: make([]ChangeRecord, len(records)),
		metaExt: metaExt,
	}
	copy(s.records, records)

	for _, r := range s.records {
		if r.Path == "" {
			return nil, &RecordError{Line: string(r.Status), Reason: "empty path"}
		}
		switch {
		case r.Extension == "":
			// directories and extensionless files carry no sidecar
		case r.Extension == metaExt:
			s.metas = append(s.metas, r)
		default:
			s.assets = append(s.assets, r)
		}
	}

	return s, nil
}

// Records returns every record in diff order.
func (s *Snapshot) Records() []ChangeRecord { return s.records }

// AssetFiles returns records with an extension other than the metadata one.
func (s *Snapshot) AssetFiles() []ChangeRecord { return s.assets }

// MetadataFiles returns records with the metadata extension.
func (s *Snapshot) MetadataFiles() []ChangeRecord { return s.metas }

// MetaExtension returns the sidecar extension used for classification.
func (s *Snapshot) MetaExtension() string { return s.metaExt }

// MetaPathFor returns the sidecar path expected for an asset path.
func (s *Snapshot) MetaPathFor(assetPath string) string {
	return assetPath + s.metaExt
}

// Exists reports whether a record in scope has path p and one of statuses.
// No statuses means any status matches.
func (s *Snapshot) Exists(p string, scope Scope, statuses ...Status) bool {
	var files []ChangeRecord
	switch scope {
	case ScopeMeta:
		files = s.metas
	case ScopeAsset:
		files = s.assets
	default:
		files = s.records
	}

	for _, f := range files {
		if f.Path != p {
			continue
		}
		if len(statuses) == 0 {
			return true
		}
		for _, st := range statuses {
			if f.Status == st {
				return true
			}
		}
	}
	return false
}

// Empty reports whether the snapshot has no records.
func (s *Snapshot) Empty() bool { return len(s.records) == 0 }
