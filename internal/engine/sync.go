package engine

import (
	"context"

	"github.com/lxiaocode/SVNTools/internal/commit"
	"github.com/lxiaocode/SVNTools/internal/registry"
)

// CheckSync reports added or deleted assets whose metadata file was not
// added or deleted alongside them. Updated assets, directories and
// extensionless files are not checked. Violations keep snapshot order.
//
// The two branches consult the registry asymmetrically: a delete is flagged
// when the sidecar is still tracked (added here, or registered), an add is
// accepted when the sidecar is registered and not deleted here.
func CheckSync(ctx context.Context, snap *commit.Snapshot, reg registry.Client) ([]SyncViolation, error) {
	var violations []SyncViolation

	for _, f := range snap.AssetFiles() {
		metaPath := snap.MetaPathFor(f.Path)

		switch f.Status {
		case commit.Deleted:
			if snap.Exists(metaPath, commit.ScopeMeta, commit.Deleted) {
				continue
			}
			tracked := snap.Exists(metaPath, commit.ScopeMeta, commit.Added)
			if !tracked {
				var err error
				if tracked, err = reg.ExistsByPath(ctx, metaPath); err != nil {
					return nil, err
				}
			}
			if tracked {
				violations = append(violations, SyncViolation{Kind: MissingMetaOnDelete, AssetPath: f.Path, ExpectedMetaPath: metaPath})
			}

		case commit.Added:
			if snap.Exists(metaPath, commit.ScopeMeta, commit.Added, commit.Updated) {
				continue
			}
			if !snap.Exists(metaPath, commit.ScopeMeta, commit.Deleted) {
				registered, err := reg.ExistsByPath(ctx, metaPath)
				if err != nil {
					return nil, err
				}
				if registered {
					continue
				}
			}
			violations = append(violations, SyncViolation{Kind: MissingMetaOnAdd, AssetPath: f.Path, ExpectedMetaPath: metaPath})
		}
	}

	return violations, nil
}
