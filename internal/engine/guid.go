package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/lxiaocode/SVNTools/internal/registry"
)

// CheckGUIDs finds guids claimed by more than one file and updated metadata
// files whose guid differs from the registered one.
//
// Same-commit duplicates are reported with their first occurrence included.
// Registry rows whose path is deleted in this commit do not collide.
func CheckGUIDs(ctx context.Context, idx *MetadataIndex, reg registry.Client, logger *slog.Logger) (map[string][]MetaEntry, map[string]MetaEntry, error) {
	if logger == nil {
		logger = discardLogger
	}

	collisions := make(map[string][]MetaEntry)
	add := func(guid string, e MetaEntry) {
		if !slices.Contains(collisions[guid], e) {
			collisions[guid] = append(collisions[guid], e)
		}
	}

	for guid, dups := range idx.Duplicates {
		if first, ok := idx.firstWithGUID(guid); ok {
			add(guid, first)
		}
		for _, d := range dups {
			add(guid, d)
		}
	}

	for _, m := range idx.Added {
		rows, err := reg.SelectByGUID(ctx, m.GUID)
		if err != nil {
			return nil, nil, err
		}

		var live []MetaEntry
		for _, r := range rows {
			if idx.IsDeletedPath(r.Path) {
				continue
			}
			live = append(live, MetaEntry{Path: r.Path, GUID: r.GUID})
		}
		if len(live) == 0 {
			continue
		}

		add(m.GUID, m)
		for _, e := range live {
			add(m.GUID, e)
		}
	}

	mutations := make(map[string]MetaEntry)
	for _, m := range idx.Updated {
		prev, err := reg.SelectByPath(ctx, m.Path)
		if errors.Is(err, registry.ErrNotFound) {
			logger.WarnContext(ctx, "updated metadata has no registry row", "path", m.Path, "guid", m.GUID)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if prev.GUID != m.GUID {
			mutations[prev.GUID] = m
		}
	}

	return collisions, mutations, nil
}
