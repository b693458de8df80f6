package diagnostics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lxiaocode/SVNTools/internal/engine"
)

func failingReport() *engine.ValidationReport {
	return engine.Aggregate(
		[]engine.SyncViolation{
			{Kind: engine.MissingMetaOnDelete, AssetPath: "old.png", ExpectedMetaPath: "old.png.meta"},
			{Kind: engine.MissingMetaOnAdd, AssetPath: "new.png", ExpectedMetaPath: "new.png.meta"},
		},
		map[string][]engine.MetaEntry{
			"g1": {{Path: "new.meta", GUID: "g1"}, {Path: "old.meta", GUID: "g1"}},
		},
		map[string]engine.MetaEntry{
			"g0": {Path: "a.meta", GUID: "g2"},
		},
	)
}

func TestRenderPassingReportWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, engine.Aggregate(nil, nil, nil), Options{NoColor: true})
	assert.Empty(t, buf.String())
}

func TestRenderAllSections(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, failingReport(), Options{NoColor: true})
	out := buf.String()

	assert.Contains(t, out, "2 file(s) are out of sync:")
	assert.Contains(t, out, "added file: new.png has no matching metadata change")
	assert.Contains(t, out, "commit its metadata file as well: new.png.meta")
	assert.Contains(t, out, "deleted file: old.png still has its metadata file")
	assert.Contains(t, out, "file: a.meta now has guid g2")
	assert.Contains(t, out, "original guid: g0")
	assert.Contains(t, out, "guid: g1 is duplicated by:")
	assert.Contains(t, out, "  new.meta\n")
	assert.Contains(t, out, "  old.meta\n")

	// adds are listed before deletes
	assert.Less(t, strings.Index(out, "added file:"), strings.Index(out, "deleted file:"))
	// guid changes before duplicates
	assert.Less(t, strings.Index(out, "changed their guid"), strings.Index(out, "reuse an existing guid"))
}

func TestRenderMaxItems(t *testing.T) {
	var violations []engine.SyncViolation
	for _, p := range []string{"a.png", "b.png", "c.png", "d.png"} {
		violations = append(violations, engine.SyncViolation{Kind: engine.MissingMetaOnAdd, AssetPath: p, ExpectedMetaPath: p + ".meta"})
	}

	var buf bytes.Buffer
	Render(&buf, engine.Aggregate(violations, nil, nil), Options{NoColor: true, MaxItems: 2})
	out := buf.String()

	assert.Contains(t, out, "4 file(s) are out of sync:")
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "b.png")
	assert.NotContains(t, out, "c.png")
	assert.Contains(t, out, "... and 2 more")
}

func TestRenderSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, failingReport(), Options{NoColor: true, Summary: true})
	out := buf.String()

	assert.Contains(t, out, "Check")
	assert.Contains(t, out, "Violations")
	assert.NotContains(t, out, "CHECK")
	assert.Contains(t, out, "guid duplicated")
	assert.Contains(t, out, "metadata deleted with asset")
}

func TestRenderNoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, failingReport(), Options{NoColor: true})
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	RenderError(&buf, errors.New("registry unavailable: dial tcp"), Options{NoColor: true})
	out := buf.String()

	assert.Contains(t, out, "could not complete")
	assert.Contains(t, out, "registry unavailable: dial tcp")
}
