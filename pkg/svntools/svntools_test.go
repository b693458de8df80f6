package svntools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lxiaocode/SVNTools/internal/registry"
)

// writeSettings writes an enabled settings file backed by a YAML registry.
func writeSettings(t *testing.T, dir, registryYAML string) string {
	t.Helper()
	regPath := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(regPath, []byte(registryYAML), 0644))

	cfgPath := filepath.Join(dir, "SVNToolSetting.json")
	content := fmt.Sprintf(`{"enable": true, "database": "file://%s"}`, filepath.ToSlash(regPath))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}

func contentOf(files map[string]string) ContentFetcher {
	return ContentFetcherFunc(func(_ context.Context, path string) (string, error) {
		if c, ok := files[path]; ok {
			return c, nil
		}
		return "", fmt.Errorf("no such file %s", path)
	})
}

func TestNewMissingConfigIsDisabled(t *testing.T) {
	client, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.json")})
	require.NoError(t, err)
	defer client.Close()

	assert.False(t, client.Enabled())

	report, err := client.Validate(context.Background(), "/srv/svn/game", "42-1a")
	require.NoError(t, err)
	assert.True(t, report.Passed)
}

func TestNewInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "SVNToolSetting.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"enable": true}`), 0644))

	_, err := New(Options{ConfigPath: cfgPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestValidateChangesWithFileRegistry(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSettings(t, dir, `entries:
  - path: art/old.png.meta
    guid: aaa111
`)

	client, err := New(Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	records := []ChangeRecord{
		{Status: Added, Path: "art/new.png", Filename: "new.png", Extension: ".png"},
		{Status: Added, Path: "art/new.png.meta", Filename: "new.png.meta", Extension: ".meta"},
	}

	report, err := client.ValidateChanges(context.Background(), records, contentOf(map[string]string{
		"art/new.png.meta": "fileFormatVersion: 2\nguid: aaa111\n",
	}))
	require.NoError(t, err)
	assert.False(t, report.Passed)
	require.Contains(t, report.Collisions, "aaa111")

	var paths []string
	for _, m := range report.Collisions["aaa111"] {
		paths = append(paths, m.Path)
	}
	assert.ElementsMatch(t, []string{"art/new.png.meta", "art/old.png.meta"}, paths)
}

func TestValidateChangesWithInjectedRegistry(t *testing.T) {
	reg := registry.NewMemory(registry.Entry{Path: "art/hero.png.meta", GUID: "g1"})
	client, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.json"), Registry: reg})
	require.NoError(t, err)

	records := []ChangeRecord{
		{Status: Updated, Path: "art/hero.png.meta", Filename: "hero.png.meta", Extension: ".meta"},
	}
	report, err := client.ValidateChanges(context.Background(), records, contentOf(map[string]string{
		"art/hero.png.meta": "guid: g2\n",
	}))
	require.NoError(t, err)
	require.Contains(t, report.Mutations, "g1")
	assert.Equal(t, "g2", report.Mutations["g1"].GUID)

	// an injected registry is left open
	require.NoError(t, client.Close())
	ok, err := reg.ExistsByPath(context.Background(), "art/hero.png.meta")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateChangesContentFailure(t *testing.T) {
	client, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.json"),
		Registry:   registry.NewMemory(),
	})
	require.NoError(t, err)

	records := []ChangeRecord{
		{Status: Added, Path: "a.png.meta", Filename: "a.png.meta", Extension: ".meta"},
	}
	_, err = client.ValidateChanges(context.Background(), records, contentOf(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentFetch))
}

func TestValidateThroughSvnlook(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	cfgPath := writeSettings(t, dir, "entries: []\n")

	script := `#!/bin/sh
case "$1" in
changed)
	printf 'A   art/a.png\n'
	;;
*)
	exit 1
	;;
esac
`
	bin := filepath.Join(dir, "svnlook")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))

	client, err := New(Options{ConfigPath: cfgPath, Svnlook: bin})
	require.NoError(t, err)
	defer client.Close()

	report, err := client.Validate(context.Background(), "/srv/svn/game", "42-1a")
	require.NoError(t, err)
	assert.False(t, report.Passed)
	require.Len(t, report.SyncViolations, 1)
	assert.Equal(t, MissingMetaOnAdd, report.SyncViolations[0].Kind)
	assert.Equal(t, "art/a.png.meta", report.SyncViolations[0].ExpectedMetaPath)
}

func TestValidateRequiresTarget(t *testing.T) {
	dir := t.TempDir()
	client, err := New(Options{ConfigPath: writeSettings(t, dir, "entries: []\n")})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ValidateRevision(context.Background(), "/srv/svn/game", "")
	require.Error(t, err)
}

func TestValidateChangesConcurrentRunsShareRegistry(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSettings(t, dir, `entries:
  - path: art/old.png.meta
    guid: aaa111
`)

	client, err := New(Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	defer client.Close()

	records := []ChangeRecord{
		{Status: Added, Path: "art/new.png.meta", Filename: "new.png.meta", Extension: ".meta"},
	}
	content := contentOf(map[string]string{"art/new.png.meta": "guid: aaa111\n"})

	var wg sync.WaitGroup
	reports := make([]*Report, 8)
	errs := make([]error, len(reports))
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = client.ValidateChanges(context.Background(), records, content)
		}(i)
	}
	wg.Wait()

	for i := range reports {
		require.NoError(t, errs[i])
		assert.Contains(t, reports[i].Collisions, "aaa111")
	}

	client.mu.Lock()
	reg := client.registry
	client.mu.Unlock()
	assert.NotNil(t, reg)
}
