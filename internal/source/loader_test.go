package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreptables/internal/table"
	"github.com/roach88/irreptables/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_ResolveDefaultNames(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)

	assert.True(t, strings.HasSuffix(l.Resolve(77, false, false), "/irreps-SG=77-scal.dat"))
	assert.True(t, strings.HasSuffix(l.Resolve(77, true, false), "/irreps-SG=77-spin.dat"))
	assert.True(t, strings.HasSuffix(l.Resolve(77, true, true), "/TabIrrepLittle_77.txt"))
}

func TestLoader_LoadLegacyFromRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, table.LegacyFileName(77), testutil.SampleLegacy().String())

	l := NewLoader(dir)
	tbl, err := l.Load(context.Background(), 77, false, LoadOptions{Legacy: true})
	require.NoError(t, err)

	assert.Equal(t, "P4_2", tbl.Name)
	assert.Equal(t, 2, tbl.Nsym)
	assert.Contains(t, tbl.Labels(), "GM1")
}

func TestLoader_LoadUserWithExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.dat", testutil.SampleUserSpinor)

	l := NewLoader(t.TempDir())
	tbl, err := l.Load(context.Background(), 77, true, LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"-GM5", "-Z3"}, tbl.Labels())
}

func TestLoader_LoadRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scal.dat", testutil.SampleUserScalar)

	l := NewLoader(dir)
	tbl, err := l.Load(context.Background(), 77, false, LoadOptions{Path: "scal.dat"})
	require.NoError(t, err)
	assert.Len(t, tbl.Irreps(), 4)
}

func TestLoader_LoadMissing(t *testing.T) {
	l := NewLoader(t.TempDir())

	_, err := l.Load(context.Background(), 12, false, LoadOptions{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLoader_LoadParseErrorIsNotSourceError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, table.FileName(77, false), "SG=78\n")

	_, err := NewLoader(dir).Load(context.Background(), 77, false, LoadOptions{})
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.True(t, table.IsCode(err, table.ErrCodeInconsistentHeader))
}

func TestLoader_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, table.LegacyFileName(77), testutil.SampleLegacy().String())
	l := NewLoader(dir)
	ctx := context.Background()

	legacy, err := l.Load(ctx, 77, false, LoadOptions{Legacy: true})
	require.NoError(t, err)

	URL, err := l.Save(ctx, legacy, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(URL, table.FileName(77, false)))

	data, err := os.ReadFile(filepath.Join(dir, table.FileName(77, false)))
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleUserScalar, string(data))

	user, err := l.Load(ctx, 77, false, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GM1", "GM2", "Z1", "X1"}, user.Labels())
}

func TestLoader_SaveExplicitLocation(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	ctx := context.Background()

	tbl, err := table.ReadUser(strings.NewReader(testutil.SampleUserScalar), 77, false)
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "out.dat")
	_, err = l.Save(ctx, tbl, target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, tbl.String(), string(data))
}

func TestLoader_Discover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, table.LegacyFileName(2), "")
	writeFile(t, dir, table.FileName(2, true), "")
	writeFile(t, dir, table.FileName(2, false), "")
	writeFile(t, dir, table.FileName(1, false), "")
	writeFile(t, dir, "notes.txt", "")

	entries, err := NewLoader(dir).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{Number: 1}, withoutURL(entries[0]))
	assert.Equal(t, Entry{Number: 2}, withoutURL(entries[1]))
	assert.Equal(t, Entry{Number: 2, Spinor: true}, withoutURL(entries[2]))
	assert.Equal(t, Entry{Number: 2, Legacy: true}, withoutURL(entries[3]))
	assert.True(t, strings.HasSuffix(entries[3].URL, table.LegacyFileName(2)))
}

func TestParseFileName(t *testing.T) {
	e, ok := parseFileName("irreps-SG=230-spin.dat")
	require.True(t, ok)
	assert.Equal(t, Entry{Number: 230, Spinor: true}, e)

	_, ok = parseFileName("irreps-SG=x-spin.dat")
	assert.False(t, ok)
	_, ok = parseFileName("TabIrrepLittle_7.dat")
	assert.False(t, ok)
}

func withoutURL(e Entry) Entry {
	e.URL = ""
	return e
}
