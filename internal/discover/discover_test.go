package discover

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeExe(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func names(cs []Candidate, runnable bool) []string {
	var out []string
	for _, c := range cs {
		if c.Runnable == runnable {
			out = append(out, c.Name)
		}
	}
	return out
}

func TestScan_PartitionsRunAndNotRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeExe(t, filepath.Join(root, "qfoo", "tst_qfoo"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "qbar"), 0o755))
	writeExe(t, filepath.Join(root, "qdeclarativevideo", "tst_qdeclarativevideo"))

	d := New(Options{Layout: LayoutFlat}, newTestLogger())
	got, err := d.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"qfoo"}, names(got, true))
	assert.Equal(t, []string{"qbar"}, names(got, false))
	for _, c := range got {
		assert.NotEqual(t, "qdeclarativevideo", c.Name)
	}
}

func TestScan_SkipsNamesWithoutPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeExe(t, filepath.Join(root, "other", "tst_other"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "qt.pro"), []byte("SUBDIRS"), 0o644))

	d := New(Options{Layout: LayoutFlat}, newTestLogger())
	got, err := d.Scan(context.Background(), root)
	require.NoError(t, err)

	// Files matching the prefix are still candidates; they just never resolve.
	require.Len(t, got, 1)
	assert.Equal(t, "qt.pro", got[0].Name)
	assert.False(t, got[0].Runnable)
}

func TestScan_ExclusionMatchesAnywhereInName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeExe(t, filepath.Join(root, "qfoo_qmultimedia_common_bar", "tst_qfoo_qmultimedia_common_bar"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "qxqdeclarativevideox"), 0o755))

	d := New(Options{Layout: LayoutFlat}, newTestLogger())
	got, err := d.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScan_CustomOptions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeExe(t, filepath.Join(root, "qfoo", "test_qfoo"))
	writeExe(t, filepath.Join(root, "qskip", "test_qskip"))

	d := New(Options{
		ExecutablePrefix: "test_",
		Exclusions:       []string{"skip"},
		Layout:           LayoutFlat,
	}, newTestLogger())
	got, err := d.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Candidate{Name: "qfoo", Path: filepath.Join(root, "qfoo", "test_qfoo"), Runnable: true}, got[0])
}

func TestScan_NaturalSort(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, n := range []string{"qtest10", "qtest2", "qtest1"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, n), 0o755))
	}

	d := New(Options{Layout: LayoutFlat, NaturalSort: true}, newTestLogger())
	got, err := d.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"qtest1", "qtest2", "qtest10"}, names(got, false))
}

func TestScan_MissingRoot(t *testing.T) {
	t.Parallel()

	d := New(Options{}, newTestLogger())
	_, err := d.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunnable_ReflectsCurrentFilesystem(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d := New(Options{Layout: LayoutFlat}, newTestLogger())
	path := d.ExecutablePath(root, "qlate")
	assert.False(t, d.Runnable(path))

	writeExe(t, path)
	assert.True(t, d.Runnable(path))

	require.NoError(t, os.Remove(path))
	assert.False(t, d.Runnable(path))
}

func TestExecutablePath_Layouts(t *testing.T) {
	t.Parallel()

	debug := New(Options{Layout: LayoutDebug}, newTestLogger())
	assert.Equal(t, `unit\qfoo\debug\tst_qfoo.exe`, debug.ExecutablePath("unit", "qfoo"))

	flat := New(Options{Layout: LayoutFlat}, newTestLogger())
	assert.Equal(t, filepath.Join("unit", "qfoo", "tst_qfoo"), flat.ExecutablePath("unit", "qfoo"))
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Layout{"": LayoutAuto, "auto": LayoutAuto, "Debug": LayoutDebug, "flat": LayoutFlat} {
		got, err := ParseLayout(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLayout("nested")
	assert.Error(t, err)
}
