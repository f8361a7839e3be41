package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
}

func newBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	c, err := saraswati.New(saraswati.WithMode(transform.ModeContinuation))
	require.NoError(t, err)
	b, err := New(c, opts...)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.js":           "",
		"lib/b.mjs":      "",
		"lib/deep/c.cjs": "",
		"notes.txt":      "",
	})
	files, err := Expand([]string{dir, filepath.Join(dir, "a.js"), filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "lib/b.mjs"),
		filepath.Join(dir, "lib/deep/c.cjs"),
		filepath.Join(dir, "notes.txt"),
	}, files)

	_, err = Expand([]string{filepath.Join(dir, "missing")})
	assert.True(t, os.IsNotExist(err))
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ok.js":     "function f() { a(); yield(1); b() }",
		"misuse.js": "yield(1)",
		"broken.js": "function (",
	})
	b := newBuilder(t, WithJobs(2))
	report, err := b.Build(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 3)

	broken, misuse, ok := report.Files[0], report.Files[1], report.Files[2]
	assert.Equal(t, filepath.Join(dir, "broken.js"), broken.Path)
	assert.Error(t, broken.Err)
	assert.True(t, broken.Failed())

	require.NoError(t, misuse.Err)
	assert.True(t, misuse.Failed())
	assert.Equal(t, "yield(1);\n", misuse.Result.Code)

	require.NoError(t, ok.Err)
	assert.False(t, ok.Failed())
	assert.Equal(t, "function f() {\n  a();\n  __rt.yield(1, () => {\n    b();\n  });\n}\n", ok.Result.Code)

	assert.True(t, report.HasErrors())
	assert.Len(t, report.Failures(), 1)
	errs, warnings := report.Counts()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 0, warnings)

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "broken.js")
	assert.Contains(t, err.Error(), "must be used inside a function body")
}

func TestBuildUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	writeFiles(t, dir, map[string]string{"main.js": "function f() { yield(1) }"})

	b := newBuilder(t)
	first, err := b.Build(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Cached())

	second, err := b.Build(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Cached())
	assert.Same(t, first.Files[0].Result, second.Files[0].Result)

	writeFiles(t, dir, map[string]string{"main.js": "function f() { yield(2) }"})
	third, err := b.Build(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Cached())
	assert.Contains(t, third.Files[0].Result.Code, "__rt.yield(2, () => {})")
}

func TestBuildWithoutCache(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.js": "a()"})
	b := newBuilder(t, WithCacheSize(0))
	for range 2 {
		report, err := b.Build(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Cached())
	}
}

func TestBuildOutDir(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFiles(t, src, map[string]string{
		"app/main.js":     "function f() { yield(1) }",
		"app/lib/util.js": "function g() { yield(2) }",
	})
	b := newBuilder(t, WithOutDir(out, ""))
	report, err := b.Build(context.Background(), filepath.Join(src, "app"))
	require.NoError(t, err)
	require.False(t, report.HasErrors())

	assert.Equal(t, filepath.Join(out, "lib/util.js"), report.Files[0].Output)
	assert.Equal(t, filepath.Join(out, "main.js"), report.Files[1].Output)
	data, err := os.ReadFile(filepath.Join(out, "lib/util.js"))
	require.NoError(t, err)
	assert.Equal(t, "function g() {\n  __rt.yield(2, () => {});\n}\n", string(data))
}

func TestBuildCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.js": "a()", "b.js": "b()"})
	b := newBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Build(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReportRender(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.js": "function f() { yield(1) }",
		"b.js": "yield(1)",
	})
	b := newBuilder(t)
	report, err := b.Build(context.Background(), dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	report.Render(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "FILE")
	assert.Contains(t, lines[3], "a.js")
	assert.True(t, strings.HasSuffix(lines[3], "| ok     |"), lines[3])
	assert.True(t, strings.HasSuffix(lines[4], "| errors |"), lines[4])
}

func TestCommonDir(t *testing.T) {
	assert.Equal(t, "a/b", commonDir([]string{"a/b/x.js", "a/b/y.js"}))
	assert.Equal(t, "a", commonDir([]string{"a/b/x.js", "a/c/y.js"}))
	assert.Equal(t, ".", commonDir([]string{"a/x.js", "b/y.js"}))
	assert.Equal(t, ".", commonDir(nil))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	writeFiles(t, dir, map[string]string{"main.js": "function f() { yield(1) }"})

	b := newBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *Report, 16)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, []string{dir}, func(r *Report) { reports <- r })
	}()

	next := func() *Report {
		t.Helper()
		select {
		case r := <-reports:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a build report")
			return nil
		}
	}

	initial := next()
	require.Len(t, initial.Files, 1)
	assert.Contains(t, initial.Files[0].Result.Code, "__rt.yield(1")

	writeFiles(t, dir, map[string]string{"notes.txt": "ignored", "main.js": "function f() { yield(2) }"})
	for {
		r := next()
		require.Len(t, r.Files, 1)
		assert.Equal(t, path, r.Files[0].Path)
		if r.Files[0].Result != nil && strings.Contains(r.Files[0].Result.Code, "__rt.yield(2") {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
