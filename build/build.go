// Package build compiles sets of files concurrently.
//
// A Builder wraps a saraswati.Compiler. It expands directories into source
// files, compiles them on a bounded pool of goroutines and optionally writes
// the output under a directory that mirrors the inputs. Results are cached
// by path and content, so rebuilding unchanged files is cheap.
package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati"
	"golang.org/x/sync/errgroup"
)

// Extensions lists the file extensions picked up when expanding a
// directory.
var Extensions = []string{".js", ".mjs", ".cjs"}

// Option configures a Builder.
type Option func(*Builder)

// WithJobs sets the number of files compiled at once. Values below one
// select the number of CPUs.
func WithJobs(n int) Option {
	return func(b *Builder) {
		b.jobs = n
	}
}

// WithOutDir writes each output to dir, at the input's path relative to
// root. When root is empty the inputs' common directory is used.
func WithOutDir(dir, root string) Option {
	return func(b *Builder) {
		b.outDir = dir
		b.root = root
	}
}

// WithCacheSize bounds the cache by the total size of cached output in
// bytes. Zero disables caching.
func WithCacheSize(bytes int64) Option {
	return func(b *Builder) {
		b.cacheSize = bytes
	}
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// DefaultCacheSize is the default cache bound in bytes.
const DefaultCacheSize = 64 << 20

// Builder compiles files with one compiler configuration.
type Builder struct {
	compiler  *saraswati.Compiler
	jobs      int
	outDir    string
	root      string
	cacheSize int64
	cache     *ristretto.Cache[string, *saraswati.Result]
	logger    zerolog.Logger
}

// New returns a Builder using c.
func New(c *saraswati.Compiler, opts ...Option) (*Builder, error) {
	b := &Builder{
		compiler:  c,
		cacheSize: DefaultCacheSize,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.jobs < 1 {
		b.jobs = runtime.NumCPU()
	}
	if b.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, *saraswati.Result]{
			NumCounters: 100_000,
			MaxCost:     b.cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("create build cache failed: %w", err)
		}
		b.cache = cache
	}
	b.logger = b.logger.With().Str("component", "build").Logger()
	return b, nil
}

// Close releases the cache.
func (b *Builder) Close() {
	if b.cache != nil {
		b.cache.Close()
	}
}

// Expand resolves paths into a sorted list of source files. Directories
// are walked recursively for files with one of the Extensions; files named
// directly are kept whatever their extension.
func Expand(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(path))
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSource(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(files)
	return files, nil
}

// IsSource reports whether path has one of the Extensions.
func IsSource(path string) bool {
	return slices.Contains(Extensions, filepath.Ext(path))
}

// Build compiles the files under paths. Per-file failures are recorded in
// the report; the error is only set when the build could not run, such as
// when ctx is canceled or a path does not exist.
func (b *Builder) Build(ctx context.Context, paths ...string) (*Report, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	return b.build(ctx, files, b.outputRoot(files))
}

// outputRoot is the directory output paths are made relative to.
func (b *Builder) outputRoot(files []string) string {
	if b.root != "" || b.outDir == "" {
		return b.root
	}
	return commonDir(files)
}

func (b *Builder) build(ctx context.Context, files []string, root string) (*Report, error) {
	start := time.Now()
	report := &Report{Files: make([]FileResult, len(files))}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.jobs)
	for i, path := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Files[i] = b.buildFile(ctx, path, root)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if b.cache != nil {
		b.cache.Wait()
	}
	report.Duration = time.Since(start)
	b.logger.Info().
		Int("files", len(files)).
		Int("cached", report.Cached()).
		Int("failed", len(report.Failures())).
		Dur("duration", report.Duration).
		Msg("build finished")
	return report, nil
}

func (b *Builder) buildFile(ctx context.Context, path, root string) FileResult {
	fr := FileResult{Path: path}
	src, err := os.ReadFile(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Source = string(src)
	key := cacheKey(path, src)
	if b.cache != nil {
		if res, ok := b.cache.Get(key); ok {
			fr.Result, fr.Cached = res, true
		}
	}
	if fr.Result == nil {
		res, err := b.compiler.CompileSource(ctx, fr.Source, path)
		if err != nil {
			b.logger.Debug().Str("file", path).Err(err).Msg("compile failed")
			fr.Err = err
			return fr
		}
		fr.Result = res
		if b.cache != nil {
			b.cache.Set(key, res, int64(len(res.Code))+1)
		}
	}
	if b.outDir != "" {
		out, err := b.write(path, root, fr.Result.Code)
		if err != nil {
			fr.Err = err
			return fr
		}
		fr.Output = out
	}
	b.logger.Debug().
		Str("file", path).
		Bool("cached", fr.Cached).
		Int("rewrites", fr.Result.Rewrites).
		Int("diagnostics", len(fr.Result.Diagnostics)).
		Msg("compiled file")
	return fr
}

func (b *Builder) write(path, root, code string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	target := filepath.Join(b.outDir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	return target, os.WriteFile(target, []byte(code), 0o644)
}

// cacheKey identifies a file by path and content.
func cacheKey(path string, src []byte) string {
	sum := sha256.Sum256(src)
	return path + "@" + hex.EncodeToString(sum[:])
}

// commonDir returns the deepest directory containing every file.
func commonDir(files []string) string {
	if len(files) == 0 {
		return "."
	}
	dir := filepath.Dir(files[0])
	for _, f := range files[1:] {
		for !under(dir, f) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}
