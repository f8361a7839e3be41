package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch builds paths, then rebuilds every source file that is written or
// created under them until ctx is done. onReport receives the initial
// report and one report per rebuild. Watch returns nil when ctx is
// canceled.
func (b *Builder) Watch(ctx context.Context, paths []string, onReport func(*Report)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := map[string]bool{}
	var trees []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			trees = append(trees, filepath.Clean(path))
			if err := addTree(w, path); err != nil {
				return err
			}
			continue
		}
		files[filepath.Clean(path)] = true
		if err := w.Add(filepath.Dir(path)); err != nil {
			return err
		}
	}
	watched := func(name string) bool {
		name = filepath.Clean(name)
		if b.outDir != "" && under(filepath.Clean(b.outDir), name) {
			return false
		}
		if files[name] {
			return true
		}
		if !IsSource(name) {
			return false
		}
		for _, tree := range trees {
			if under(tree, name) {
				return true
			}
		}
		return false
	}

	initial, err := Expand(paths)
	if err != nil {
		return err
	}
	root := b.outputRoot(initial)
	report, err := b.build(ctx, initial, root)
	if err != nil {
		return err
	}
	onReport(report)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						b.logger.Warn().Err(err).Str("dir", ev.Name).Msg("watch failed")
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !watched(ev.Name) {
				continue
			}
			b.logger.Debug().Str("file", ev.Name).Stringer("op", ev.Op).Msg("change detected")
			report, err := b.build(ctx, []string{filepath.Clean(ev.Name)}, root)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				b.logger.Warn().Err(err).Str("file", ev.Name).Msg("rebuild failed")
				continue
			}
			onReport(report)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

// under reports whether path is dir or lies inside it.
func under(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) || dir == "."
}
