package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/showcase-dev/showcase/internal/catalog"
)

// Notifier rebuilds after filesystem events under the project roots settle for Debounce.
type Notifier struct {
	Layout   catalog.Layout
	Debounce time.Duration
	Builder  Rebuilder
	OnBuild  BuildFunc
	// OnError receives watcher errors that do not stop the loop.
	OnError func(err error)
}

// Run builds once, then watches until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot start file watcher: %w", err)
	}
	defer w.Close()

	for _, root := range n.roots() {
		n.addTree(w, root, 2)
	}
	// A root that does not exist yet is picked up when it appears.
	if err := w.Add(n.Layout.BaseDir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", n.Layout.BaseDir, err)
	}

	n.build(ctx)

	timer := time.NewTimer(n.Debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !n.relevant(w, ev) {
				continue
			}
			timer.Reset(n.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if n.OnError != nil {
				n.OnError(err)
			}

		case <-timer.C:
			n.build(ctx)
		}
	}
}

func (n *Notifier) build(ctx context.Context) {
	res, err := n.Builder.Build(ctx)
	if n.OnBuild != nil {
		n.OnBuild(res, err)
	}
}

func (n *Notifier) roots() []string {
	var out []string
	for _, r := range []string{n.Layout.GroupedRoot, n.Layout.NestedRoot} {
		if r != "" {
			out = append(out, filepath.Join(n.Layout.BaseDir, r))
		}
	}
	return out
}

// relevant reports whether ev can change the index. New directories are added
// to the watch list as they appear.
func (n *Notifier) relevant(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	depth, ok := n.depth(ev.Name)
	if !ok {
		return false
	}
	if filepath.Base(ev.Name) == n.Layout.ManifestName {
		return true
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			n.addTree(w, ev.Name, 2-depth)
			return true
		}
	}
	return ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// depth returns how far below a root path is; a root itself is depth 0.
// Paths outside every root report false.
func (n *Notifier) depth(path string) (int, bool) {
	for _, root := range n.roots() {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if rel == "." {
			return 0, true
		}
		return strings.Count(filepath.ToSlash(rel), "/") + 1, true
	}
	return 0, false
}

// addTree watches dir and its subdirectories down to levels below it.
func (n *Notifier) addTree(w *fsnotify.Watcher, dir string, levels int) {
	if levels < 0 {
		return
	}
	if err := w.Add(dir); err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			n.addTree(w, filepath.Join(dir, e.Name()), levels-1)
		}
	}
}
