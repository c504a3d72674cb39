package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/viant/mdt/internal/engine"
)

var (
	updateDryRun bool
	updateWatch  bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rewrite every stale consumer to match its provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(projectPath)
		if err != nil {
			return err
		}
		if err := runUpdate(eng); err != nil {
			return err
		}
		if !updateWatch {
			return nil
		}
		return watchAndUpdate(eng)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "compute edits without writing files")
	updateCmd.Flags().BoolVar(&updateWatch, "watch", false, "re-run update on filesystem changes")
}

func runUpdate(eng *engine.Engine) error {
	_, res, written, err := eng.Update(context.Background(), updateDryRun)
	if err != nil {
		return err
	}
	for _, f := range written {
		log.Infof("updated %s", f)
	}
	for _, w := range res.Warnings {
		log.Warnf("%s (%s)", w.Message, w.File)
	}
	for _, r := range res.RenderErrors {
		log.Warnf("%s: %s (%s)", r.Code, r.Message, r.File)
	}
	return nil
}

// watchAndUpdate re-invokes the scan+update path on filesystem events,
// debounced ~200ms.
func watchAndUpdate(eng *engine.Engine) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchTree(watcher, projectPath); err != nil {
		return err
	}

	var timer *time.Timer
	debounce := 200 * time.Millisecond
	fire := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { fire <- struct{}{} })
		case <-fire:
			if err := runUpdate(eng); err != nil {
				log.Errorf("update failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch error: %v", err)
		}
	}
}

// addWatchTree registers every non-hidden, non-vendored directory under root
// with watcher; fsnotify has no native recursive mode.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "target") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
