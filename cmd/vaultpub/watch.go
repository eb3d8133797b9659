package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/vaultpub/pkg/errors"
	"github.com/arthur-debert/vaultpub/pkg/logging"
	"github.com/arthur-debert/vaultpub/pkg/publish"
)

var (
	watchDebounce time.Duration
	watchPush     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and publish automatically on changes",
	Long: `watch monitors the vault for file changes and runs a publish cycle
after each burst of edits settles. By default each cycle commits without
pushing; pass --push to push every cycle as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}
		logger := logging.GetLogger("watch")

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
		}
		defer watcher.Close()

		if err := watchTree(watcher, cfg.VaultRoot); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (debounce %s)\n", cfg.VaultRoot, watchDebounce)

		var timer *time.Timer
		fire := make(chan struct{}, 1)
		ctx := cmd.Context()

		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ignoredEvent(cfg.PublishDir, ev) {
					continue
				}
				// New directories need their own watch.
				if ev.Op.Has(fsnotify.Create) {
					if err := watchTree(watcher, ev.Name); err != nil {
						logger.Debug().Err(err).Str("path", ev.Name).Msg("could not watch new path")
					}
				}
				logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("vault change detected")
				if timer == nil {
					timer = time.AfterFunc(watchDebounce, func() { fire <- struct{}{} })
				} else {
					timer.Reset(watchDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn().Err(err).Msg("watcher error")

			case <-fire:
				timer = nil
				res, err := p.Publish(ctx, publish.Options{Push: watchPush})
				if err != nil {
					logger.Error().Err(err).Msg("publish cycle failed")
					fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("publish failed: "+err.Error()))
					continue
				}
				renderResult(cmd.OutOrStdout(), res)
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "Quiet period before a change triggers a publish")
	watchCmd.Flags().BoolVar(&watchPush, "push", false, "Push after each publish cycle")
}

// watchTree adds root and every non-hidden subdirectory to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "failed to watch %s", path)
		}
		return nil
	})
}

// ignoredEvent filters out churn from the publish repository itself and
// from editor temp files.
func ignoredEvent(publishDir string, ev fsnotify.Event) bool {
	if publishDir != "" {
		if abs, err := filepath.Abs(publishDir); err == nil {
			if evAbs, err := filepath.Abs(ev.Name); err == nil && strings.HasPrefix(evAbs, abs+string(filepath.Separator)) {
				return true
			}
		}
	}
	base := filepath.Base(ev.Name)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
