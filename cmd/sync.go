package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chriserin/shallot/internal/config"
	"github.com/chriserin/shallot/internal/db"
	"github.com/chriserin/shallot/internal/parser"
	"github.com/chriserin/shallot/internal/ui"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// WatchDebounceDelay is how long sync --watch waits after the last change.
const WatchDebounceDelay = 300 * time.Millisecond

var watchFlag bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Parse every feature file and update the scenario index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchFlag {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return RunWatch(ctx, cmd.OutOrStdout(), cfg)
		}
		return RunSync(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	syncCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-sync whenever a feature file changes")
	rootCmd.AddCommand(syncCmd)
}

func requireInit(cfg *config.Config) error {
	if _, err := os.Stat(cfg.FeaturesDir); os.IsNotExist(err) {
		return fmt.Errorf("run `shallot init` first")
	}
	return nil
}

func RunSync(w io.Writer, cfg *config.Config) error {
	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	return syncAll(w, sqlDB, cfg)
}

func syncAll(w io.Writer, sqlDB *sql.DB, cfg *config.Config) error {
	matches, err := featureFiles(cfg)
	if err != nil {
		return fmt.Errorf("scanning %s/: %w", cfg.FeaturesDir, err)
	}

	failed := 0
	for _, path := range matches {
		doc, err := parser.ParseFile(path)
		if err != nil {
			logger.Warn("parse failed", "path", path, "line", parser.LineOf(err), "err", err)
			ui.ErrLine(w, path, err)
			failed++
			continue
		}

		result, err := db.SyncFile(sqlDB, parser.Transform(doc, path))
		if err != nil {
			return err
		}
		logger.Debug("synced", "path", path, "result", result.String(), "scenarios", len(doc.Scenarios))

		switch result {
		case db.Added:
			ui.NewLine(w, path)
		case db.Updated:
			ui.UpdLine(w, path)
		default:
			ui.TrkLine(w, path)
		}
	}

	removed, err := db.Prune(sqlDB, matches)
	if err != nil {
		return err
	}
	for _, path := range removed {
		ui.DelLine(w, path)
	}

	ui.SummaryLine(w, len(matches)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(matches))
	}
	return nil
}

// featureFiles returns every file under the features directory with the
// configured extension, sorted.
func featureFiles(cfg *config.Config) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(cfg.FeaturesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isFeatureFile(cfg, path) {
			matches = append(matches, filepath.ToSlash(path))
		}
		return nil
	})
	sort.Strings(matches)
	return matches, err
}

func isFeatureFile(cfg *config.Config, path string) bool {
	return strings.EqualFold(filepath.Ext(path), cfg.Extension)
}

// RunWatch syncs once, then again after every burst of changes to feature
// files, until ctx is done.
func RunWatch(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(cfg.FeaturesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.FeaturesDir, err)
	}

	var mu sync.Mutex
	closed := false
	resync := func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		if err := syncAll(w, sqlDB, cfg); err != nil {
			logger.Warn("sync failed", "err", err)
		}
	}
	resync()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
		mu.Lock()
		closed = true
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if !isFeatureFile(cfg, event.Name) || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(WatchDebounceDelay, resync)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}
