package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

// recomputer runs the distance pipeline and publishes each new report. Runs
// are serialised.
type recomputer struct {
	mu     sync.Mutex
	cfg    distance.Config
	logger *slog.Logger
	out    io.Writer
	b      *broker
}

func newRecomputer(cfg distance.Config, logger *slog.Logger, out io.Writer, b *broker) *recomputer {
	return &recomputer{cfg: cfg, logger: logger, out: out, b: b}
}

func (r *recomputer) run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, err := distance.Execute(ctx, r.cfg, r.logger)
	if err != nil {
		return err
	}
	report, err := os.ReadFile(r.cfg.OutPath)
	if err != nil {
		return fmt.Errorf("failed to read report %s: %w", r.cfg.OutPath, err)
	}
	r.b.publish(string(report))

	fmt.Fprintf(r.out, "%s: %d of %d names have a distance\n",
		time.Now().Format(time.TimeOnly), stats.Resolved, stats.Names)
	return nil
}

// inputPaths returns the cleaned absolute paths of every input file named by
// cfg, sorted.
func inputPaths(cfg distance.Config) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, p := range []string{cfg.DotPath, cfg.TargetsPath, cfg.NamesPath, cfg.CGDistancePath, cfg.CallsitesPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if !seen[abs] {
			seen[abs] = true
			paths = append(paths, abs)
		}
	}
	sort.Strings(paths)
	return paths
}

func watchAndRecompute(ctx context.Context, cfg distance.Config, r *recomputer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	inputs := inputPaths(cfg)
	if err := addWatchDirs(watcher.Add, inputs); err != nil {
		return fmt.Errorf("failed to watch input directories: %w", err)
	}
	watched := make(map[string]bool, len(inputs))
	for _, p := range inputs {
		watched[p] = true
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevantChange(event, watched) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				if err := r.run(ctx); err != nil {
					r.logger.Error("recompute failed", "err", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("watcher error", "err", err)
		}
	}
}

// isRelevantChange reports whether an event touches one of the watched input
// files.
func isRelevantChange(event fsnotify.Event, watched map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return watched[abs]
}

// addWatchDirs adds the parent directory of every path once.
func addWatchDirs(add func(string) error, paths []string) error {
	added := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(p)
		if added[dir] {
			continue
		}
		if err := add(dir); err != nil {
			return fmt.Errorf("%s: %w", dir, err)
		}
		added[dir] = true
	}
	return nil
}
