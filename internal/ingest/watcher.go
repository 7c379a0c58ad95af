package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures the paste-file drop directory watcher.
type WatchConfig struct {
	Dir      string        // flat drop directory holding .txt paste files
	Debounce time.Duration // coalesce rapid create/rename bursts
}

// doneSuffix marks paste files that were already ingested.
const doneSuffix = ".done"

// Watcher ingests paste files dropped into a directory: a created .txt file
// is read, routed by format sniffing to the matching ingest operation, and
// renamed with a ".done" suffix.
type Watcher struct {
	svc    *Service
	cfg    WatchConfig
	logger *slog.Logger
}

func NewWatcher(svc *Service, cfg WatchConfig, logger *slog.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("no drop directory provided")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{svc: svc, cfg: cfg, logger: logger}, nil
}

// Run watches until the context is canceled. Files already present at start
// are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("failed to create fsnotify watcher", "error", err)
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.cfg.Dir); err != nil {
		w.logger.Error("failed to watch drop directory", "dir", w.cfg.Dir, "error", err)
		return err
	}
	w.logger.Info("watching drop directory", "dir", w.cfg.Dir)

	w.initialScan(ctx)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !isPasteFile(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		case <-ticker.C:
			cutoff := time.Now().Add(-w.cfg.Debounce)
			for path, seen := range pending {
				if seen.After(cutoff) {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

func (w *Watcher) initialScan(ctx context.Context) {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		w.logger.Error("initial scan failed", "dir", w.cfg.Dir, "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.cfg.Dir, e.Name())
		if isPasteFile(path) {
			w.ingestFile(ctx, path)
		}
	}
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("failed to read paste file", "path", path, "error", err)
		return
	}
	text := string(data)

	format := SniffFormat(text)
	switch format {
	case FormatDetailed:
		_, err = w.svc.IngestDetailed(ctx, text, DetailedOptions{})
	case FormatSummary:
		_, err = w.svc.IngestSummary(ctx, text)
	case FormatPhones:
		_, _, err = w.svc.MergePhones(ctx, text)
	default:
		w.logger.Warn("paste file format not recognized", "path", path)
		return
	}
	if err != nil {
		w.logger.Error("failed to ingest paste file", "path", path, "format", format, "error", err)
		return
	}

	if err := os.Rename(path, path+doneSuffix); err != nil {
		w.logger.Error("failed to mark paste file done", "path", path, "error", err)
		return
	}
	w.logger.Info("paste file ingested", "path", path, "format", format)
}

func isPasteFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".txt")
}
