// Package worker keeps an on-disk snapshot of the ledger export in sync
// with the engine by reacting to published events.
package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"wallettrack/internal/events"
	"wallettrack/internal/export"
)

// ExportWorker downloads a fresh CSV export from the API whenever a
// projection recompute is announced, so the snapshot on disk always
// reflects the latest ledger state.
type ExportWorker struct {
	client    *http.Client
	baseURL   string
	exportDir string
}

func NewExportWorker(baseURL, exportDir string) *ExportWorker {
	return &ExportWorker{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		exportDir: exportDir,
	}
}

// HandleEvent reacts to a single published event. Ledger mutations are
// logged only; the recompute event is what marks the projections (and
// therefore the export) as settled.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeProjectionRecomputed:
		slog.InfoContext(ctx, "Projection recomputed, refreshing export snapshot",
			"view", event.View,
			"currency", event.Currency)
		return w.RefreshSnapshot(ctx)
	case events.TypeTransactionAdded, events.TypeTransactionRemoved:
		slog.DebugContext(ctx, "Ledger mutation observed", "type", event.Type, "id", event.TransactionID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event type", "type", event.Type)
		return nil
	}
}

// RefreshSnapshot downloads the current CSV export and writes it to the
// export directory. The write goes through a temp file so readers never
// observe a partial snapshot.
func (w *ExportWorker) RefreshSnapshot(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/export.csv", nil)
	if err != nil {
		return fmt.Errorf("build export request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download export: unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	target := filepath.Join(w.exportDir, export.CSVFilename)
	tmp, err := os.CreateTemp(w.exportDir, export.CSVFilename+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Export snapshot refreshed", "path", target)
	return nil
}
