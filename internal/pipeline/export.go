// Package pipeline runs the batch jobs: exporting recordings to tables and
// merging exported tables per recording group.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bag2csv/internal/bag"
	"bag2csv/internal/config"
	"bag2csv/internal/model"
	"bag2csv/internal/table"
)

// Exporter converts every discovered recording according to the configured
// conversions. Recordings are processed in parallel; a failing conversion
// is recorded in the report and never aborts the rest of the batch.
type Exporter struct {
	cfg config.Config
	log *slog.Logger
}

// NewExporter returns an exporter for cfg.
func NewExporter(cfg config.Config, log *slog.Logger) *Exporter {
	return &Exporter{cfg: cfg, log: log}
}

// Run discovers recordings under the configured root and exports every
// (recording, conversion) pair. The returned report is valid even when err
// is non-nil, which happens only on discovery failure or cancellation.
func (e *Exporter) Run(ctx context.Context) (*model.Report, error) {
	report := &model.Report{RunID: uuid.NewString()}
	log := e.log.With("run", report.RunID)

	found, ignored, err := bag.Discover(os.DirFS(e.cfg.Root))
	if err != nil {
		return report, fmt.Errorf("discover recordings: %w", err)
	}
	for _, rel := range ignored {
		log.Debug("recording opted out", "bag", rel)
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	log.Info("starting export",
		"root", e.cfg.Root,
		"recordings", len(found),
		"conversions", len(e.cfg.Conversions),
		"workers", workers)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)
	for _, rel := range found {
		bagPath := filepath.Join(e.cfg.Root, filepath.FromSlash(rel))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.convertRecording(ctx, log, bagPath, report, &mu)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	log.Info("export finished",
		"converted", report.Converted,
		"skipped", report.Skipped,
		"failures", len(report.Failures))
	return report, nil
}

// convertRecording runs every configured conversion against one recording.
// An unopenable recording is a skip, not a failure: it counts in the report
// but produces no failure entries.
func (e *Exporter) convertRecording(ctx context.Context, log *slog.Logger, bagPath string, rep *model.Report, mu *sync.Mutex) {
	r, err := bag.Open(bagPath)
	if err != nil {
		log.Warn("skipping unreadable recording", "bag", bagPath, "error", err)
		mu.Lock()
		rep.Skipped++
		mu.Unlock()
		return
	}
	defer r.Close()

	for _, conv := range e.cfg.Conversions {
		if ctx.Err() != nil {
			return
		}
		out, err := e.convertTopic(ctx, log, r, bagPath, conv)
		if err != nil {
			log.Error("conversion failed", "bag", bagPath, "topic", conv.Topic, "error", err)
			mu.Lock()
			rep.Failures = append(rep.Failures, model.Failure{
				Bag:   bagPath,
				Topic: conv.Topic,
				Err:   err.Error(),
			})
			mu.Unlock()
			continue
		}
		log.Info("table written", "bag", bagPath, "topic", conv.Topic, "output", out)
		mu.Lock()
		rep.Converted++
		mu.Unlock()
	}
}

// convertTopic reads one topic, flattens it into a table and writes the
// table into the recording's group directory. A topic with no messages
// still writes its header so downstream merges see the file.
func (e *Exporter) convertTopic(ctx context.Context, log *slog.Logger, r *bag.Reader, bagPath string, conv model.Conversion) (string, error) {
	msgs, undecodable, err := r.ReadTopic(ctx, conv.Topic)
	if err != nil {
		return "", err
	}
	if undecodable > 0 {
		log.Warn("undecodable messages dropped",
			"bag", bagPath,
			"topic", conv.Topic,
			"count", undecodable)
	}

	b := table.NewBuilder(e.cfg.Flattener(), conv.Prefix)
	for _, m := range msgs {
		if err := b.Append(m.Timestamp, m.Record); err != nil {
			return "", fmt.Errorf("message at %d: %w", m.Timestamp, err)
		}
	}

	out := outputPath(bagPath, conv.Output, e.cfg.Compress)
	if err := table.WriteFile(out, b.Table()); err != nil {
		return "", err
	}
	return out, nil
}
