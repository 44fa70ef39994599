package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bag2csv/internal/bag"
	"bag2csv/internal/config"
	"bag2csv/internal/model"
	"bag2csv/internal/table"
)

// Merger combines the exported tables of each recording group into one
// time-ordered table per group. Groups merge independently; a failing
// group is recorded in the report and the rest carry on.
type Merger struct {
	cfg config.Config
	log *slog.Logger
}

// NewMerger returns a merger for cfg.
func NewMerger(cfg config.Config, log *slog.Logger) *Merger {
	return &Merger{cfg: cfg, log: log}
}

// Run locates every recording group under the configured root and merges
// the matching table files found there.
func (m *Merger) Run(ctx context.Context) (*model.Report, error) {
	report := &model.Report{RunID: uuid.NewString()}
	log := m.log.With("run", report.RunID)

	found, _, err := bag.Discover(os.DirFS(m.cfg.Root))
	if err != nil {
		return report, fmt.Errorf("discover recordings: %w", err)
	}

	seen := make(map[string]bool)
	var groups []string
	for _, rel := range found {
		dir := groupDir(filepath.Join(m.cfg.Root, filepath.FromSlash(rel)))
		if !seen[dir] {
			seen[dir] = true
			groups = append(groups, dir)
		}
	}

	workers := m.cfg.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	log.Info("starting merge",
		"root", m.cfg.Root,
		"groups", len(groups),
		"match", m.cfg.Merge.Match,
		"workers", workers)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)
	for _, dir := range groups {
		dir := dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := m.mergeGroup(ctx, dir)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("merge failed", "dir", dir, "error", err)
				report.Failures = append(report.Failures, model.Failure{Bag: dir, Err: err.Error()})
				return nil
			}
			if out != "" {
				log.Info("merged table written", "output", out)
				report.Merged++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	log.Info("merge finished", "merged", report.Merged, "failures", len(report.Failures))
	return report, nil
}

// mergeGroup merges the matching tables of one group directory and writes
// the result there. It returns the written path, or "" when the directory
// holds nothing to merge. A table that fails to read fails the whole group.
func (m *Merger) mergeGroup(ctx context.Context, dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list group %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m.isMergeCandidate(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		m.log.Debug("nothing to merge", "dir", dir)
		return "", nil
	}

	tables := make([]*table.Table, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		t, err := table.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		tables = append(tables, t)
	}

	out := filepath.Join(dir, compressedName(m.cfg.Merge.Output, m.cfg.Compress))
	if err := table.WriteFile(out, table.Merge(tables...)); err != nil {
		return "", err
	}
	return out, nil
}

// isMergeCandidate selects table files to merge: CSVs matching the
// configured substring, never the merge output itself.
func (m *Merger) isMergeCandidate(name string) bool {
	if name == m.cfg.Merge.Output || name == m.cfg.Merge.Output+table.CompressedExt {
		return false
	}
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".csv"+table.CompressedExt) {
		return false
	}
	return strings.Contains(name, m.cfg.Merge.Match)
}
