package commands

import (
	"context"
	"fmt"
	"time"

	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// IndexResult contains the statistics of an index run
type IndexResult struct {
	Stats   *domain.SyncStats
	Full    bool
	Message string
}

// IndexCommand catalogs plugins into the index: one plugin when Path is set,
// otherwise the whole plugin directory. Directory runs are incremental unless
// Full is set or the index needs a rebuild.
type IndexCommand struct {
	index ports.PluginIndex
	store ports.PluginStore
	Path  string
	Full  bool
}

// NewIndexCommand creates a new IndexCommand. The index must already be open.
func NewIndexCommand(index ports.PluginIndex, store ports.PluginStore) *IndexCommand {
	return &IndexCommand{index: index, store: store}
}

// Execute runs the index command
func (c *IndexCommand) Execute(ctx context.Context) (*IndexResult, error) {
	if c.Path != "" {
		return c.indexOne(ctx)
	}

	full := c.Full || c.index.NeedsFullRebuild()
	var (
		stats *domain.SyncStats
		err   error
	)
	if full {
		stats, err = c.index.SyncFull()
	} else {
		stats, err = c.index.SyncIncremental()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sync index: %w", err)
	}

	return &IndexResult{
		Stats: stats,
		Full:  full,
		Message: fmt.Sprintf("Indexed %d plugins (%d added, %d updated, %d removed, %d failed) in %s",
			stats.FilesScanned, stats.PluginsAdded, stats.PluginsUpdated, stats.PluginsRemoved,
			stats.PluginsFailed, stats.Duration.Round(time.Millisecond)),
	}, nil
}

// indexOne catalogs a single plugin. It is stored without an mtime,
// so the next directory sync refreshes it.
func (c *IndexCommand) indexOne(ctx context.Context) (*IndexResult, error) {
	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}
	if err := c.index.IndexPlugin(c.Path, p, 0); err != nil {
		return nil, err
	}

	stats := &domain.SyncStats{FilesScanned: 1, PluginsAdded: 1, RecordsIndexed: len(p.Records())}
	for _, q := range p.Quests() {
		stats.AliasesIndexed += len(q.Aliases)
		for _, o := range q.Objectives {
			stats.TargetsIndexed += len(o.Targets)
		}
	}
	return &IndexResult{
		Stats:   stats,
		Message: fmt.Sprintf("Indexed %s: %d records, %d aliases", c.Path, stats.RecordsIndexed, stats.AliasesIndexed),
	}, nil
}
