package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"esxforge/internal/adapters/filesystem"
	"esxforge/internal/codec"
	"esxforge/internal/domain"
	"esxforge/internal/logger"
	"esxforge/internal/ports"
)

// SyncFull performs a complete rebuild of the index
func (idx *Index) SyncFull() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	// Clear existing data
	for _, table := range []string{"plugins", "records", "aliases", "targets"} {
		if _, err := idx.db.Exec(`DELETE FROM ` + table); err != nil {
			return nil, err
		}
	}

	err := idx.walkPlugins(func(relPath string, info os.FileInfo) {
		stats.FilesScanned++
		if idx.indexFile(relPath, info, stats) {
			stats.PluginsAdded++
		}
	})
	if err != nil {
		return stats, err
	}

	idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('plugin_dir_hash', ?)`,
		hashPluginDir(idx.pluginDir))
	idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())

	stats.Duration = time.Since(start)
	return stats, nil
}

// SyncIncremental re-indexes plugins whose mtime changed and drops removed ones
func (idx *Index) SyncIncremental() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	// Track existing paths to detect changes and deletions
	existing := make(map[string]int64)
	rows, err := idx.db.Query(`SELECT path, mtime FROM plugins`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var mtime int64
		rows.Scan(&path, &mtime)
		existing[path] = mtime
	}
	rows.Close()

	seen := make(map[string]bool)

	err = idx.walkPlugins(func(relPath string, info os.FileInfo) {
		seen[relPath] = true
		stats.FilesScanned++

		mtime, known := existing[relPath]
		if known && mtime == info.ModTime().Unix() {
			return
		}
		if !idx.indexFile(relPath, info, stats) {
			return
		}
		if known {
			stats.PluginsUpdated++
		} else {
			stats.PluginsAdded++
		}
	})
	if err != nil {
		return stats, err
	}

	// Delete plugins that no longer exist
	for path := range existing {
		if seen[path] {
			continue
		}
		if err := idx.RemovePlugin(path); err != nil {
			return stats, err
		}
		stats.PluginsRemoved++
	}

	idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())

	stats.Duration = time.Since(start)
	return stats, nil
}

// IndexPlugin replaces everything cataloged for relPath with the plugin's content
func (idx *Index) IndexPlugin(relPath string, p *domain.Plugin, mtime int64) error {
	tx, err := idx.BeginTx()
	if err != nil {
		return err
	}

	if err := fillPlugin(tx, relPath, p, mtime); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to index %s: %w", relPath, err)
	}
	return tx.Commit()
}

// RemovePlugin drops a plugin from the index
func (idx *Index) RemovePlugin(relPath string) error {
	tx, err := idx.BeginTx()
	if err != nil {
		return err
	}
	if err := tx.DeletePlugin(relPath); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func fillPlugin(tx ports.IndexTx, relPath string, p *domain.Plugin, mtime int64) error {
	if err := tx.DeletePlugin(relPath); err != nil {
		return err
	}

	records := p.Records()
	if err := tx.UpsertPlugin(&domain.IndexedPlugin{
		Path:    relPath,
		Version: p.Version(),
		Records: len(records),
		Mtime:   mtime,
	}); err != nil {
		return err
	}

	for _, r := range records {
		id, err := r.FormID()
		if err != nil {
			continue
		}
		name, _ := r.Field(domain.TagFULL)
		if err := tx.InsertRecord(&domain.IndexedRecord{
			PluginPath: relPath,
			FormID:     id,
			Tag:        r.Tag(),
			EditorID:   r.EditorID(),
			Name:       name,
		}); err != nil {
			return err
		}
	}

	for _, q := range p.Quests() {
		for _, a := range q.Aliases {
			if err := tx.InsertAlias(&domain.IndexedAlias{
				PluginPath:    relPath,
				QuestEditorID: q.EditorID(),
				AliasID:       a.ID,
				Name:          a.Name,
				Flags:         a.Flags,
			}); err != nil {
				return err
			}
		}
		for _, o := range q.Objectives {
			for _, t := range o.Targets {
				if err := tx.InsertTarget(&domain.AliasTarget{
					PluginPath:     relPath,
					QuestEditorID:  q.EditorID(),
					ObjectiveIndex: o.Index,
					ObjectiveName:  o.Name,
					AliasID:        t.AliasID,
					Conditions:     len(t.Conditions),
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// indexFile parses and catalogs one file. Parse failures are counted and logged, not returned.
func (idx *Index) indexFile(relPath string, info os.FileInfo, stats *domain.SyncStats) bool {
	p, err := loadPlugin(filepath.Join(idx.pluginDir, relPath))
	if err != nil {
		stats.PluginsFailed++
		logger.Warning("skipping plugin", "path", relPath, "error", err)
		return false
	}
	if err := idx.IndexPlugin(relPath, p, info.ModTime().Unix()); err != nil {
		stats.PluginsFailed++
		logger.Warning("failed to index plugin", "path", relPath, "error", err)
		return false
	}

	stats.RecordsIndexed += len(p.Records())
	for _, q := range p.Quests() {
		stats.AliasesIndexed += len(q.Aliases)
		for _, o := range q.Objectives {
			stats.TargetsIndexed += len(o.Targets)
		}
	}
	return true
}

func (idx *Index) walkPlugins(fn func(relPath string, info os.FileInfo)) error {
	return filepath.Walk(idx.pluginDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		// Skip hidden directories
		if info.IsDir() {
			if path != idx.pluginDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !filesystem.IsPluginFile(info.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(idx.pluginDir, path)
		if err != nil {
			return nil
		}
		fn(relPath, info)
		return nil
	})
}

func loadPlugin(path string) (*domain.Plugin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return codec.Decode(f, path)
}

// nullString returns nil for empty strings (for nullable columns)
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
