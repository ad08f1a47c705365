package ports

import "esxforge/internal/domain"

// PluginIndex provides cached lookups across a directory of plugins.
// All query operations should be O(1) or O(log n) via database indexes.
type PluginIndex interface {
	// Lifecycle
	Open(pluginDir string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncIncremental() (*domain.SyncStats, error)
	SyncFull() (*domain.SyncStats, error)
	IndexPlugin(relPath string, p *domain.Plugin, mtime int64) error
	RemovePlugin(relPath string) error

	// Record queries
	ListPlugins() ([]domain.IndexedPlugin, error)
	FindByEditorID(editorID string) ([]domain.IndexedRecord, error)
	FindByFormID(id domain.FormID) ([]domain.IndexedRecord, error)
	UsedFormIDs(pluginPath string) ([]domain.FormID, error)

	// Alias queries
	FindAliasTargets(aliasID domain.FormID) ([]domain.AliasTarget, error)

	// Batch updates
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic cache updates
type IndexTx interface {
	// Plugin operations
	UpsertPlugin(p *domain.IndexedPlugin) error
	DeletePlugin(path string) error

	// Content operations, scoped to one plugin path
	InsertRecord(r *domain.IndexedRecord) error
	InsertAlias(a *domain.IndexedAlias) error
	InsertTarget(t *domain.AliasTarget) error

	// Transaction control
	Commit() error
	Rollback() error
}
