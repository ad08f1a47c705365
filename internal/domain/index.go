package domain

import "time"

// IndexedPlugin represents a cataloged plugin file
type IndexedPlugin struct {
	Path    string // Relative path from the plugin directory (primary key)
	Version string
	Records int
	Mtime   int64 // Unix timestamp for incremental sync
}

// IndexedRecord represents a cataloged record of a plugin
type IndexedRecord struct {
	PluginPath string
	FormID     FormID
	Tag        string
	EditorID   string
	Name       string // FULL text for quests
}

// IndexedAlias represents a cataloged quest alias
type IndexedAlias struct {
	PluginPath    string
	QuestEditorID string
	AliasID       FormID
	Name          string
	Flags         string
}

// AliasTarget records that an objective targets an alias
type AliasTarget struct {
	PluginPath     string
	QuestEditorID  string
	ObjectiveIndex int
	ObjectiveName  string
	AliasID        FormID
	Conditions     int
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	PluginsAdded   int
	PluginsUpdated int
	PluginsRemoved int
	PluginsFailed  int
	RecordsIndexed int
	AliasesIndexed int
	TargetsIndexed int
	FilesScanned   int
	Duration       time.Duration
}

// ArtifactInfo describes a published plugin object
type ArtifactInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}
