package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"esxforge/internal/adapters/filesystem"
	"esxforge/internal/domain"
	"esxforge/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.PluginIndex using SQLite
type Index struct {
	db        *sql.DB
	pluginDir string
	dbPath    string
}

// Ensure Index implements PluginIndex
var _ ports.PluginIndex = (*Index)(nil)

// NewIndex creates a new SQLite index. An empty dbPath stores the database
// under the XDG data directory, one file per plugin directory.
func NewIndex(dbPath string) *Index {
	return &Index{dbPath: dbPath}
}

// Open initializes the index for the given plugin directory
func (idx *Index) Open(pluginDir string) error {
	idx.pluginDir = filesystem.ExpandHome(pluginDir)
	if idx.dbPath == "" {
		idx.dbPath = databasePath(idx.pluginDir)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS plugins (
			path TEXT PRIMARY KEY,
			version TEXT,
			records INTEGER NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS records (
			plugin_path TEXT NOT NULL,
			form_id INTEGER NOT NULL,
			tag TEXT NOT NULL,
			editor_id TEXT,
			name TEXT
		);
		CREATE TABLE IF NOT EXISTS aliases (
			plugin_path TEXT NOT NULL,
			quest_editor_id TEXT NOT NULL,
			alias_id INTEGER NOT NULL,
			name TEXT,
			flags TEXT
		);
		CREATE TABLE IF NOT EXISTS targets (
			plugin_path TEXT NOT NULL,
			quest_editor_id TEXT NOT NULL,
			objective_index INTEGER NOT NULL,
			objective_name TEXT,
			alias_id INTEGER NOT NULL,
			conditions INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_editor_id ON records(editor_id);
		CREATE INDEX IF NOT EXISTS idx_records_form_id ON records(form_id);
		CREATE INDEX IF NOT EXISTS idx_records_plugin ON records(plugin_path);
		CREATE INDEX IF NOT EXISTS idx_aliases_plugin ON aliases(plugin_path);
		CREATE INDEX IF NOT EXISTS idx_targets_alias ON targets(alias_id);
		CREATE INDEX IF NOT EXISTS idx_targets_plugin ON targets(plugin_path);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	// Update metadata
	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file path
func (idx *Index) Path() string { return idx.dbPath }

// NeedsFullRebuild returns true if the index should be fully rebuilt
func (idx *Index) NeedsFullRebuild() bool {
	var version, dirHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'plugin_dir_hash'").Scan(&dirHash)

	return version != schemaVersion || dirHash != hashPluginDir(idx.pluginDir)
}

// databasePath returns the path for the SQLite database
func databasePath(pluginDir string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "esxforge", hashPluginDir(pluginDir)+".db")
}

// hashPluginDir returns a short hash of the plugin directory
func hashPluginDir(pluginDir string) string {
	h := sha256.Sum256([]byte(pluginDir))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta records the schema version. The directory hash is written by the
// first full sync, so a fresh or moved database reports NeedsFullRebuild.
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
	`, schemaVersion)
	return err
}

// ListPlugins returns every indexed plugin ordered by path
func (idx *Index) ListPlugins() ([]domain.IndexedPlugin, error) {
	rows, err := idx.db.Query(`SELECT path, version, records, mtime FROM plugins ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plugins []domain.IndexedPlugin
	for rows.Next() {
		var p domain.IndexedPlugin
		var version sql.NullString
		if err := rows.Scan(&p.Path, &version, &p.Records, &p.Mtime); err != nil {
			return nil, err
		}
		p.Version = version.String
		plugins = append(plugins, p)
	}
	return plugins, rows.Err()
}

// FindByEditorID returns every record with the editor id across all plugins
func (idx *Index) FindByEditorID(editorID string) ([]domain.IndexedRecord, error) {
	return idx.queryRecords(`
		SELECT plugin_path, form_id, tag, editor_id, name
		FROM records WHERE editor_id = ?
		ORDER BY plugin_path, form_id
	`, editorID)
}

// FindByFormID returns every record with the form id across all plugins
func (idx *Index) FindByFormID(id domain.FormID) ([]domain.IndexedRecord, error) {
	return idx.queryRecords(`
		SELECT plugin_path, form_id, tag, editor_id, name
		FROM records WHERE form_id = ?
		ORDER BY plugin_path
	`, int64(id))
}

func (idx *Index) queryRecords(query string, args ...any) ([]domain.IndexedRecord, error) {
	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.IndexedRecord
	for rows.Next() {
		var r domain.IndexedRecord
		var formID int64
		var editorID, name sql.NullString
		if err := rows.Scan(&r.PluginPath, &formID, &r.Tag, &editorID, &name); err != nil {
			return nil, err
		}
		r.FormID = domain.FormID(formID)
		r.EditorID = editorID.String
		r.Name = name.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// UsedFormIDs returns the record and alias ids of one plugin in ascending order
func (idx *Index) UsedFormIDs(pluginPath string) ([]domain.FormID, error) {
	rows, err := idx.db.Query(`
		SELECT form_id FROM records WHERE plugin_path = ?
		UNION
		SELECT alias_id FROM aliases WHERE plugin_path = ?
		ORDER BY 1
	`, pluginPath, pluginPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []domain.FormID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, domain.FormID(id))
	}
	return ids, rows.Err()
}

// FindAliasTargets returns every objective target pointing at the alias id
func (idx *Index) FindAliasTargets(aliasID domain.FormID) ([]domain.AliasTarget, error) {
	rows, err := idx.db.Query(`
		SELECT plugin_path, quest_editor_id, objective_index, objective_name, alias_id, conditions
		FROM targets WHERE alias_id = ?
		ORDER BY plugin_path, quest_editor_id, objective_index
	`, int64(aliasID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []domain.AliasTarget
	for rows.Next() {
		var t domain.AliasTarget
		var id int64
		var objectiveName sql.NullString
		if err := rows.Scan(&t.PluginPath, &t.QuestEditorID, &t.ObjectiveIndex, &objectiveName, &id, &t.Conditions); err != nil {
			return nil, err
		}
		t.ObjectiveName = objectiveName.String
		t.AliasID = domain.FormID(id)
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
