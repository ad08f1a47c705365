package sqlite

import (
	"database/sql"

	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertPlugin inserts or updates a plugin row
func (t *indexTx) UpsertPlugin(p *domain.IndexedPlugin) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO plugins (path, version, records, mtime)
		VALUES (?, ?, ?, ?)
	`, p.Path, nullString(p.Version), p.Records, p.Mtime)
	return err
}

// DeletePlugin removes a plugin and everything cataloged from it
func (t *indexTx) DeletePlugin(path string) error {
	for _, stmt := range []string{
		`DELETE FROM plugins WHERE path = ?`,
		`DELETE FROM records WHERE plugin_path = ?`,
		`DELETE FROM aliases WHERE plugin_path = ?`,
		`DELETE FROM targets WHERE plugin_path = ?`,
	} {
		if _, err := t.tx.Exec(stmt, path); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecord adds a record row
func (t *indexTx) InsertRecord(r *domain.IndexedRecord) error {
	_, err := t.tx.Exec(`
		INSERT INTO records (plugin_path, form_id, tag, editor_id, name)
		VALUES (?, ?, ?, ?, ?)
	`, r.PluginPath, int64(r.FormID), r.Tag, nullString(r.EditorID), nullString(r.Name))
	return err
}

// InsertAlias adds an alias row
func (t *indexTx) InsertAlias(a *domain.IndexedAlias) error {
	_, err := t.tx.Exec(`
		INSERT INTO aliases (plugin_path, quest_editor_id, alias_id, name, flags)
		VALUES (?, ?, ?, ?, ?)
	`, a.PluginPath, a.QuestEditorID, int64(a.AliasID), nullString(a.Name), nullString(a.Flags))
	return err
}

// InsertTarget adds an objective target row
func (t *indexTx) InsertTarget(target *domain.AliasTarget) error {
	_, err := t.tx.Exec(`
		INSERT INTO targets (plugin_path, quest_editor_id, objective_index, objective_name, alias_id, conditions)
		VALUES (?, ?, ?, ?, ?, ?)
	`, target.PluginPath, target.QuestEditorID, target.ObjectiveIndex, nullString(target.ObjectiveName),
		int64(target.AliasID), target.Conditions)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
