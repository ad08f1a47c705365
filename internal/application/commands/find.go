package commands

import (
	"context"
	"fmt"

	"esxforge/internal/application"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// FindResult contains index matches
type FindResult struct {
	Records []domain.IndexedRecord
	Targets []domain.AliasTarget
	Message string
}

// FindCommand queries the index by editor id, by form id, or by alias id
// to list the objectives that target an alias. Exactly one key must be set.
type FindCommand struct {
	index    ports.PluginIndex
	EditorID string
	FormID   string
	AliasID  string
}

// NewFindCommand creates a new FindCommand
func NewFindCommand(index ports.PluginIndex) *FindCommand {
	return &FindCommand{index: index}
}

// Validate checks if the find operation is valid
func (c *FindCommand) Validate() error {
	set := 0
	for _, v := range []string{c.EditorID, c.FormID, c.AliasID} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return &application.ValidationError{
			Field:   "key",
			Message: "exactly one of editor ID, form ID or alias ID is required",
		}
	}
	if err := application.ValidateFormID("formID", c.FormID); err != nil {
		return err
	}
	return application.ValidateFormID("aliasID", c.AliasID)
}

// Execute runs the find command
func (c *FindCommand) Execute(ctx context.Context) (*FindResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &FindResult{}
	switch {
	case c.EditorID != "":
		records, err := c.index.FindByEditorID(c.EditorID)
		if err != nil {
			return nil, err
		}
		result.Records = records
		result.Message = fmt.Sprintf("%d records with editor id %s", len(records), c.EditorID)

	case c.FormID != "":
		id, _ := domain.ParseFormID(c.FormID)
		records, err := c.index.FindByFormID(id)
		if err != nil {
			return nil, err
		}
		result.Records = records
		result.Message = fmt.Sprintf("%d records with form id %s", len(records), id)

	default:
		id, _ := domain.ParseFormID(c.AliasID)
		targets, err := c.index.FindAliasTargets(id)
		if err != nil {
			return nil, err
		}
		result.Targets = targets
		result.Message = fmt.Sprintf("%d objectives target alias %d", len(targets), id)
	}
	return result, nil
}
