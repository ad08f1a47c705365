package commands

import (
	"context"
	"fmt"

	"esxforge/internal/application"
	"esxforge/internal/codec"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// DefaultCloneSuffix is appended to the display name of a cloned quest
const DefaultCloneSuffix = " - Copy"

// CloneQuestResult contains the result of cloning a quest
type CloneQuestResult struct {
	Quest   *domain.Quest
	FormID  domain.FormID
	Message string
}

// CloneQuestCommand deep-copies a quest under a new editor id and form id.
// Alias ids are quest-local and kept as they are.
type CloneQuestCommand struct {
	store       ports.PluginStore
	Path        string
	SourceID    string // editor id of the quest to copy
	NewEditorID string
	FormID      string // optional hex id; empty allocates the first free one
	NameSuffix  string
	OutputPath  string // defaults to Path
	Indent      bool
}

// NewCloneQuestCommand creates a new CloneQuestCommand
func NewCloneQuestCommand(store ports.PluginStore, path, sourceID, newEditorID string) *CloneQuestCommand {
	return &CloneQuestCommand{
		store:       store,
		Path:        path,
		SourceID:    sourceID,
		NewEditorID: newEditorID,
		NameSuffix:  DefaultCloneSuffix,
		Indent:      true,
	}
}

// Validate checks if the clone operation is valid
func (c *CloneQuestCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	if err := application.ValidateRequired("editorID", c.SourceID); err != nil {
		return err
	}
	if err := application.ValidateRequired("newEditorID", c.NewEditorID); err != nil {
		return err
	}
	if c.SourceID == c.NewEditorID {
		return &application.ValidationError{
			Field:   "newEditorID",
			Message: fmt.Sprintf("new editor ID must differ from %s", c.SourceID),
		}
	}
	return application.ValidateFormID("formID", c.FormID)
}

// Execute runs the clone command
func (c *CloneQuestCommand) Execute(ctx context.Context) (*CloneQuestResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}

	clone, id, err := CloneQuest(p, c.SourceID, c.NewEditorID, c.FormID, c.NameSuffix)
	if err != nil {
		return nil, err
	}

	out := c.OutputPath
	if out == "" {
		out = c.Path
	}
	if err := c.store.Save(ctx, out, p, codec.Options{Indent: c.Indent}); err != nil {
		return nil, fmt.Errorf("failed to save plugin: %w", err)
	}

	return &CloneQuestResult{
		Quest:   clone,
		FormID:  id,
		Message: fmt.Sprintf("Cloned %s to %s [%s]", c.SourceID, c.NewEditorID, id),
	}, nil
}

// CloneQuest copies the source quest into the same group. The new form id comes
// from an allocator seeded with every id already in the plugin.
func CloneQuest(p *domain.Plugin, sourceID, newEditorID, formID, nameSuffix string) (*domain.Quest, domain.FormID, error) {
	src := p.Quest(sourceID)
	if src == nil {
		return nil, 0, &application.NotFoundError{Kind: "quest", Key: sourceID}
	}
	if p.Quest(newEditorID) != nil {
		return nil, 0, &domain.ConflictError{Identifier: newEditorID, Kind: "editor id"}
	}

	alloc := domain.NewESLAllocator()
	application.SeedAllocator(alloc, p)

	var (
		id  domain.FormID
		err error
	)
	if formID != "" {
		id, err = alloc.ReserveString(formID)
	} else {
		id, err = alloc.Next()
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to allocate quest id: %w", err)
	}

	clone := domain.WrapQuest(src.Node().Clone())
	clone.SetFormID(id)
	clone.SetEditorID(newEditorID)
	if name := src.FullName(); name != "" {
		clone.SetFullName(name + nameSuffix)
	}
	if err := codec.Reconstruct(clone); err != nil {
		return nil, 0, err
	}

	var group *domain.Group
	for _, g := range p.Groups() {
		if g.Node() == src.Node().Parent() {
			group = g
			break
		}
	}
	if group == nil {
		group = p.GetOrCreateGroup(domain.QuestGroupLabel, "0")
	}
	group.AddRecord(clone)

	if p.Header() != nil {
		if err := p.SyncHeader(alloc); err != nil {
			return nil, 0, err
		}
	}
	return clone, id, nil
}
