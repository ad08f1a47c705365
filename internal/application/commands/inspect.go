package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"esxforge/internal/application"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// InspectResult contains the summary and outline of a plugin
type InspectResult struct {
	Plugin  *domain.Plugin
	Summary string
	Outline *domain.OutlineNode
	Message string
}

// InspectCommand loads a plugin and describes it
type InspectCommand struct {
	store ports.PluginStore
	Path  string
}

// NewInspectCommand creates a new InspectCommand
func NewInspectCommand(store ports.PluginStore, path string) *InspectCommand {
	return &InspectCommand{store: store, Path: path}
}

// Validate checks if the inspect operation is valid
func (c *InspectCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute runs the inspect command
func (c *InspectCommand) Execute(ctx context.Context) (*InspectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}

	quests := p.Quests()
	return &InspectResult{
		Plugin:  p,
		Summary: application.Summarize(p),
		Outline: application.BuildOutline(p, filepath.Base(c.Path)),
		Message: fmt.Sprintf("%s: %d groups, %d records, %d quests",
			c.Path, len(p.Groups()), len(p.Records()), len(quests)),
	}, nil
}
