package commands

import (
	"context"
	"fmt"

	"esxforge/internal/application"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// Problem is one violation found in a plugin
type Problem struct {
	Record string // quest editor id, or TES4 for plugin-wide problems
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Record, p.Reason)
}

// ValidateResult contains the outcome of validating a plugin
type ValidateResult struct {
	ESL      domain.ESLReport
	Problems []Problem
	Message  string
}

// Valid reports whether no problem was found
func (r *ValidateResult) Valid() bool {
	return len(r.Problems) == 0
}

// ValidateCommand checks a plugin for light-plugin compatibility and
// quest referential integrity. Problems are reported in the result;
// an error is returned only when the plugin cannot be loaded.
type ValidateCommand struct {
	store ports.PluginStore
	Path  string
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(store ports.PluginStore, path string) *ValidateCommand {
	return &ValidateCommand{store: store, Path: path}
}

// Validate checks if the validate operation is valid
func (c *ValidateCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute runs the validate command
func (c *ValidateCommand) Execute(ctx context.Context) (*ValidateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}

	result := CheckPlugin(p)
	if result.Valid() {
		result.Message = fmt.Sprintf("%s is valid (%d form ids)", c.Path, result.ESL.Count)
	} else {
		result.Message = fmt.Sprintf("%s has %d problems", c.Path, len(result.Problems))
	}
	return result, nil
}

// CheckPlugin runs every plugin and quest check
func CheckPlugin(p *domain.Plugin) *ValidateResult {
	result := &ValidateResult{ESL: p.ESLCompatibility()}

	for _, reason := range result.ESL.Problems {
		result.Problems = append(result.Problems, Problem{Record: domain.TagTES4, Reason: reason})
	}
	for _, q := range p.Quests() {
		for _, se := range domain.StructuralErrors(domain.ValidateForOutput(q)) {
			result.Problems = append(result.Problems, Problem{Record: se.Record, Reason: se.Reason})
		}
	}
	return result
}
