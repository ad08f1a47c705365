package commands

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"esxforge/internal/application"
	"esxforge/internal/codec"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// PluginContentType is the content type of uploaded plugins
const PluginContentType = "application/xml"

// PublishResult contains the uploaded artifact
type PublishResult struct {
	Info    domain.ArtifactInfo
	Message string
}

// PublishCommand uploads an encoded plugin to an artifact store.
// Plugins that fail validation are refused unless Force is set.
type PublishCommand struct {
	store     ports.PluginStore
	artifacts ports.ArtifactStore
	Path      string
	Key       string // defaults to the file name
	Indent    bool
	Force     bool
}

// NewPublishCommand creates a new PublishCommand
func NewPublishCommand(store ports.PluginStore, artifacts ports.ArtifactStore, path string) *PublishCommand {
	return &PublishCommand{store: store, artifacts: artifacts, Path: path}
}

// Validate checks if the publish operation is valid
func (c *PublishCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute runs the publish command
func (c *PublishCommand) Execute(ctx context.Context) (*PublishResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}

	if check := CheckPlugin(p); !check.Valid() && !c.Force {
		reasons := make([]string, len(check.Problems))
		for i, problem := range check.Problems {
			reasons[i] = problem.String()
		}
		return nil, fmt.Errorf("%w: refusing to publish invalid plugin: %s",
			application.ErrInvalidOperation, strings.Join(reasons, "; "))
	}

	var buf bytes.Buffer
	if err := codec.EncodePlugin(&buf, p, codec.Options{Indent: c.Indent}); err != nil {
		return nil, fmt.Errorf("failed to encode plugin: %w", err)
	}

	key := c.Key
	if key == "" {
		key = filepath.Base(c.Path)
	}
	info, err := c.artifacts.Put(ctx, key, &buf, PluginContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to publish plugin: %w", err)
	}

	return &PublishResult{
		Info:    info,
		Message: fmt.Sprintf("Published %s to %s:%s (%d bytes)", c.Path, c.artifacts.Driver(), info.Key, info.Size),
	}, nil
}
