package ports

import (
	"context"

	"esxforge/internal/codec"
	"esxforge/internal/domain"
)

// PluginStore loads and saves plugin documents
type PluginStore interface {
	// Load reads and parses the plugin at path
	Load(ctx context.Context, path string) (*domain.Plugin, error)

	// Save encodes the plugin to path. A failed save leaves no partial file behind.
	Save(ctx context.Context, path string, p *domain.Plugin, opts codec.Options) error
}

// PluginDirectory is a PluginStore rooted at a directory of plugin files
type PluginDirectory interface {
	PluginStore

	// ListPlugins returns plugin paths relative to the directory, sorted
	ListPlugins() ([]string, error)

	// Resolve maps a relative plugin path to its location on disk
	Resolve(path string) string
}
