package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"esxforge/internal/codec"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// PluginExtensions are the file suffixes treated as plugin documents
var PluginExtensions = []string{".esx", ".xml"}

// Repository implements ports.PluginStore using the filesystem.
// Relative paths resolve against the plugin directory.
type Repository struct {
	dir string
}

var _ ports.PluginDirectory = (*Repository)(nil)

// NewRepository creates a new filesystem repository
func NewRepository(dir string) *Repository {
	return &Repository{dir: ExpandHome(dir)}
}

// Dir returns the plugin directory
func (r *Repository) Dir() string { return r.dir }

// Resolve maps a path to its location on disk
func (r *Repository) Resolve(path string) string {
	path = ExpandHome(path)
	if filepath.IsAbs(path) || r.dir == "" {
		return path
	}
	return filepath.Join(r.dir, path)
}

// Load reads and parses a plugin
func (r *Repository) Load(ctx context.Context, path string) (*domain.Plugin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := r.Resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin: %w", err)
	}
	defer f.Close()

	return codec.Decode(f, full)
}

// Save encodes the plugin to a temporary file next to path, syncs it and renames
// it into place. On any failure the temporary file is removed and path is untouched.
func (r *Repository) Save(ctx context.Context, path string, p *domain.Plugin, opts codec.Options) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := r.Resolve(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = codec.EncodePlugin(tmp, p, opts); err != nil {
		return fmt.Errorf("failed to encode plugin: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync plugin: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close plugin: %w", err)
	}
	if err = os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("failed to replace plugin: %w", err)
	}
	return nil
}

// ListPlugins returns plugin files under the directory as sorted relative paths.
// Hidden directories are skipped.
func (r *Repository) ListPlugins() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(r.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if d.IsDir() {
			if path != r.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPluginFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list plugins: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// IsPluginFile reports whether a file name has a plugin extension
func IsPluginFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range PluginExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
