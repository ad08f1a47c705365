package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"esxforge/internal/domain"
	"esxforge/internal/logger"
)

const (
	DefaultPluginDir  = "."
	DefaultConfigFile = "esxforge.yaml"
)

// PluginDir returns the plugin directory from ESXFORGE_DIR,
// falling back to DefaultPluginDir.
func PluginDir() string {
	if env := os.Getenv("ESXFORGE_DIR"); env != "" {
		return env
	}
	return DefaultPluginDir
}

// IndexPath returns the sqlite index path from ESXFORGE_INDEX.
// Empty means one database per plugin directory under the XDG data directory.
func IndexPath() string {
	return os.Getenv("ESXFORGE_INDEX")
}

// ConfigPath returns the YAML config path from ESXFORGE_CONFIG,
// falling back to DefaultConfigFile.
func ConfigPath() string {
	if env := os.Getenv("ESXFORGE_CONFIG"); env != "" {
		return env
	}
	return DefaultConfigFile
}

// Config is the content of esxforge.yaml
type Config struct {
	Log   logger.Config `yaml:"log"`
	Build BuildConfig   `yaml:"build"`
}

// BuildConfig describes a generated plugin
type BuildConfig struct {
	Version string   `yaml:"version"`
	Author  string   `yaml:"author"`
	Masters []string `yaml:"masters"`

	// IDStart and IDEnd bound the allocator, inclusive, as hex
	IDStart string `yaml:"id_start"`
	IDEnd   string `yaml:"id_end"`

	Indent bool       `yaml:"indent"`
	Quests []QuestSet `yaml:"quests"`
}

// QuestSet generates Count quests of the same shape.
//
// Name patterns accept {quest}, {objective} and {target} placeholders,
// optionally zero padded as in {quest:02}.
type QuestSet struct {
	Name                string `yaml:"name"`
	Count               int    `yaml:"count"`
	QuestType           int    `yaml:"quest_type"`
	Objectives          int    `yaml:"objectives"`
	AliasesPerObjective int    `yaml:"aliases_per_objective"`
	EditorID            string `yaml:"editor_id"`
	FullName            string `yaml:"full_name"`
	ObjectiveName       string `yaml:"objective_name"`
	AliasName           string `yaml:"alias_name"`
}

// DefaultConfig returns the Smart Markers generator layout: 20 misc quests
// and 8 regular ones, which fits the light-plugin range.
func DefaultConfig() *Config {
	return &Config{
		Log:   logger.DefaultConfig(),
		Build: DefaultBuildConfig(),
	}
}

// DefaultBuildConfig returns the build section defaults
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Version: domain.DefaultPluginVersion,
		Author:  domain.DefaultAuthor,
		Masters: []string{domain.DefaultMaster},
		IDStart: fmt.Sprintf("%x", uint32(domain.ESLStart)),
		IDEnd:   fmt.Sprintf("%x", uint32(domain.ESLEnd)),
		Quests: []QuestSet{
			{
				Name:                "misc",
				Count:               20,
				QuestType:           6,
				Objectives:          1,
				AliasesPerObjective: 30,
				EditorID:            "MP_SmartMarkers_Misc_{quest:02}",
				FullName:            "Smart Markers Misc {quest}",
				ObjectiveName:       "Misc Objective {objective}",
				AliasName:           "Obj{objective}_Ref{target}",
			},
			{
				Name:                "regular-single",
				Count:               4,
				QuestType:           0,
				Objectives:          1,
				AliasesPerObjective: 15,
				EditorID:            "MP_SmartMarkers_Regular_Single_{quest:02}",
				FullName:            "Smart Markers Regular Single {quest}",
				ObjectiveName:       "Reg Single Objective {objective}",
				AliasName:           "Obj{objective}_Ref{target}",
			},
			{
				Name:                "regular-multi",
				Count:               4,
				QuestType:           0,
				Objectives:          15,
				AliasesPerObjective: 15,
				EditorID:            "MP_SmartMarkers_Regular_Multiple_{quest:02}",
				FullName:            "Smart Markers Regular Multi {quest}",
				ObjectiveName:       "Reg Multi Objective {objective}",
				AliasName:           "Obj{objective}_Ref{target}",
			},
		},
	}
}

// Load reads a YAML config file over the defaults.
// A missing file yields the defaults; environment overrides apply to logging either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Log = cfg.Log.ApplyEnv()
			return cfg, nil // Use defaults if file doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Log = cfg.Log.ApplyEnv()

	if err := cfg.Build.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// IDRange parses the allocator bounds
func (b BuildConfig) IDRange() (start, end domain.FormID, err error) {
	start, err = domain.ParseFormID(b.IDStart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id_start: %w", err)
	}
	end, err = domain.ParseFormID(b.IDEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id_end: %w", err)
	}
	return start, end, nil
}

// RequiredFormIDs returns the number of ids every quest set needs together
func (b BuildConfig) RequiredFormIDs() int {
	total := 0
	for _, set := range b.Quests {
		total += set.RequiredFormIDs()
	}
	return total
}

// Validate checks the id range and every quest set
func (b BuildConfig) Validate() error {
	start, end, err := b.IDRange()
	if err != nil {
		return err
	}
	if start > end {
		return fmt.Errorf("id range %s-%s is empty", start, end)
	}
	for i, set := range b.Quests {
		if err := set.Validate(); err != nil {
			return fmt.Errorf("quest set %d: %w", i+1, err)
		}
	}
	return nil
}

// RequiredFormIDs counts the quest, player reference and target alias ids of the set
func (q QuestSet) RequiredFormIDs() int {
	return q.Count * (2 + q.Objectives*q.AliasesPerObjective)
}

// Validate checks counts and patterns
func (q QuestSet) Validate() error {
	switch {
	case q.Count < 1:
		return fmt.Errorf("count must be at least 1")
	case q.Objectives < 1:
		return fmt.Errorf("objectives must be at least 1")
	case q.AliasesPerObjective < 1:
		return fmt.Errorf("aliases_per_objective must be at least 1")
	case q.EditorID == "":
		return fmt.Errorf("editor_id pattern is required")
	}
	return nil
}

// Vars holds the values substituted into name patterns
type Vars struct {
	Quest     int
	Objective int
	Target    int
}

var placeholder = regexp.MustCompile(`\{(quest|objective|target)(?::(0?)(\d+)d?)?\}`)

// Expand substitutes {quest}, {objective} and {target} in pattern.
// A width suffix pads the number, with zeros when it starts with 0.
func Expand(pattern string, v Vars) string {
	return placeholder.ReplaceAllStringFunc(pattern, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)

		var n int
		switch parts[1] {
		case "quest":
			n = v.Quest
		case "objective":
			n = v.Objective
		case "target":
			n = v.Target
		}
		if parts[3] == "" {
			return strconv.Itoa(n)
		}
		width, _ := strconv.Atoi(parts[3])
		if parts[2] == "0" {
			return fmt.Sprintf("%0*d", width, n)
		}
		return fmt.Sprintf("%*d", width, n)
	})
}
