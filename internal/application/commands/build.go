package commands

import (
	"context"
	"fmt"

	"esxforge/internal/application"
	"esxforge/internal/codec"
	"esxforge/internal/config"
	"esxforge/internal/domain"
	"esxforge/internal/logger"
	"esxforge/internal/ports"
)

const (
	defaultObjectiveName = "Objective {objective}"
	defaultAliasName     = "Obj{objective}_Ref{target}"
)

// BuildResult contains the outcome of generating a plugin
type BuildResult struct {
	Plugin       *domain.Plugin
	Quests       int
	Aliases      int
	FormIDsUsed  int
	NextObjectID domain.FormID
	ESL          domain.ESLReport
	Message      string
}

// BuildCommand generates a plugin from quest sets with one shared allocator
type BuildCommand struct {
	store      ports.PluginStore
	Config     config.BuildConfig
	OutputPath string
}

// NewBuildCommand creates a new BuildCommand
func NewBuildCommand(store ports.PluginStore, cfg config.BuildConfig, outputPath string) *BuildCommand {
	return &BuildCommand{store: store, Config: cfg, OutputPath: outputPath}
}

// Validate checks if the build operation is valid
func (c *BuildCommand) Validate() error {
	if err := application.ValidateRequired("outputPath", c.OutputPath); err != nil {
		return err
	}
	if len(c.Config.Quests) == 0 {
		return &application.ValidationError{Field: "quests", Message: "at least one quest set is required"}
	}
	if err := c.Config.Validate(); err != nil {
		return &application.ValidationError{Field: "build", Message: err.Error()}
	}
	return nil
}

// Execute runs the build command. Capacity is checked before anything is generated.
func (c *BuildCommand) Execute(ctx context.Context) (*BuildResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result, err := BuildPlugin(c.Config)
	if err != nil {
		return nil, err
	}

	if err := c.store.Save(ctx, c.OutputPath, result.Plugin, codec.Options{Indent: c.Config.Indent}); err != nil {
		return nil, fmt.Errorf("failed to save plugin: %w", err)
	}

	result.Message = fmt.Sprintf("Built %s: %d quests, %d aliases, %d form ids (next %s)",
		c.OutputPath, result.Quests, result.Aliases, result.FormIDsUsed, result.NextObjectID)
	return result, nil
}

// BuildPlugin generates the plugin described by cfg in memory
func BuildPlugin(cfg config.BuildConfig) (*BuildResult, error) {
	start, end, err := cfg.IDRange()
	if err != nil {
		return nil, err
	}
	alloc, err := domain.NewAllocator(start, end)
	if err != nil {
		return nil, err
	}
	if required := cfg.RequiredFormIDs(); required > alloc.Capacity() {
		logger.Warning("build exceeds form id range", "required", required, "capacity", alloc.Capacity())
		return nil, &domain.ExhaustedError{Requested: required, Available: alloc.Capacity(), Start: start, End: end}
	}

	p := domain.NewPlugin()
	if cfg.Version != "" {
		p.Node().SetAttr("version", cfg.Version)
	}
	h := domain.NewHeader()
	h.SetAuthor(cfg.Author)
	for _, m := range cfg.Masters {
		h.AddMaster(m)
	}
	h.SetField(domain.TagINTV, "1")
	p.SetHeader(h)

	result := &BuildResult{Plugin: p}
	for _, set := range cfg.Quests {
		for i := 1; i <= set.Count; i++ {
			b, err := buildQuest(p, alloc, set, i)
			if err != nil {
				return nil, err
			}
			result.Quests++
			result.Aliases += len(b.Quest().Aliases)
		}
		logger.Debug("built quest set", "set", set.Name, "quests", set.Count)
	}

	if err := p.SyncHeader(alloc); err != nil {
		return nil, err
	}
	if err := domain.CheckHeader(p, alloc); err != nil {
		return nil, err
	}

	result.FormIDsUsed = alloc.UsedCount()
	result.NextObjectID, _ = alloc.Peek()
	result.ESL = p.ESLCompatibility()
	return result, nil
}

func buildQuest(p *domain.Plugin, alloc *domain.Allocator, set config.QuestSet, index int) (*application.QuestBuilder, error) {
	vars := config.Vars{Quest: index}
	editorID := config.Expand(set.EditorID, vars)

	b, err := application.NewQuestBuilder(p, alloc, editorID, "")
	if err != nil {
		return nil, err
	}
	name := editorID
	if set.FullName != "" {
		name = config.Expand(set.FullName, vars)
	}
	b.SetName(name).SetQuestData(domain.DefaultQuestData(set.QuestType))

	if _, err := b.AddPlayerReference(); err != nil {
		return nil, err
	}

	objectivePattern := orDefault(set.ObjectiveName, defaultObjectiveName)
	aliasPattern := orDefault(set.AliasName, defaultAliasName)
	for o := 1; o <= set.Objectives; o++ {
		vars.Objective = o
		names := make([]string, set.AliasesPerObjective)
		for t := range names {
			vars.Target = t + 1
			names[t] = config.Expand(aliasPattern, vars)
		}
		vars.Target = 0
		if _, err := b.AddObjectiveWithNamedTargets(o, config.Expand(objectivePattern, vars), names); err != nil {
			return nil, err
		}
	}

	b.UpdateAliasCount()
	if err := domain.ValidateForOutput(b.Quest()); err != nil {
		return nil, err
	}
	return b, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
