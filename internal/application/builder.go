package application

import (
	"errors"
	"fmt"
	"strings"

	"esxforge/internal/domain"
	"esxforge/internal/logger"
)

// ObjectiveResult describes what AddObjectiveWithTargets appended
type ObjectiveResult struct {
	Objective *domain.Objective
	AliasIDs  []domain.FormID
	Created   bool
}

// FormIDSummary is a read-only report of the ids a builder has minted
type FormIDSummary struct {
	QuestID      domain.FormID
	PlayerRefID  domain.FormID
	HasPlayerRef bool
	AliasCount   int
	TotalUsed    int
	Remaining    int
}

// QuestBuilder composes quest mutations so that every id it mints comes from one
// allocator. The declared alias count is not kept in sync automatically:
// call UpdateAliasCount before writing.
type QuestBuilder struct {
	plugin *domain.Plugin
	alloc  *domain.Allocator
	quest  *domain.Quest

	playerRef    domain.FormID
	hasPlayerRef bool
	last         *domain.Objective
}

// NewQuestBuilder creates a quest in the plugin's QUST group. formID is hex text;
// empty means the next free id.
func NewQuestBuilder(plugin *domain.Plugin, alloc *domain.Allocator, editorID, formID string) (*QuestBuilder, error) {
	if err := ValidateRequired("editorID", editorID); err != nil {
		return nil, err
	}
	if plugin.Quest(editorID) != nil {
		return nil, &domain.ConflictError{Identifier: editorID, Kind: "editor id"}
	}

	var (
		id  domain.FormID
		err error
	)
	if strings.TrimSpace(formID) != "" {
		id, err = alloc.ReserveString(formID)
	} else {
		id, err = alloc.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate quest id: %w", err)
	}

	q := domain.NewQuest(editorID, id)
	plugin.GetOrCreateGroup(domain.QuestGroupLabel, "0").AddRecord(q)

	return &QuestBuilder{plugin: plugin, alloc: alloc, quest: q}, nil
}

// SetName sets the FULL display name
func (b *QuestBuilder) SetName(name string) *QuestBuilder {
	b.quest.SetFullName(name)
	return b
}

// SetQuestData writes the DNAM struct
func (b *QuestBuilder) SetQuestData(data domain.QuestData) *QuestBuilder {
	b.quest.SetData(data)
	return b
}

// AddPlayerReference appends the alias forced to the player. Calling it again
// returns the existing id without minting another.
func (b *QuestBuilder) AddPlayerReference() (domain.FormID, error) {
	if b.hasPlayerRef {
		return b.playerRef, nil
	}

	id, err := b.alloc.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate player reference: %w", err)
	}
	for _, n := range domain.NewAliasNodes(id, domain.PlayerRefName, domain.PlayerAliasFlags, true) {
		b.quest.Node().Append(n)
	}
	b.quest.Aliases = append(b.quest.Aliases, &domain.Alias{
		ID:        id,
		Name:      domain.PlayerRefName,
		Flags:     domain.PlayerAliasFlags,
		Reference: domain.PlayerRefForm,
	})

	b.playerRef = id
	b.hasPlayerRef = true
	return id, nil
}

// AddObjectiveWithTargets mints targetCount consecutive ids and adds one alias,
// target and condition per id to the objective. Aliases are named
// "{namePrefix}_Target{n}"; an empty prefix is the objective name without spaces.
func (b *QuestBuilder) AddObjectiveWithTargets(index int, name string, targetCount int, namePrefix string) (*ObjectiveResult, error) {
	if namePrefix == "" {
		namePrefix = strings.ReplaceAll(name, " ", "")
	}
	if targetCount < 1 {
		return nil, fmt.Errorf("objective %d: %w", index, domain.ErrInvalidCount)
	}

	offset := 0
	if o := b.quest.Objective(index); o != nil {
		offset = len(o.Targets)
	}
	names := make([]string, targetCount)
	for i := range names {
		names[i] = fmt.Sprintf("%s_Target%d", namePrefix, offset+i+1)
	}
	return b.AddObjectiveWithNamedTargets(index, name, names)
}

// AddObjectiveWithNamedTargets is AddObjectiveWithTargets with explicit alias names,
// one target per name
func (b *QuestBuilder) AddObjectiveWithNamedTargets(index int, name string, aliasNames []string) (*ObjectiveResult, error) {
	if len(aliasNames) == 0 {
		return nil, fmt.Errorf("objective %d: %w", index, domain.ErrInvalidCount)
	}

	existing := b.quest.Objective(index)
	if existing != nil && existing != b.last {
		lastIndex := -1
		if b.last != nil {
			lastIndex = b.last.Index
		}
		return nil, &domain.StructuralIntegrityError{
			Record: b.quest.Label(),
			Reason: fmt.Sprintf("cannot add targets to objective %d after objective %d was opened", index, lastIndex),
		}
	}

	ids, err := b.alloc.Range(len(aliasNames))
	if err != nil {
		if errors.Is(err, domain.ErrExhausted) {
			logger.Warning("form id range exhausted",
				"quest", b.quest.EditorID(),
				"objective", index,
				"requested", len(aliasNames),
				"remaining", b.alloc.Remaining())
		}
		return nil, fmt.Errorf("failed to allocate targets for objective %d: %w", index, err)
	}

	result := &ObjectiveResult{Objective: existing, AliasIDs: ids}
	if existing == nil {
		for _, n := range domain.NewObjectiveNodes(index, name, 0) {
			b.quest.Node().Append(n)
		}
		existing = &domain.Objective{Index: index, Name: name}
		b.quest.Objectives = append(b.quest.Objectives, existing)
		result.Objective = existing
		result.Created = true
	}
	b.last = existing

	for i, id := range ids {
		cond := domain.DefaultCondition(id)
		for _, n := range domain.NewAliasNodes(id, aliasNames[i], domain.TargetAliasFlags, false) {
			b.quest.Node().Append(n)
		}
		b.quest.Node().Append(domain.NewTargetNode(id, 0))
		b.quest.Node().Append(cond.Node())

		b.quest.Aliases = append(b.quest.Aliases, &domain.Alias{
			ID:    id,
			Name:  aliasNames[i],
			Flags: domain.TargetAliasFlags,
		})
		existing.AddTarget(id, 0, []domain.Condition{cond})
	}

	logger.Debug("added objective targets",
		"quest", b.quest.EditorID(),
		"objective", index,
		"first", ids[0].Hex(),
		"count", len(ids))
	return result, nil
}

// UpdateAliasCount writes the current number of aliases to ANAM
func (b *QuestBuilder) UpdateAliasCount() {
	b.quest.SetDeclaredAliasCount(len(b.quest.Aliases))
}

// FormIDSummary reports the quest's ids and the allocator's remaining capacity
func (b *QuestBuilder) FormIDSummary() FormIDSummary {
	id, _ := b.quest.FormID()
	return FormIDSummary{
		QuestID:      id,
		PlayerRefID:  b.playerRef,
		HasPlayerRef: b.hasPlayerRef,
		AliasCount:   len(b.quest.Aliases),
		TotalUsed:    b.alloc.UsedCount(),
		Remaining:    b.alloc.Remaining(),
	}
}

// Quest returns the quest under construction
func (b *QuestBuilder) Quest() *domain.Quest { return b.quest }

// Allocator returns the shared allocator
func (b *QuestBuilder) Allocator() *domain.Allocator { return b.alloc }

// SeedAllocator reserves every record and alias id already present in the plugin
// so new ids never collide with existing ones. Ids outside the allocator range
// are returned; ids seen more than once are tolerated.
func SeedAllocator(alloc *domain.Allocator, plugin *domain.Plugin) []domain.FormID {
	var skipped []domain.FormID

	reserve := func(id domain.FormID) {
		if !alloc.InRange(id) {
			skipped = append(skipped, id)
			return
		}
		if !alloc.IsUsed(id) {
			// cannot fail: in range and free
			_, _ = alloc.Reserve(id)
		}
	}

	for _, id := range plugin.FormIDs() {
		reserve(id)
	}
	for _, q := range plugin.Quests() {
		for _, a := range q.Aliases {
			reserve(a.ID)
		}
	}

	if len(skipped) > 0 {
		logger.Debug("ids outside allocator range", "count", len(skipped))
	}
	return skipped
}
