package commands

import (
	"context"
	"fmt"
	"strings"

	"esxforge/internal/application"
	"esxforge/internal/codec"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// essentialQuestTags are the quest children kept when an objective is rebuilt
var essentialQuestTags = map[string]bool{
	domain.TagEDID: true,
	domain.TagVMAD: true,
	domain.TagFULL: true,
	domain.TagDNAM: true,
	domain.TagNEXT: true,
	domain.TagINDX: true,
	domain.TagQSDT: true,
}

// RetargetResult contains the result of rebuilding an objective
type RetargetResult struct {
	Quest     *domain.Quest
	AliasIDs  []domain.FormID
	PlayerRef bool
	Message   string
}

// RetargetCommand rebuilds a quest around one objective that targets every alias
// whose name starts with Prefix. The matched aliases are renamed {Rename}{n};
// the player reference survives, every other alias, objective and stage is dropped.
type RetargetCommand struct {
	store          ports.PluginStore
	Path           string
	QuestEditorID  string // empty selects the first quest
	Prefix         string
	ObjectiveIndex int
	ObjectiveName  string
	Rename         string
	OutputPath     string // defaults to Path
	Indent         bool
}

// NewRetargetCommand creates a new RetargetCommand
func NewRetargetCommand(store ports.PluginStore, path, questEditorID, prefix string) *RetargetCommand {
	return &RetargetCommand{
		store:          store,
		Path:           path,
		QuestEditorID:  questEditorID,
		Prefix:         prefix,
		ObjectiveIndex: 1,
		ObjectiveName:  "Objective One",
		Rename:         "Objective",
		Indent:         true,
	}
}

// Validate checks if the retarget operation is valid
func (c *RetargetCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	if err := application.ValidateRequired("prefix", c.Prefix); err != nil {
		return err
	}
	if c.ObjectiveIndex < 0 {
		return &application.ValidationError{
			Field:   "objectiveIndex",
			Message: fmt.Sprintf("objective index must not be negative, got: %d", c.ObjectiveIndex),
		}
	}
	return nil
}

// Execute runs the retarget command
func (c *RetargetCommand) Execute(ctx context.Context) (*RetargetResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}

	q, err := findQuest(p, c.QuestEditorID)
	if err != nil {
		return nil, err
	}
	result, err := Retarget(q, c.Prefix, c.ObjectiveIndex, c.ObjectiveName, c.Rename)
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
	return result, nil
}

// Retarget rewrites the quest's children in place and reconstructs it
func Retarget(q *domain.Quest, prefix string, index int, name, rename string) (*RetargetResult, error) {
	var matched []*domain.Alias
	var player *domain.Alias
	for _, a := range q.Aliases {
		switch {
		case strings.HasPrefix(a.Name, prefix):
			matched = append(matched, a)
		case player == nil && (a.Name == domain.PlayerRefName || a.IsPlayerReference()):
			player = a
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: no alias of %s starts with %q", application.ErrNoAliases, q.Label(), prefix)
	}

	n := q.Node()
	for _, child := range n.DetachChildren() {
		if essentialQuestTags[child.Tag] {
			n.Append(child)
		}
	}

	for _, node := range domain.NewObjectiveNodes(index, name, 0) {
		n.Append(node)
	}
	ids := make([]domain.FormID, len(matched))
	for i, a := range matched {
		ids[i] = a.ID
		n.Append(domain.NewTargetNode(a.ID, 0))
		n.Append(domain.DefaultCondition(a.ID).Node())
	}

	count := len(matched)
	if player != nil {
		count++
	}
	q.SetDeclaredAliasCount(count)

	for i, a := range matched {
		flags := orDefault(a.Flags, domain.TargetAliasFlags)
		for _, node := range domain.NewAliasNodes(a.ID, fmt.Sprintf("%s%d", rename, i+1), flags, false) {
			n.Append(node)
		}
	}
	if player != nil {
		flags := orDefault(player.Flags, domain.PlayerAliasFlags)
		for _, node := range domain.NewAliasNodes(player.ID, domain.PlayerRefName, flags, true) {
			n.Append(node)
		}
	}

	if err := codec.Reconstruct(q); err != nil {
		return nil, err
	}

	playerNote := "no PlayerRef"
	if player != nil {
		playerNote = "kept PlayerRef"
	}
	return &RetargetResult{
		Quest:     q,
		AliasIDs:  ids,
		PlayerRef: player != nil,
		Message: fmt.Sprintf("Retargeted %s objective %d to %d aliases (%s)",
			q.Label(), index, len(matched), playerNote),
	}, nil
}

// findQuest returns the quest with the editor id, or the first quest when it is empty
func findQuest(p *domain.Plugin, editorID string) (*domain.Quest, error) {
	if editorID == "" {
		quests := p.Quests()
		if len(quests) == 0 {
			return nil, &application.NotFoundError{Kind: "quest", Key: "(any)"}
		}
		return quests[0], nil
	}
	q := p.Quest(editorID)
	if q == nil {
		return nil, &application.NotFoundError{Kind: "quest", Key: editorID}
	}
	return q, nil
}
