package application

import "esxforge/internal/domain"

// Re-export domain types for use by adapters
type (
	OutlineNode   = domain.OutlineNode
	OutlineKind   = domain.OutlineKind
	FormID        = domain.FormID
	IndexedRecord = domain.IndexedRecord
	AliasTarget   = domain.AliasTarget
	SyncStats     = domain.SyncStats
)

const (
	OutlinePlugin    = domain.OutlinePlugin
	OutlineHeader    = domain.OutlineHeader
	OutlineGroup     = domain.OutlineGroup
	OutlineRecord    = domain.OutlineRecord
	OutlineQuest     = domain.OutlineQuest
	OutlineObjective = domain.OutlineObjective
	OutlineTarget    = domain.OutlineTarget
	OutlineAlias     = domain.OutlineAlias
)

// ParseFormID parses hex form id text, with or without the 0x prefix
func ParseFormID(s string) (FormID, error) {
	return domain.ParseFormID(s)
}

// BuildOutline builds the navigable outline of a plugin
func BuildOutline(p *domain.Plugin, name string) *OutlineNode {
	return domain.BuildOutline(p, name)
}
