package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Quest is a QUST record.
//
// Objectives, Aliases and Scripts are reconstructed from the element children;
// the children remain the serialized form. Code that edits children directly
// must rebuild these collections afterwards.
type Quest struct {
	*Record

	Objectives []*Objective
	Aliases    []*Alias
	Scripts    []ScriptAttachment
}

// Objective is a quest sub-goal with the targets that satisfy it
type Objective struct {
	Index   int
	Name    string
	Flags   int
	Targets []Target
}

// Target pairs an alias with the conditions that mark it for an objective
type Target struct {
	AliasID    FormID
	Flags      uint32
	Conditions []Condition
}

// Alias is a named reference slot owned by a quest
type Alias struct {
	ID         FormID
	Name       string
	Flags      string // empty when the alias has no FNAM
	Reference  string // ALFR forced reference, empty when absent
	Conditions []Condition
	Scripts    []string
}

// ScriptAttachment is one script entry of the VMAD block
type ScriptAttachment struct {
	Name   string
	Status string
	Object string // alias fragment object, empty for quest-level scripts
}

// QuestData is the content of the DNAM struct
type QuestData struct {
	Flags    string
	Priority int
	Type     int
}

// DefaultQuestData is the DNAM content used for generated quests
func DefaultQuestData(questType int) QuestData {
	return QuestData{Flags: "0x0111", Priority: 0, Type: questType}
}

// NewQuest creates a QUST record with the standard bookkeeping attributes and an EDID
func NewQuest(editorID string, id FormID) *Quest {
	r := NewRecord(TagQUST, id,
		Attr{"flags", "0x00000000"},
		Attr{"day", "0"},
		Attr{"month", "0"},
		Attr{"lastUserID", "0"},
		Attr{"currentUserID", "0"},
		Attr{"version", "44"},
		Attr{"unknown", "0x0000"},
	)
	r.SetEditorID(editorID)
	return &Quest{Record: r}
}

// WrapQuest wraps an existing QUST element without reconstructing its collections
func WrapQuest(n *Node) *Quest {
	return &Quest{Record: WrapRecord(n)}
}

// FullName returns the FULL display name
func (q *Quest) FullName() string {
	text, _ := q.node.ChildText(TagFULL)
	return text
}

// SetFullName updates or appends FULL
func (q *Quest) SetFullName(name string) {
	q.SetField(TagFULL, name)
}

// Data reads the DNAM struct. ok is false when the quest has no DNAM.
func (q *Quest) Data() (data QuestData, ok bool, err error) {
	dnam := q.node.Find(TagDNAM)
	if dnam == nil {
		return QuestData{}, false, nil
	}
	s := dnam.Find(TagStruct)
	if s == nil {
		return QuestData{}, true, nil
	}
	data.Flags = s.AttrValue("flags", "")
	if raw, ok := s.Attr("priority"); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return data, true, &FormatError{Tag: "priority", Value: raw, Err: err}
		}
		data.Priority = n
	}
	if raw, ok := s.Attr("type"); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return data, true, &FormatError{Tag: "type", Value: raw, Err: err}
		}
		data.Type = n
	}
	return data, true, nil
}

// SetData writes the DNAM struct, appending DNAM when missing
func (q *Quest) SetData(data QuestData) {
	dnam := q.node.Find(TagDNAM)
	if dnam == nil {
		q.node.Append(NewQuestDataNode(data))
		return
	}
	s := dnam.Find(TagStruct)
	if s == nil {
		s = dnam.Append(NewNode(TagStruct))
	}
	s.SetAttr("flags", data.Flags)
	s.SetAttr("priority", strconv.Itoa(data.Priority))
	s.SetAttr("type", strconv.Itoa(data.Type))
}

// Script returns the first quest-level script name
func (q *Quest) Script() string {
	for _, s := range q.Scripts {
		if s.Object == "" {
			return s.Name
		}
	}
	return ""
}

// Objective finds an objective by index
func (q *Quest) Objective(index int) *Objective {
	for _, o := range q.Objectives {
		if o.Index == index {
			return o
		}
	}
	return nil
}

// Alias finds an alias by id
func (q *Quest) Alias(id FormID) *Alias {
	for _, a := range q.Aliases {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// PlayerReference returns the alias forced to the player, if any
func (q *Quest) PlayerReference() *Alias {
	for _, a := range q.Aliases {
		if a.IsPlayerReference() {
			return a
		}
	}
	return nil
}

// DeclaredAliasCount reads ANAM. ok is false when ANAM is missing or not a number.
func (q *Quest) DeclaredAliasCount() (count int, ok bool) {
	text, found := q.node.ChildText(TagANAM)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetDeclaredAliasCount updates or appends ANAM
func (q *Quest) SetDeclaredAliasCount(n int) {
	q.SetField(TagANAM, strconv.Itoa(n))
}

// FormIDs returns the quest id followed by every alias id
func (q *Quest) FormIDs() []FormID {
	var ids []FormID
	if id, err := q.FormID(); err == nil {
		ids = append(ids, id)
	}
	for _, a := range q.Aliases {
		ids = append(ids, a.ID)
	}
	return ids
}

// AddTarget appends a target holding its own copy of conditions
func (o *Objective) AddTarget(aliasID FormID, flags uint32, conditions []Condition) {
	o.Targets = append(o.Targets, Target{
		AliasID:    aliasID,
		Flags:      flags,
		Conditions: append([]Condition(nil), conditions...),
	})
}

// IsPlayerReference reports whether the alias is forced to the player
func (a *Alias) IsPlayerReference() bool {
	return a.Reference == PlayerRefForm
}

// NewObjectiveNodes returns the QOBJ, FNAM, NNAM run that opens an objective
func NewObjectiveNodes(index int, name string, flags int) []*Node {
	return []*Node{
		NewTextNode(TagQOBJ, strconv.Itoa(index)),
		NewTextNode(TagFNAM, strconv.Itoa(flags)),
		NewTextNode(TagNNAM, name),
	}
}

// NewAliasNodes returns one ALST to ALED run. Player references get an ALFR.
func NewAliasNodes(id FormID, name, flags string, playerRef bool) []*Node {
	nodes := []*Node{
		NewTextNode(TagALST, id.Decimal()),
		NewTextNode(TagALID, name),
		NewTextNode(TagFNAM, flags),
	}
	if playerRef {
		nodes = append(nodes, NewTextNode(TagALFR, PlayerRefForm))
	}
	return append(nodes,
		NewTextNode(TagVTCK, VoiceSentinel),
		NewNode(TagALED),
	)
}

// NewTargetNode returns a QSTA element pointing at an alias
func NewTargetNode(aliasID FormID, flags uint32) *Node {
	qsta := NewNode(TagQSTA)
	qsta.Append(NewNode(TagStruct,
		Attr{"alias", aliasID.Decimal()},
		Attr{"flags", FormatFlags(flags)},
	))
	return qsta
}

// NewQuestDataNode returns a DNAM element
func NewQuestDataNode(data QuestData) *Node {
	dnam := NewNode(TagDNAM)
	dnam.Append(NewNode(TagStruct,
		Attr{"flags", data.Flags},
		Attr{"priority", strconv.Itoa(data.Priority)},
		Attr{"unknown0", "0xff"},
		Attr{"unknown1", "0x00000000"},
		Attr{"type", strconv.Itoa(data.Type)},
	))
	return dnam
}

// FormatFlags renders a 32-bit flag word as 0x-prefixed hex
func FormatFlags(flags uint32) string {
	return fmt.Sprintf("0x%08x", flags)
}
