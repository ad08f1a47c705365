package domain

import (
	"fmt"
)

// Plugin is the root of a plugin document: an optional TES4 header followed by groups
type Plugin struct {
	node   *Node
	header *Header
	groups []*Group
}

// NewPlugin creates an empty plugin root with the default version attribute
func NewPlugin() *Plugin {
	return &Plugin{node: NewNode(TagPlugin, Attr{"version", DefaultPluginVersion})}
}

// WrapPlugin wraps an existing root element. Header and groups are bound separately.
func WrapPlugin(root *Node) *Plugin {
	return &Plugin{node: root}
}

// Node returns the root element
func (p *Plugin) Node() *Node { return p.node }

// Version returns the root version attribute
func (p *Plugin) Version() string {
	return p.node.AttrValue("version", "")
}

// Header returns the TES4 header, or nil
func (p *Plugin) Header() *Header { return p.header }

// SetHeader installs the header as the first child, replacing an existing one in place
func (p *Plugin) SetHeader(h *Header) {
	if p.header != nil {
		i := p.header.Node().Index()
		p.header.Node().Detach()
		p.node.Insert(i, h.Node())
	} else {
		p.node.Insert(0, h.Node())
	}
	p.header = h
}

// BindHeader registers a wrapper for a TES4 element already under the root
func (p *Plugin) BindHeader(h *Header) error {
	if h.Node().Parent() != p.node {
		return fmt.Errorf("header is not a child of the plugin root")
	}
	if p.header != nil {
		return &StructuralIntegrityError{Record: TagTES4, Reason: "plugin has more than one header"}
	}
	p.header = h
	return nil
}

// Groups returns the groups in document order
func (p *Plugin) Groups() []*Group { return p.groups }

// AddGroup appends a group to the plugin
func (p *Plugin) AddGroup(g *Group) {
	p.node.Append(g.Node())
	p.groups = append(p.groups, g)
}

// BindGroup registers a wrapper for a GRUP element already under the root
func (p *Plugin) BindGroup(g *Group) error {
	if g.Node().Parent() != p.node {
		return fmt.Errorf("group %s is not a child of the plugin root", g.Label())
	}
	p.groups = append(p.groups, g)
	return nil
}

// Group finds the first group with the given label
func (p *Plugin) Group(label string) *Group {
	for _, g := range p.groups {
		if g.Label() == label {
			return g
		}
	}
	return nil
}

// GetOrCreateGroup returns the group with the label, appending a new one when missing
func (p *Plugin) GetOrCreateGroup(label, groupType string) *Group {
	if g := p.Group(label); g != nil {
		return g
	}
	g := NewGroup(label, groupType)
	p.AddGroup(g)
	return g
}

// Quests returns every quest record across all groups
func (p *Plugin) Quests() []*Quest {
	var quests []*Quest
	for _, g := range p.groups {
		quests = append(quests, g.Quests()...)
	}
	return quests
}

// Quest finds a quest by editor id
func (p *Plugin) Quest(editorID string) *Quest {
	for _, q := range p.Quests() {
		if q.EditorID() == editorID {
			return q
		}
	}
	return nil
}

// GetOrCreateQuest returns the quest with the editor id, or appends a new one to the QUST group
func (p *Plugin) GetOrCreateQuest(editorID string, id FormID) *Quest {
	if q := p.Quest(editorID); q != nil {
		return q
	}
	q := NewQuest(editorID, id)
	p.GetOrCreateGroup(QuestGroupLabel, "0").AddRecord(q)
	return q
}

// Records returns every record across all groups in document order
func (p *Plugin) Records() []*Record {
	var records []*Record
	for _, g := range p.groups {
		for _, e := range g.Entries() {
			records = append(records, e.Base())
		}
	}
	return records
}

// FormIDs returns every parseable record id in document order
func (p *Plugin) FormIDs() []FormID {
	var ids []FormID
	for _, r := range p.Records() {
		if id, err := r.FormID(); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// FindRecord finds a record by form id
func (p *Plugin) FindRecord(id FormID) *Record {
	for _, r := range p.Records() {
		if rid, err := r.FormID(); err == nil && rid == id {
			return r
		}
	}
	return nil
}

// SyncHeader writes HEDR so that the next object id matches the allocator's first free id.
// A header is created when the plugin has none.
func (p *Plugin) SyncHeader(alloc *Allocator) error {
	next, err := alloc.Peek()
	if err != nil {
		return err
	}
	if p.header == nil {
		p.SetHeader(NewHeader())
	}
	data, _, err := p.header.Data()
	if err != nil {
		return err
	}
	data.NumRecords = len(p.Records())
	data.NextObjectID = next
	p.header.SetData(data)
	return nil
}
