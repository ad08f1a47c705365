package domain

import "fmt"

// Group is a GRUP container of records sharing one label
type Group struct {
	node    *Node
	entries []Entry
}

// NewGroup creates a GRUP element. Label and group type cannot change afterwards.
func NewGroup(label, groupType string) *Group {
	n := NewNode(TagGRUP,
		Attr{"label", label},
		Attr{"groupType", groupType},
		Attr{"day", "0"},
		Attr{"month", "0"},
		Attr{"lastUserID", "0"},
		Attr{"currentUserID", "0"},
		Attr{"unknown", "0x00000000"},
	)
	return &Group{node: n}
}

// WrapGroup wraps an existing GRUP element. Entries are bound separately.
func WrapGroup(n *Node) *Group {
	return &Group{node: n}
}

// Node returns the underlying element
func (g *Group) Node() *Node { return g.node }

// Label returns the record type tag the group holds
func (g *Group) Label() string { return g.node.AttrValue("label", "") }

// GroupType returns the numeric group discriminant as written
func (g *Group) GroupType() string { return g.node.AttrValue("groupType", "") }

// Entries returns the records in document order
func (g *Group) Entries() []Entry { return g.entries }

// Len returns the number of records in the group
func (g *Group) Len() int { return len(g.entries) }

// AddRecord appends a record element to the group
func (g *Group) AddRecord(e Entry) {
	g.node.Append(e.Base().Node())
	g.entries = append(g.entries, e)
}

// Bind registers a wrapper for a record element that is already a child of the group
func (g *Group) Bind(e Entry) error {
	if e.Base().Node().Parent() != g.node {
		return fmt.Errorf("record %s is not a child of group %s", e.Base().Label(), g.Label())
	}
	g.entries = append(g.entries, e)
	return nil
}

// Record finds a record by editor id
func (g *Group) Record(editorID string) Entry {
	for _, e := range g.entries {
		if e.Base().EditorID() == editorID {
			return e
		}
	}
	return nil
}

// Quests returns the quest records of the group
func (g *Group) Quests() []*Quest {
	var quests []*Quest
	for _, e := range g.entries {
		if q, ok := e.(*Quest); ok {
			quests = append(quests, q)
		}
	}
	return quests
}

// Remove detaches a record from the group. It reports whether the record was found.
func (g *Group) Remove(e Entry) bool {
	for i, existing := range g.entries {
		if existing == e {
			existing.Base().Node().Detach()
			g.entries = append(g.entries[:i:i], g.entries[i+1:]...)
			return true
		}
	}
	return false
}
