package domain

import (
	"fmt"
	"strconv"
)

// OutlineKind is the kind of entry shown in a plugin outline
type OutlineKind int

const (
	OutlinePlugin OutlineKind = iota
	OutlineHeader
	OutlineGroup
	OutlineRecord
	OutlineQuest
	OutlineObjective
	OutlineTarget
	OutlineAlias
)

func (k OutlineKind) String() string {
	switch k {
	case OutlinePlugin:
		return "Plugin"
	case OutlineHeader:
		return "Header"
	case OutlineGroup:
		return "Group"
	case OutlineRecord:
		return "Record"
	case OutlineQuest:
		return "Quest"
	case OutlineObjective:
		return "Objective"
	case OutlineTarget:
		return "Target"
	case OutlineAlias:
		return "Alias"
	default:
		return "Unknown"
	}
}

// OutlineNode is one entry of the navigable plugin outline
type OutlineNode struct {
	Kind       OutlineKind
	ID         string // form id, objective index or group label
	Name       string
	Detail     string
	Children   []*OutlineNode
	IsExpanded bool
	Parent     *OutlineNode
}

func (n *OutlineNode) add(child *OutlineNode) *OutlineNode {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *OutlineNode) Flatten() []*OutlineNode {
	var result []*OutlineNode
	n.flattenRecursive(&result)
	return result
}

func (n *OutlineNode) flattenRecursive(result *[]*OutlineNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *OutlineNode) Depth() int {
	depth := 0
	for current := n.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// Toggle expands or collapses the node
func (n *OutlineNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *OutlineNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *OutlineNode) Collapse() {
	n.IsExpanded = false
}

// HasChildren reports whether the node can be expanded
func (n *OutlineNode) HasChildren() bool {
	return len(n.Children) > 0
}

// BuildOutline builds the outline of a plugin. Only the root starts expanded.
func BuildOutline(p *Plugin, name string) *OutlineNode {
	root := &OutlineNode{
		Kind:       OutlinePlugin,
		Name:       name,
		Detail:     "version " + p.Version(),
		IsExpanded: true,
	}

	if h := p.Header(); h != nil {
		hn := root.add(&OutlineNode{Kind: OutlineHeader, ID: TagTES4, Name: "Header"})
		for _, m := range h.Masters() {
			hn.add(&OutlineNode{Kind: OutlineRecord, ID: TagMAST, Name: m})
		}
		if data, ok, err := h.Data(); ok && err == nil {
			hn.Detail = fmt.Sprintf("%d records, next %s", data.NumRecords, data.NextObjectID)
		}
	}

	for _, g := range p.Groups() {
		gn := root.add(&OutlineNode{
			Kind:   OutlineGroup,
			ID:     g.Label(),
			Name:   g.Label(),
			Detail: fmt.Sprintf("%d records", g.Len()),
		})
		for _, e := range g.Entries() {
			if q, ok := e.(*Quest); ok {
				addQuestOutline(gn, q)
				continue
			}
			r := e.Base()
			gn.add(&OutlineNode{Kind: OutlineRecord, ID: r.FormIDText(), Name: r.Label(), Detail: r.Tag()})
		}
	}

	return root
}

func addQuestOutline(parent *OutlineNode, q *Quest) {
	qn := parent.add(&OutlineNode{
		Kind:   OutlineQuest,
		ID:     q.FormIDText(),
		Name:   q.EditorID(),
		Detail: q.FullName(),
	})

	for _, o := range q.Objectives {
		on := qn.add(&OutlineNode{
			Kind:   OutlineObjective,
			ID:     strconv.Itoa(o.Index),
			Name:   o.Name,
			Detail: fmt.Sprintf("%d targets", len(o.Targets)),
		})
		for _, t := range o.Targets {
			name := fmt.Sprintf("alias %d", t.AliasID)
			if a := q.Alias(t.AliasID); a != nil {
				name = a.Name
			}
			on.add(&OutlineNode{
				Kind:   OutlineTarget,
				ID:     t.AliasID.String(),
				Name:   name,
				Detail: fmt.Sprintf("%d conditions", len(t.Conditions)),
			})
		}
	}

	for _, a := range q.Aliases {
		detail := "flags " + a.Flags
		if a.IsPlayerReference() {
			detail = "player reference"
		}
		qn.add(&OutlineNode{Kind: OutlineAlias, ID: a.ID.String(), Name: a.Name, Detail: detail})
	}
}
