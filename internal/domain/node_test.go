package domain

import (
	"testing"
)

func TestNode_AppendSetsParent(t *testing.T) {
	parent := NewNode("QUST")
	child := parent.Append(NewTextNode("EDID", "Q1"))

	if child.Parent() != parent {
		t.Fatal("expected child parent to be set by Append")
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Fatalf("expected child to be appended, got %d children", len(parent.Children))
	}
}

func TestNode_AppendRejectsOwnedChild(t *testing.T) {
	a := NewNode("A")
	b := NewNode("B")
	child := a.Append(NewNode("C"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic when appending a child owned by another node")
		}
	}()
	b.Append(child)
}

func TestNode_AppendRejectsCycle(t *testing.T) {
	root := NewNode("root")
	mid := root.Append(NewNode("mid"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic when appending an ancestor")
		}
	}()
	root.Detach()
	mid.Append(root)
}

func TestNode_DetachThenReparent(t *testing.T) {
	a := NewNode("A")
	b := NewNode("B")
	first := a.Append(NewNode("first"))
	second := a.Append(NewNode("second"))

	second.Detach()
	b.Append(second)

	if len(a.Children) != 1 || a.Children[0] != first {
		t.Errorf("expected A to keep only first child, got %d children", len(a.Children))
	}
	if second.Parent() != b {
		t.Error("expected second to belong to B after reparenting")
	}
}

func TestNode_Insert(t *testing.T) {
	n := NewNode("TES4")
	n.Append(NewTextNode("CNAM", "DEFAULT"))
	n.Append(NewTextNode("INTV", "1"))

	n.Insert(0, NewNode("HEDR"))
	n.Insert(99, NewNode("ONAM"))

	var tags []string
	for _, c := range n.Children {
		tags = append(tags, c.Tag)
	}
	want := []string{"HEDR", "CNAM", "INTV", "ONAM"}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("children = %v, want %v", tags, want)
		}
	}
	if n.Children[0].Index() != 0 || n.Children[3].Index() != 3 {
		t.Error("Index did not report positions after Insert")
	}
}

func TestNode_FindIsDirectChildrenOnly(t *testing.T) {
	q := NewNode("QUST")
	dnam := q.Append(NewNode("DNAM"))
	dnam.Append(NewNode("struct"))
	q.Append(NewTextNode("FNAM", "0"))
	q.Append(NewTextNode("FNAM", "4242"))

	if q.Find("struct") != nil {
		t.Error("Find must not search grandchildren")
	}
	fnams := q.FindAll("FNAM")
	if len(fnams) != 2 {
		t.Fatalf("expected 2 FNAM children, got %d", len(fnams))
	}
	if fnams[0].Text != "0" || fnams[1].Text != "4242" {
		t.Errorf("FindAll lost document order: %q, %q", fnams[0].Text, fnams[1].Text)
	}
	if q.Find("FNAM") != fnams[0] {
		t.Error("Find should return the first match")
	}
}

func TestNode_SetAttrKeepsOrder(t *testing.T) {
	n := NewNode("GRUP", Attr{"label", "QUST"}, Attr{"groupType", "0"})
	n.SetAttr("label", "NPC_")
	n.SetAttr("day", "0")

	want := []Attr{{"label", "NPC_"}, {"groupType", "0"}, {"day", "0"}}
	if len(n.Attrs) != len(want) {
		t.Fatalf("attrs = %v, want %v", n.Attrs, want)
	}
	for i := range want {
		if n.Attrs[i] != want[i] {
			t.Errorf("attr %d = %v, want %v", i, n.Attrs[i], want[i])
		}
	}
	if got := n.AttrValue("missing", "fallback"); got != "fallback" {
		t.Errorf("AttrValue fallback = %q", got)
	}
}

func TestNode_CloneIsIndependent(t *testing.T) {
	q := NewNode("QUST", Attr{"id", "00000800"})
	q.Append(NewTextNode("EDID", "Q1"))
	qsta := q.Append(NewNode("QSTA"))
	qsta.Append(NewNode("struct", Attr{"alias", "2049"}))

	clone := q.Clone()
	if !clone.Equal(q) {
		t.Fatal("clone should be structurally equal to the source")
	}
	if clone.Parent() != nil {
		t.Error("clone root should be detached")
	}
	if clone.Children[1].Parent() != clone {
		t.Error("cloned children should point at the clone")
	}

	clone.SetAttr("id", "00000900")
	clone.Children[0].Text = "Q2"
	clone.Children[1].Children[0].SetAttr("alias", "9999")
	clone.Append(NewNode("ANAM"))

	if v, _ := q.Attr("id"); v != "00000800" {
		t.Errorf("source id changed to %s", v)
	}
	if q.Children[0].Text != "Q1" {
		t.Errorf("source EDID changed to %s", q.Children[0].Text)
	}
	if v, _ := q.Children[1].Children[0].Attr("alias"); v != "2049" {
		t.Errorf("source nested attr changed to %s", v)
	}
	if len(q.Children) != 2 {
		t.Errorf("source gained children: %d", len(q.Children))
	}
}

func TestNode_Equal(t *testing.T) {
	base := func() *Node {
		n := NewNode("A", Attr{"x", "1"}, Attr{"y", "2"})
		n.Append(NewTextNode("B", "text"))
		return n
	}

	tests := []struct {
		name   string
		mutate func(n *Node)
		equal  bool
	}{
		{"identical", func(n *Node) {}, true},
		{"text differs", func(n *Node) { n.Children[0].Text = "other" }, false},
		{"attr order differs", func(n *Node) { n.Attrs[0], n.Attrs[1] = n.Attrs[1], n.Attrs[0] }, false},
		{"extra child", func(n *Node) { n.Append(NewNode("C")) }, false},
		{"tag differs", func(n *Node) { n.Tag = "Z" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base()
			tt.mutate(other)
			if got := base().Equal(other); got != tt.equal {
				t.Errorf("Equal = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestNode_DetachChildren(t *testing.T) {
	q := NewNode("QUST")
	q.Append(NewNode("EDID"))
	q.Append(NewNode("FULL"))

	children := q.DetachChildren()
	if len(q.Children) != 0 || len(children) != 2 {
		t.Fatalf("expected all children detached, have %d left", len(q.Children))
	}
	for _, c := range children {
		if c.Parent() != nil {
			t.Errorf("%s still has a parent", c.Tag)
		}
	}
}
