package domain

// Attr is a single element attribute. Attribute order is significant for output.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the plugin document tree.
//
// Children order is the serialization order. A node belongs to at most one
// parent; the parent pointer is a lookup aid and never owns the parent.
// Children is exported for reading. Change it only through Append, Insert and
// Detach, which keep the parent links in step.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string // empty means no text
	Children []*Node

	parent *Node
}

// NewNode creates a detached node with the given attributes in order
func NewNode(tag string, attrs ...Attr) *Node {
	n := &Node{Tag: tag}
	if len(attrs) > 0 {
		n.Attrs = append([]Attr(nil), attrs...)
	}
	return n
}

// NewTextNode creates a detached leaf node carrying text
func NewTextNode(tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// Parent returns the owning node, or nil for a root or detached node
func (n *Node) Parent() *Node {
	return n.parent
}

// Append adds child as the last child of n.
// It panics if child already belongs to another node or is an ancestor of n.
func (n *Node) Append(child *Node) *Node {
	n.adopt(child)
	n.Children = append(n.Children, child)
	return child
}

// Insert places child at position i among n's children (clamped to the valid range)
func (n *Node) Insert(i int, child *Node) *Node {
	n.adopt(child)
	if i < 0 {
		i = 0
	}
	if i > len(n.Children) {
		i = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
	return child
}

func (n *Node) adopt(child *Node) {
	if child == nil {
		panic("domain: append of nil node")
	}
	if child.parent != nil {
		panic("domain: node <" + child.Tag + "> already has a parent; detach it first")
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			panic("domain: cannot append <" + child.Tag + "> to its own descendant")
		}
	}
	child.parent = n
}

// Index returns the position of n among its parent's children, or -1 when detached
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Detach removes n from its parent's children
func (n *Node) Detach() *Node {
	if i := n.Index(); i >= 0 {
		siblings := n.parent.Children
		n.parent.Children = append(siblings[:i:i], siblings[i+1:]...)
	}
	n.parent = nil
	return n
}

// DetachChildren removes and returns all children of n in order
func (n *Node) DetachChildren() []*Node {
	children := n.Children
	n.Children = nil
	for _, c := range children {
		c.parent = nil
	}
	return children
}

// Find returns the first direct child with the given tag
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given tag in document order
func (n *Node) FindAll(tag string) []*Node {
	var result []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			result = append(result, c)
		}
	}
	return result
}

// ChildText returns the text of the first direct child with the given tag
func (n *Node) ChildText(tag string) (string, bool) {
	c := n.Find(tag)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// Attr looks up an attribute value
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the attribute value or fallback when it is absent
func (n *Node) AttrValue(name, fallback string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return fallback
}

// SetAttr replaces an attribute in place, or appends it when new
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Clone returns a deep copy of n that shares nothing with the original.
// The copy is detached.
func (n *Node) Clone() *Node {
	c := &Node{Tag: n.Tag, Text: n.Text}
	if len(n.Attrs) > 0 {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			cc := child.Clone()
			cc.parent = c
			c.Children[i] = cc
		}
	}
	return c
}

// Equal reports whether two trees have the same tag, attributes, text and child order
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Tag != other.Tag || n.Text != other.Text {
		return false
	}
	if len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Attrs {
		if n.Attrs[i] != other.Attrs[i] {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
