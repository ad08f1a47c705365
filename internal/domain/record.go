package domain

import "fmt"

// Entry is anything a group can hold: opaque records and quests
type Entry interface {
	Base() *Record
}

// Record wraps a record element such as QUST or any pass-through record type.
// Identity lives in the element: the form id in the id attribute and the
// editor id in the EDID child.
type Record struct {
	node *Node
}

// NewRecord creates a record element with an id attribute followed by attrs
func NewRecord(tag string, id FormID, attrs ...Attr) *Record {
	n := NewNode(tag, Attr{Name: "id", Value: id.String()})
	n.Attrs = append(n.Attrs, attrs...)
	return &Record{node: n}
}

// WrapRecord wraps an existing record element
func WrapRecord(n *Node) *Record {
	return &Record{node: n}
}

// Base returns the record itself
func (r *Record) Base() *Record { return r }

// Node returns the underlying element
func (r *Record) Node() *Node { return r.node }

// Tag returns the record type tag
func (r *Record) Tag() string { return r.node.Tag }

// FormIDText returns the raw id attribute
func (r *Record) FormIDText() string {
	return r.node.AttrValue("id", "")
}

// FormID parses the id attribute
func (r *Record) FormID() (FormID, error) {
	raw, ok := r.node.Attr("id")
	if !ok {
		return 0, &StructuralIntegrityError{Record: r.Label(), Reason: "missing form id"}
	}
	return ParseFormID(raw)
}

// SetFormID writes the id attribute in its 8-hex-digit form
func (r *Record) SetFormID(id FormID) {
	r.node.SetAttr("id", id.String())
}

// EditorID returns the EDID text, empty when the record has none
func (r *Record) EditorID() string {
	text, _ := r.node.ChildText(TagEDID)
	return text
}

// SetEditorID updates the EDID child, creating it when missing
func (r *Record) SetEditorID(editorID string) {
	r.SetField(TagEDID, editorID)
}

// Field returns the text of the first child with the given tag
func (r *Record) Field(tag string) (string, bool) {
	return r.node.ChildText(tag)
}

// SetField updates the first child with the given tag or appends a new one
func (r *Record) SetField(tag, text string) *Node {
	if c := r.node.Find(tag); c != nil {
		c.Text = text
		return c
	}
	return r.node.Append(NewTextNode(tag, text))
}

// Label names the record for messages: editor id when present, otherwise tag and id
func (r *Record) Label() string {
	if edid := r.EditorID(); edid != "" {
		return edid
	}
	if id := r.FormIDText(); id != "" {
		return fmt.Sprintf("%s %s", r.node.Tag, id)
	}
	return r.node.Tag
}
