package domain

import (
	"strconv"
)

// HeaderData is the content of the HEDR struct
type HeaderData struct {
	Version      string
	NumRecords   int
	NextObjectID FormID
}

// Header is the TES4 plugin header record
type Header struct {
	*Record
}

// NewHeader creates an empty TES4 record with the standard bookkeeping attributes
func NewHeader() *Header {
	n := NewNode(TagTES4,
		Attr{"flags", "0x00000000"},
		Attr{"id", "00000000"},
		Attr{"day", "0"},
		Attr{"month", "0"},
		Attr{"lastUserID", "0"},
		Attr{"currentUserID", "0"},
		Attr{"version", "44"},
		Attr{"unknown", "0x0000"},
	)
	return &Header{Record: WrapRecord(n)}
}

// WrapHeader wraps an existing TES4 element
func WrapHeader(n *Node) *Header {
	return &Header{Record: WrapRecord(n)}
}

// Masters returns master file names in dependency order
func (h *Header) Masters() []string {
	var masters []string
	for _, m := range h.node.FindAll(TagMAST) {
		masters = append(masters, m.Text)
	}
	return masters
}

// AddMaster appends a MAST entry and its DATA sentinel
func (h *Header) AddMaster(name string) {
	h.node.Append(NewTextNode(TagMAST, name))
	h.node.Append(NewTextNode(TagDATA, "0"))
}

// Author returns the CNAM text
func (h *Header) Author() string {
	text, _ := h.node.ChildText(TagCNAM)
	return text
}

// SetAuthor updates or appends CNAM
func (h *Header) SetAuthor(author string) {
	h.SetField(TagCNAM, author)
}

// Data reads the HEDR struct. ok is false when the header has no HEDR.
func (h *Header) Data() (data HeaderData, ok bool, err error) {
	hedr := h.node.Find(TagHEDR)
	if hedr == nil {
		return HeaderData{}, false, nil
	}
	s := hedr.Find(TagStruct)
	if s == nil {
		return HeaderData{}, true, &StructuralIntegrityError{Record: TagTES4, Reason: "HEDR has no struct"}
	}

	data.Version = s.AttrValue("version", "")
	if raw, ok := s.Attr("numRecords"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return data, true, &FormatError{Tag: "numRecords", Value: raw, Err: err}
		}
		data.NumRecords = n
	}
	if raw, ok := s.Attr("nextObjectID"); ok {
		id, err := ParseFormID(raw)
		if err != nil {
			return data, true, err
		}
		data.NextObjectID = id
	}
	return data, true, nil
}

// SetData writes the HEDR struct, inserting HEDR as the first header child when missing
func (h *Header) SetData(data HeaderData) {
	hedr := h.node.Find(TagHEDR)
	if hedr == nil {
		hedr = h.node.Insert(0, NewNode(TagHEDR))
	}
	s := hedr.Find(TagStruct)
	if s == nil {
		s = hedr.Append(NewNode(TagStruct))
	}
	version := data.Version
	if version == "" {
		version = DefaultHeaderVersion
	}
	s.SetAttr("version", version)
	s.SetAttr("numRecords", strconv.Itoa(data.NumRecords))
	s.SetAttr("nextObjectID", data.NextObjectID.String())
}
