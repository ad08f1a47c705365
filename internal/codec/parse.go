package codec

import (
	"bytes"
	"errors"
	"io"

	"esxforge/internal/domain"
	"esxforge/internal/logger"
)

// Decode reads and parses a plugin document. source names the input in errors.
func Decode(r io.Reader, source string) (*domain.Plugin, error) {
	root, err := ReadTree(r, source)
	if err != nil {
		return nil, err
	}
	return ParsePlugin(root, source)
}

// Unmarshal parses a plugin document held in memory
func Unmarshal(data []byte, source string) (*domain.Plugin, error) {
	return Decode(bytes.NewReader(data), source)
}

// ParsePlugin binds typed wrappers over a decoded tree: the TES4 header,
// each GRUP and the records inside. Children of other kinds stay in the tree
// untouched. Any failure aborts the parse and no plugin is returned.
func ParsePlugin(root *domain.Node, source string) (*domain.Plugin, error) {
	p := domain.WrapPlugin(root)

	for _, child := range root.Children {
		switch child.Tag {
		case domain.TagTES4:
			h, err := parseHeader(child, source)
			if err != nil {
				return nil, err
			}
			if err := p.BindHeader(h); err != nil {
				return nil, withSource(err, source)
			}
		case domain.TagGRUP:
			g, err := parseGroup(child, source)
			if err != nil {
				return nil, err
			}
			if err := p.BindGroup(g); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("parsed plugin", "source", source, "groups", len(p.Groups()), "records", len(p.Records()))
	return p, nil
}

func parseHeader(n *domain.Node, source string) (*domain.Header, error) {
	h := domain.WrapHeader(n)
	if _, _, err := h.Data(); err != nil {
		return nil, withSource(err, source)
	}
	return h, nil
}

func parseGroup(n *domain.Node, source string) (*domain.Group, error) {
	g := domain.WrapGroup(n)

	for _, child := range n.Children {
		var entry domain.Entry
		if child.Tag == domain.TagQUST {
			q, err := parseQuest(child, source)
			if err != nil {
				return nil, err
			}
			entry = q
		} else {
			entry = domain.WrapRecord(child)
		}
		if err := g.Bind(entry); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func parseQuest(n *domain.Node, source string) (*domain.Quest, error) {
	q := domain.WrapQuest(n)
	if err := Reconstruct(q); err != nil {
		return nil, withSource(err, source)
	}
	logger.Debug("parsed quest",
		"source", source,
		"editor_id", q.EditorID(),
		"aliases", len(q.Aliases),
		"objectives", len(q.Objectives))
	return q, nil
}

// withSource stamps the input name onto format and structural errors
func withSource(err error, source string) error {
	if source == "" {
		return err
	}
	var fe *domain.FormatError
	if errors.As(err, &fe) && fe.Source == "" {
		fe.Source = source
		return err
	}
	var se *domain.StructuralIntegrityError
	if errors.As(err, &se) {
		return &sourceError{source: source, err: err}
	}
	return err
}

type sourceError struct {
	source string
	err    error
}

func (e *sourceError) Error() string { return e.source + ": " + e.err.Error() }

func (e *sourceError) Unwrap() error { return e.err }
