package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"esxforge/internal/domain"
)

// ReadTree decodes one XML document into a detached element tree.
//
// Text of elements that have child elements is trimmed, so indented and
// compact output read back to the same tree. Comments,
// processing instructions and directives are skipped. Plugin documents carry no
// XML namespaces; a namespaced element or attribute is a FormatError because
// its prefix could not be written back.
func ReadTree(r io.Reader, source string) (*domain.Node, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *domain.Node
		stack []*domain.Node
		texts []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.FormatError{Source: source, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := checkNamespace(t); err != nil {
				return nil, &domain.FormatError{Source: source, Err: err}
			}
			n := domain.NewNode(t.Name.Local)
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, domain.Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &domain.FormatError{Source: source, Err: fmt.Errorf("multiple root elements")}
				}
				root = n
			} else {
				stack[len(stack)-1].Append(n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})

		case xml.CharData:
			if len(stack) > 0 {
				texts[len(texts)-1].Write(t)
			}

		case xml.EndElement:
			n := stack[len(stack)-1]
			text := texts[len(texts)-1].String()
			if len(n.Children) > 0 {
				text = strings.TrimSpace(text)
			}
			n.Text = text
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		}
	}

	if root == nil {
		return nil, &domain.FormatError{Source: source, Err: fmt.Errorf("document has no root element")}
	}
	return root, nil
}

var errNamespace = errors.New("xml namespaces are not supported")

func checkNamespace(t xml.StartElement) error {
	if t.Name.Space != "" {
		return fmt.Errorf("%w: element in %q", errNamespace, t.Name.Space)
	}
	for _, a := range t.Attr {
		if a.Name.Space != "" || a.Name.Local == "xmlns" {
			return fmt.Errorf("%w: attribute %s", errNamespace, xmlName(a.Name))
		}
	}
	return nil
}

func xmlName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
