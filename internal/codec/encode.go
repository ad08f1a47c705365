package codec

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"

	"esxforge/internal/domain"
)

// DefaultIndent is the indentation unit for indented output
const DefaultIndent = "  "

// Options controls serialization
type Options struct {
	// Indent writes one element per line with nested indentation.
	// Compact output (the default) inserts no whitespace.
	Indent bool
	// IndentString overrides DefaultIndent when Indent is set.
	IndentString string
}

// Encode writes the XML declaration followed by the element tree rooted at n.
// Attributes and children are written exactly in stored order.
func Encode(w io.Writer, n *domain.Node, opts Options) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(bw)
	if opts.Indent {
		indent := opts.IndentString
		if indent == "" {
			indent = DefaultIndent
		}
		enc.Indent("", indent)
	}

	if err := encodeNode(enc, n); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	if opts.Indent {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodePlugin writes a plugin document
func EncodePlugin(w io.Writer, p *domain.Plugin, opts Options) error {
	return Encode(w, p.Node(), opts)
}

// Marshal returns the serialized document for n
func Marshal(n *domain.Node, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(enc *xml.Encoder, n *domain.Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encodeNode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
