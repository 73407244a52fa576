package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"

	pkgerrors "github.com/mmonterroca/xlsxcore/pkg/errors"
)

const opSafeDecode = "xml.SafeDecode"

// SafeDecode parses data into an opaque Element tree, refusing DOCTYPE
// declarations (and therefore internal/external/parameter entities) and
// XInclude processing instructions (spec.md §4.2). Go's
// encoding/xml.Decoder never resolves external entities or expands
// XInclude on its own — it only special-cases entities present in an
// explicit Decoder.Entity map, which this function never sets — so the
// only additional defense needed is rejecting the DOCTYPE token itself
// before any of its content could influence parsing.
//
// Every parser in this engine routes through this one entry point
// (spec.md §4.2: "All parsers in the system route through this one
// entry point").
func SafeDecode(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, pkgerrors.ParseError(opSafeDecode, locationOf(dec), err.Error())
		}
		switch t := tok.(type) {
		case xml.Directive:
			if looksLikeDoctype(t) {
				return nil, pkgerrors.SecurityError(opSafeDecode, "DOCTYPE declarations are not permitted")
			}
		case xml.ProcInst:
			if t.Target == "xinclude" {
				return nil, pkgerrors.SecurityError(opSafeDecode, "XInclude processing instructions are not permitted")
			}
		case xml.StartElement:
			elem, err := parseElement(dec, t)
			if err != nil {
				return nil, pkgerrors.ParseError(opSafeDecode, locationOf(dec), err.Error())
			}
			return elem, nil
		}
	}
}

func looksLikeDoctype(d xml.Directive) bool {
	s := bytes.TrimSpace(d)
	return bytes.HasPrefix(bytes.ToUpper(s), []byte("DOCTYPE"))
}

func locationOf(dec *xml.Decoder) string {
	line, col := dec.InputPos()
	return fmt.Sprintf("line %d, column %d", line, col)
}

// Element is a generic, order-preserving XML node used to hold
// unrecognized subtrees verbatim so round-trips preserve them (spec.md
// §4.7, §9: "Opaque 'other elements'... store them as immutable byte
// slices or an AST node variant; never re-synthesize").
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

// Attr looks up an attribute by local name, ignoring namespace.
func (e *Element) Attr(local string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given local name.
func (e *Element) Child(local string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given local name.
func (e *Element) ChildrenNamed(local string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	elem := &Element{Name: start.Name, Attrs: append([]xml.Attr(nil), start.Attr...)}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			elem.Children = append(elem.Children, child)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return elem, nil
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				elem.Text += string(t)
			}
		case xml.Directive:
			if looksLikeDoctype(t) {
				return nil, fmt.Errorf("DOCTYPE declarations are not permitted")
			}
		case xml.ProcInst:
			if t.Target == "xinclude" {
				return nil, fmt.Errorf("XInclude processing instructions are not permitted")
			}
		}
	}
}
