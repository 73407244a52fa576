package xml

import (
	"strconv"

	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// SSTRun is one formatted run inside a rich-text shared-string entry
// (an <r> element: optional <rPr>, raw and preserved verbatim, plus
// <t> text).
type SSTRun struct {
	RawRPr string // the <rPr>...</rPr> fragment verbatim, or "" if none
	Text   string
}

// SSTEntry is one <si> entry in sharedStrings.xml: either plain text or
// a sequence of rich-text runs (spec.md §4.6).
type SSTEntry struct {
	PlainText string
	Runs      []SSTRun
	IsRich    bool
}

// SharedStringsPart mirrors xl/sharedStrings.xml.
type SharedStringsPart struct {
	Entries     []SSTEntry
	Count       int
	UniqueCount int
}

// ParseSharedStringsPart hydrates a SharedStringsPart from the root
// <sst> Element.
func ParseSharedStringsPart(root *Element) *SharedStringsPart {
	sp := &SharedStringsPart{}
	if v, ok := root.Attr("count"); ok {
		sp.Count, _ = strconv.Atoi(v)
	}
	if v, ok := root.Attr("uniqueCount"); ok {
		sp.UniqueCount, _ = strconv.Atoi(v)
	}
	for _, si := range root.ChildrenNamed("si") {
		sp.Entries = append(sp.Entries, parseSSTEntry(si))
	}
	return sp
}

func parseSSTEntry(si *Element) SSTEntry {
	runs := si.ChildrenNamed("r")
	if len(runs) == 0 {
		if t := si.Child("t"); t != nil {
			return SSTEntry{PlainText: t.Text}
		}
		return SSTEntry{}
	}
	entry := SSTEntry{IsRich: true}
	for _, r := range runs {
		run := SSTRun{}
		if t := r.Child("t"); t != nil {
			run.Text = t.Text
		}
		if rpr := r.Child("rPr"); rpr != nil {
			run.RawRPr = renderRawElement(rpr)
		}
		entry.Runs = append(entry.Runs, run)
	}
	return entry
}

// renderRawElement serializes an Element subtree back to an XML
// fragment, used to preserve <rPr> verbatim through an in-memory
// representation rather than re-deriving its attributes (spec.md §4.7:
// "Rich-text run formatting (<rPr>) is carried as an opaque raw XML
// fragment").
func renderRawElement(e *Element) string {
	sink := NewTreeSink()
	_ = writeOpaque(sink, e)
	return renderTreeNode(sink.Root())
}

func renderTreeNode(n *TreeNode) string {
	if n == nil {
		return ""
	}
	out := "<" + n.Name
	for _, a := range n.Attrs {
		out += " " + a.Name + `="` + escapeAttr(a.Value) + `"`
	}
	if len(n.Children) == 0 && n.Text == "" {
		return out + "/>"
	}
	out += ">"
	out += escapeText(n.Text)
	for _, c := range n.Children {
		out += renderTreeNode(c)
	}
	out += "</" + n.Name + ">"
	return out
}

func escapeAttr(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch r {
		case '&':
			out = append(out, "&amp;"...)
		case '"':
			out = append(out, "&quot;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, string(r)...)
		}
	}
	return string(out)
}

func escapeText(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch r {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, string(r)...)
		}
	}
	return string(out)
}

// Write emits sharedStrings.xml, adding xml:space="preserve" to each <t>
// element whose text has leading or trailing whitespace.
func (sp *SharedStringsPart) Write(s Sink) error {
	if err := s.StartDocument(); err != nil {
		return err
	}
	attrs := []Attr{
		{Name: "xmlns", Value: pkgconst.NamespaceSpreadsheetML},
		{Name: "count", Value: strconv.Itoa(sp.Count)},
		{Name: "uniqueCount", Value: strconv.Itoa(len(sp.Entries))},
	}
	err := WithAttributes(s, "sst", attrs, func() error {
		for _, e := range sp.Entries {
			if err := writeSSTEntry(s, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.EndDocument()
}

func writeSSTEntry(s Sink, e SSTEntry) error {
	return WithAttributes(s, "si", nil, func() error {
		if !e.IsRich {
			return writeSSTText(s, e.PlainText)
		}
		for _, r := range e.Runs {
			err := WithAttributes(s, "r", nil, func() error {
				if r.RawRPr != "" {
					if err := s.WriteRaw(r.RawRPr); err != nil {
						return err
					}
				}
				return writeSSTText(s, r.Text)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSSTText(s Sink, text string) error {
	attrs := []Attr(nil)
	if needsPreserveSpace(text) {
		attrs = []Attr{{Name: "xml:space", Value: "preserve"}}
	}
	return WithAttributes(s, "t", attrs, func() error {
		return s.WriteCharacters(text)
	})
}

func needsPreserveSpace(s string) bool {
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	isSpace := func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
	return isSpace(first) || isSpace(last)
}
