// Package xml holds the OOXML XML emission/parsing building blocks: the
// Sink abstraction (spec.md §4.1), the safe decoder (spec.md §4.2), the
// opaque Element tree used to preserve unrecognized XML (spec.md §9),
// and the per-part struct definitions the codecs marshal/unmarshal
// (spec.md §4.7). Grounded on the teacher's internal/xml struct-tag
// style for the per-part records, but the Sink itself is hand-rolled
// token emission: encoding/xml.Marshal follows struct field order, which
// cannot express "namespace declarations first, sorted by prefix, then
// remaining attributes sorted by name" for dynamically-assembled
// elements such as cellXfs or opaque fragments.
package xml

import (
	"bufio"
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

// Attr is one XML attribute to be written by a Sink. Name is either a
// bare local name ("r"), a prefixed name ("xml:space"), or a namespace
// declaration ("xmlns" or "xmlns:r").
type Attr struct {
	Name  string
	Value string
}

func (a Attr) isNamespaceDecl() bool {
	return a.Name == "xmlns" || strings.HasPrefix(a.Name, "xmlns:")
}

// SortAttrs orders attrs per spec.md §4.1: namespace declarations first
// (sorted by prefix), then the remaining attributes sorted by name. The
// input slice is not mutated; a new sorted slice is returned.
func SortAttrs(attrs []Attr) []Attr {
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := out[i].isNamespaceDecl(), out[j].isNamespaceDecl()
		if ni != nj {
			return ni // namespace decls sort before everything else
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Sink is the emission contract shared by every part codec: well-formed
// XML with deterministic, namespace-first attribute ordering (spec.md
// §4.1). Not safe for concurrent use; one Sink per output part.
type Sink interface {
	StartDocument() error
	EndDocument() error
	StartElement(name string, attrs ...Attr) error
	WriteAttribute(name, value string) error
	WriteCharacters(s string) error
	WriteRaw(xmlFragment string) error
	EndElement(name string) error
	Flush() error
}

// WithAttributes starts name with attrs (sorted per SortAttrs), runs
// body, then closes the element. This is the helper spec.md §4.1 asks
// for: startElement + sorted attributes + body + endElement as one unit.
func WithAttributes(s Sink, name string, attrs []Attr, body func() error) error {
	if err := s.StartElement(name, SortAttrs(attrs)...); err != nil {
		return err
	}
	if body != nil {
		if err := body(); err != nil {
			return err
		}
	}
	return s.EndElement(name)
}

// StreamSink is the streaming Sink implementation, backed by
// encoding/xml.Encoder for escaping and well-formedness, with a direct
// passthrough for WriteRaw (used for verbatim <rPr> fragment
// preservation, spec.md §4.7/§9). encoding/xml.Encoder.EncodeToken
// preserves the attribute order of the xml.StartElement.Attr slice
// verbatim (unlike Marshal, which follows struct field order), which is
// what lets SortAttrs's ordering reach the wire unchanged.
type StreamSink struct {
	w   *bufio.Writer
	enc *xml.Encoder
}

// NewStreamSink wraps w for streaming emission.
func NewStreamSink(w io.Writer) *StreamSink {
	bw := bufio.NewWriterSize(w, 32*1024)
	return &StreamSink{w: bw, enc: xml.NewEncoder(bw)}
}

// NewIndentedStreamSink wraps w the same way as NewStreamSink, but asks
// encoding/xml.Encoder to indent each nested element onto its own line
// (spec.md §6 prettyPrint option). encoding/xml already tracks whether
// character data was written inside an element and suppresses the
// surrounding newline/indent in that case, which is what keeps cell text
// content from picking up spurious whitespace.
func NewIndentedStreamSink(w io.Writer) *StreamSink {
	bw := bufio.NewWriterSize(w, 32*1024)
	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")
	return &StreamSink{w: bw, enc: enc}
}

func (s *StreamSink) StartDocument() error {
	_, err := s.w.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	return err
}

func (s *StreamSink) EndDocument() error { return s.Flush() }

func (s *StreamSink) StartElement(name string, attrs ...Attr) error {
	return s.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: toXMLAttrs(attrs)})
}

func (s *StreamSink) WriteAttribute(name, value string) error {
	// WriteAttribute is only meaningful between StartElement and the
	// first child/text/EndElement; encoding/xml.Encoder has no notion of
	// "attribute added after the fact", so callers needing additional
	// attributes should pass them to StartElement instead. Kept on the
	// interface because spec.md §4.1 names it explicitly; implemented as
	// a no-op-safe error for misuse rather than silently corrupting
	// output.
	return errAttrAfterStart{name}
}

func (s *StreamSink) WriteCharacters(text string) error {
	return s.enc.EncodeToken(xml.CharData([]byte(text)))
}

func (s *StreamSink) WriteRaw(fragment string) error {
	if err := s.enc.Flush(); err != nil {
		return err
	}
	_, err := s.w.WriteString(fragment)
	return err
}

func (s *StreamSink) EndElement(name string) error {
	return s.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (s *StreamSink) Flush() error {
	if err := s.enc.Flush(); err != nil {
		return err
	}
	return s.w.Flush()
}

func toXMLAttrs(attrs []Attr) []xml.Attr {
	out := make([]xml.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value}
	}
	return out
}

type errAttrAfterStart struct{ name string }

func (e errAttrAfterStart) Error() string {
	return "xml: WriteAttribute(" + e.name + ") called after StartElement; pass attributes to StartElement instead"
}
