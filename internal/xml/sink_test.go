package xml

import (
	"bytes"
	"strings"
	"testing"
)

func TestSortAttrsNamespaceDeclsFirst(t *testing.T) {
	in := []Attr{
		{Name: "ref", Value: "A1"},
		{Name: "xmlns:r", Value: "urn:r"},
		{Name: "style", Value: "1"},
		{Name: "xmlns", Value: "urn:main"},
	}
	out := SortAttrs(in)
	want := []string{"xmlns", "xmlns:r", "ref", "style"}
	for i, w := range want {
		if out[i].Name != w {
			t.Fatalf("SortAttrs()[%d].Name = %q; want %q (full: %v)", i, out[i].Name, w, out)
		}
	}
	// input must not be mutated
	if in[0].Name != "ref" {
		t.Fatalf("SortAttrs mutated its input")
	}
}

func TestStreamSinkEmitsWellFormedXML(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := s.StartDocument(); err != nil {
		t.Fatalf("StartDocument: %v", err)
	}
	err := WithAttributes(s, "root", []Attr{{Name: "xmlns", Value: "urn:x"}, {Name: "a", Value: "1"}}, func() error {
		return WithAttributes(s, "child", nil, func() error {
			return s.WriteCharacters("text")
		})
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.EndDocument(); err != nil {
		t.Fatalf("EndDocument: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`) {
		t.Fatalf("missing XML declaration: %q", got)
	}
	if !strings.Contains(got, `<root xmlns="urn:x" a="1">`) {
		t.Fatalf("attribute order not preserved in output: %q", got)
	}
	if !strings.Contains(got, `<child>text</child>`) {
		t.Fatalf("child element/text missing: %q", got)
	}
	if !strings.Contains(got, `</root>`) {
		t.Fatalf("closing tag missing: %q", got)
	}
}

func TestStreamSinkWriteRawPassesThroughVerbatim(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	s.StartDocument()
	WithAttributes(s, "r", nil, func() error {
		return s.WriteRaw(`<rPr><b/></rPr>`)
	})
	s.EndDocument()

	if got := buf.String(); !strings.Contains(got, `<r><rPr><b/></rPr></r>`) {
		t.Fatalf("raw fragment not passed through verbatim: %q", got)
	}
}

func TestTreeSinkBuildsNestedStructure(t *testing.T) {
	s := NewTreeSink()
	s.StartDocument()
	s.StartElement("root", Attr{Name: "a", Value: "1"})
	s.StartElement("child")
	s.WriteCharacters("hi")
	s.EndElement("child")
	s.EndElement("root")
	s.EndDocument()

	root := s.Root()
	if root == nil || root.Name != "root" {
		t.Fatalf("Root() = %+v", root)
	}
	if len(root.Attrs) != 1 || root.Attrs[0].Value != "1" {
		t.Fatalf("root attrs = %v", root.Attrs)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "child" {
		t.Fatalf("root children = %v", root.Children)
	}
	if root.Children[0].Text != "hi" {
		t.Fatalf("child text = %q; want hi", root.Children[0].Text)
	}
}

func TestTreeSinkMismatchedEndElementErrors(t *testing.T) {
	s := NewTreeSink()
	s.StartElement("root")
	if err := s.EndElement("other"); err == nil {
		t.Fatalf("expected error for mismatched EndElement")
	}
}
