package xml

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseStylesPartPreservesRootAttrsAndDxfs(t *testing.T) {
	src := `<styleSheet xmlns="urn:main" xmlns:mc="urn:mc" xmlns:x14ac="urn:x14ac">` +
		`<fonts count="1"><font><sz val="11"/><name val="Calibri"/></font></fonts>` +
		`<cellXfs count="1"><xf/></cellXfs>` +
		`<dxfs count="1"><dxf><font><b/></font></dxf></dxfs>` +
		`</styleSheet>`

	elem, err := SafeDecode([]byte(src))
	if err != nil {
		t.Fatalf("SafeDecode: %v", err)
	}
	sp := ParseStylesPart(elem)

	if len(sp.RootAttrs) != 3 {
		t.Fatalf("RootAttrs = %v; want 3 namespace declarations", sp.RootAttrs)
	}
	found := false
	for _, a := range sp.RootAttrs {
		if a.Name == "xmlns:mc" && a.Value == "urn:mc" {
			found = true
		}
	}
	if !found {
		t.Fatalf("RootAttrs missing xmlns:mc, got %v", sp.RootAttrs)
	}
	if sp.Dxfs == nil {
		t.Fatalf("Dxfs must be captured from the source <dxfs> element")
	}

	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := sp.Write(s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `xmlns:mc="urn:mc"`) {
		t.Fatalf("regenerated styleSheet root dropped xmlns:mc: %q", out)
	}
	if !strings.Contains(out, "<dxfs") || !strings.Contains(out, "<dxf>") {
		t.Fatalf("regenerated styles.xml dropped <dxfs>: %q", out)
	}
}

func TestStylesPartWriteDefaultsRootAttrsWhenAbsent(t *testing.T) {
	sp := &StylesPart{CellXfs: []XfRecord{{HasXfID: true}}}
	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := sp.Write(s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"`) {
		t.Fatalf("a from-scratch StylesPart must fall back to the bare spreadsheetML xmlns: %q", buf.String())
	}
}
