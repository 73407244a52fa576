package xml

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseWorksheetPartRoundTrip(t *testing.T) {
	src := `<worksheet xmlns="urn:x" xmlns:r="urn:r">` +
		`<sheetViews><sheetView/></sheetViews>` +
		`<sheetData>` +
		`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>42</v></c></row>` +
		`</sheetData>` +
		`<mergeCells count="1"><mergeCell ref="A1:B1"/></mergeCells>` +
		`</worksheet>`

	elem, err := SafeDecode([]byte(src))
	if err != nil {
		t.Fatalf("SafeDecode: %v", err)
	}
	wp := ParseWorksheetPart(elem)

	if len(wp.Rows) != 1 {
		t.Fatalf("len(Rows) = %d; want 1", len(wp.Rows))
	}
	row := wp.Rows[0]
	if row.Index != 0 {
		t.Fatalf("Rows[0].Index = %d; want 0", row.Index)
	}
	if len(row.Cells) != 2 {
		t.Fatalf("len(Cells) = %d; want 2", len(row.Cells))
	}
	if row.Cells[0].Ref != "A1" || row.Cells[0].Type != "s" || row.Cells[0].ValueRaw != "0" {
		t.Fatalf("Cells[0] = %+v", row.Cells[0])
	}
	if row.Cells[1].Ref != "B1" || row.Cells[1].ValueRaw != "42" {
		t.Fatalf("Cells[1] = %+v", row.Cells[1])
	}
	if len(wp.Merges) != 1 || wp.Merges[0] != "A1:B1" {
		t.Fatalf("Merges = %v", wp.Merges)
	}
	// sheetViews appeared before sheetData and isn't a section this
	// engine regenerates, so it must be preserved as an opaque Before
	// element.
	if len(wp.Before) != 1 || wp.Before[0].Name.Local != "sheetViews" {
		t.Fatalf("Before = %v", wp.Before)
	}

	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := wp.Write(s, "A1:B1"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<sheetViews><sheetView></sheetView></sheetViews>`) {
		t.Fatalf("preserved sheetViews missing from output: %q", out)
	}
	if !strings.Contains(out, `<dimension ref="A1:B1">`) {
		t.Fatalf("dimension missing from output: %q", out)
	}
	if !strings.Contains(out, `<mergeCells count="1"><mergeCell ref="A1:B1">`) {
		t.Fatalf("mergeCells missing from output: %q", out)
	}
}

func TestParseWorksheetPartRowAttrsRoundTrip(t *testing.T) {
	src := `<worksheet xmlns="urn:x"><sheetData>` +
		`<row r="1" spans="1:3" thickTop="1" thickBot="1" x14ac:dyDescent="0.25"></row>` +
		`</sheetData></worksheet>`
	elem, err := SafeDecode([]byte(src))
	if err != nil {
		t.Fatalf("SafeDecode: %v", err)
	}
	wp := ParseWorksheetPart(elem)
	row := wp.Rows[0]
	if row.Spans != "1:3" {
		t.Fatalf("Spans = %q; want %q", row.Spans, "1:3")
	}
	if !row.ThickTop || !row.ThickBot {
		t.Fatalf("ThickTop/ThickBot = %v/%v; want true/true", row.ThickTop, row.ThickBot)
	}
	if row.DyDescent != "0.25" {
		t.Fatalf("DyDescent = %q; want %q", row.DyDescent, "0.25")
	}

	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := wp.Write(s, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`spans="1:3"`, `thickBot="1"`, `thickTop="1"`, `x14ac:dyDescent="0.25"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}
}

func TestParseWorksheetPartInlineStringCell(t *testing.T) {
	src := `<worksheet xmlns="urn:x"><sheetData>` +
		`<row r="1"><c r="A1" t="inlineStr"><is><t>hello</t></is></c></row>` +
		`</sheetData></worksheet>`
	elem, err := SafeDecode([]byte(src))
	if err != nil {
		t.Fatalf("SafeDecode: %v", err)
	}
	wp := ParseWorksheetPart(elem)
	cell := wp.Rows[0].Cells[0]
	if len(cell.Inline) != 1 || cell.Inline[0].Text != "hello" {
		t.Fatalf("Inline = %v", cell.Inline)
	}

	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := wp.Write(s, "A1"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `<is><t>hello</t></is>`) {
		t.Fatalf("inline string not re-emitted: %q", buf.String())
	}
}
