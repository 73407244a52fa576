package manager

import (
	"testing"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

func TestNewStyleIndexPrependsDefaults(t *testing.T) {
	si := NewStyleIndex()
	if len(si.fills) != 2 || si.fills[0].PatternType != "none" || si.fills[1].PatternType != "gray125" {
		t.Fatalf("fills = %v; want [none gray125] prefix", si.fills)
	}
	if len(si.cellXfs) != 1 {
		t.Fatalf("len(cellXfs) = %d; want 1 (the default style at slot 0)", len(si.cellXfs))
	}
	if id := si.Add(domain.DefaultCellStyle()); id != 0 {
		t.Fatalf("Add(default) = %d; want 0", id)
	}
}

func TestStyleIndexDedupByCanonicalKey(t *testing.T) {
	si := NewStyleIndex()
	red := domain.CellStyle{Font: domain.Font{Name: "Calibri", Size: 11, Bold: true, ColorRGB: "FFFF0000"}}

	id1 := si.Add(red)
	id2 := si.Add(red)
	if id1 != id2 {
		t.Fatalf("two canonically-equal styles got different cellXfs ids: %d vs %d", id1, id2)
	}

	blue := red
	blue.Font.ColorRGB = "FF0000FF"
	id3 := si.Add(blue)
	if id3 == id1 {
		t.Fatalf("distinct styles should not share a cellXfs id")
	}
}

func TestStyleIndexNumFmtBuiltinReuse(t *testing.T) {
	si := NewStyleIndex()
	cs := domain.CellStyle{NumFmt: domain.NumFmt{Code: "0.00%"}}
	id := si.Add(cs)
	xf := si.cellXfs[id]
	if xf.NumFmtID != 10 {
		t.Fatalf("NumFmtID = %d; want 10 (builtin 0.00%%)", xf.NumFmtID)
	}
	if len(si.numFmts) != 0 {
		t.Fatalf("a builtin format code should not allocate a custom numFmt entry")
	}
}

func TestStyleIndexNumFmtCustomAllocation(t *testing.T) {
	si := NewStyleIndex()
	cs := domain.CellStyle{NumFmt: domain.NumFmt{Code: "#,##0.0000"}}
	id := si.Add(cs)
	xf := si.cellXfs[id]
	if xf.NumFmtID != firstCustomNumFmt {
		t.Fatalf("NumFmtID = %d; want first custom slot %d", xf.NumFmtID, firstCustomNumFmt)
	}

	cs2 := domain.CellStyle{NumFmt: domain.NumFmt{Code: "#,##0.00000"}}
	id2 := si.Add(cs2)
	xf2 := si.cellXfs[id2]
	if xf2.NumFmtID != firstCustomNumFmt+1 {
		t.Fatalf("second custom format got id %d; want %d", xf2.NumFmtID, firstCustomNumFmt+1)
	}
}

func TestStyleIndexFromSourcePreservesOriginalIndices(t *testing.T) {
	source := &xml.StylesPart{
		Fonts:   []xml.FontRecord{{Name: "Calibri", Size: 11}, {Name: "Arial", Size: 12, Bold: true}},
		Fills:   []xml.FillRecord{{PatternType: "none"}, {PatternType: "gray125"}},
		Borders: []xml.BorderRecord{{}},
		CellXfs: []xml.XfRecord{
			{FontID: 0, FillID: 0, BorderID: 0, HasXfID: true},
			{FontID: 1, FillID: 0, BorderID: 0, HasXfID: true, ApplyFont: true},
		},
	}
	si := NewStyleIndexFromSource(source)

	arialBold := domain.CellStyle{Font: domain.Font{Name: "Arial", Size: 12, Bold: true}}
	if id := si.Add(arialBold); id != 1 {
		t.Fatalf("re-adding a style matching the preserved cellXfs[1] should reuse index 1, got %d", id)
	}

	brandNew := domain.CellStyle{Font: domain.Font{Name: "Wingdings", Size: 8}}
	if id := si.Add(brandNew); id != 2 {
		t.Fatalf("a genuinely new style should be appended at index 2, got %d", id)
	}
	if len(si.cellXfs) != 3 {
		t.Fatalf("len(cellXfs) = %d; want 3", len(si.cellXfs))
	}
}

func TestStyleIndexFromSourceHonorsExplicitNumFmtID(t *testing.T) {
	source := &xml.StylesPart{
		CellXfs: []xml.XfRecord{{HasXfID: true}},
	}
	si := NewStyleIndexFromSource(source)
	weirdID := 200
	cs := domain.CellStyle{NumFmt: domain.NumFmt{Code: "0.00%"}, NumFmtID: &weirdID}
	id := si.Add(cs)
	if si.cellXfs[id].NumFmtID != weirdID {
		t.Fatalf("explicit NumFmtID should be honored verbatim, got %d want %d", si.cellXfs[id].NumFmtID, weirdID)
	}
}

func TestStyleIndexFromSourcePreservesDxfsAndRootAttrs(t *testing.T) {
	dxfs := &xml.Element{}
	source := &xml.StylesPart{
		CellXfs:   []xml.XfRecord{{HasXfID: true}},
		Dxfs:      dxfs,
		RootAttrs: []xml.Attr{{Name: "xmlns", Value: "urn:main"}, {Name: "xmlns:mc", Value: "urn:mc"}},
	}
	si := NewStyleIndexFromSource(source)
	sp := si.StylesPart()
	if sp.Dxfs != dxfs {
		t.Fatalf("StylesPart().Dxfs must round-trip the source <dxfs> element, a hybrid write always regenerates styles.xml")
	}
	if len(sp.RootAttrs) != 2 || sp.RootAttrs[1].Name != "xmlns:mc" {
		t.Fatalf("StylesPart().RootAttrs = %v; want source root namespace declarations preserved", sp.RootAttrs)
	}
}

func TestStylesPartChildOrder(t *testing.T) {
	si := NewStyleIndex()
	si.Add(domain.CellStyle{Font: domain.Font{Name: "Arial", Size: 10}})
	sp := si.StylesPart()
	if len(sp.Fonts) != 2 { // default Calibri + Arial
		t.Fatalf("len(Fonts) = %d; want 2", len(sp.Fonts))
	}
	if len(sp.CellStyleXfs) != 1 {
		t.Fatalf("StylesPart must always carry exactly one cellStyleXfs entry")
	}
	if len(sp.CellStyles) != 1 || sp.CellStyles[0].Name != "Normal" {
		t.Fatalf("CellStyles = %v; want a single Normal entry", sp.CellStyles)
	}
}
