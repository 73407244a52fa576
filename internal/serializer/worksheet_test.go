package serializer

import (
	"testing"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

func TestSerializeWorksheetMergesPreservedRowAttrs(t *testing.T) {
	sheet := domain.NewSheet("Sheet1")
	a3, _ := domain.NewARef(0, 2) // A3, row index 2
	sheet.SetCell(a3, domain.TextValue("hi"))

	// Row 2 (r="3" on the wire) carries source-only attributes this
	// engine has no domain.RowProperties field for; row 5 (r="6")
	// existed in the source with no cells and no RowProperties at all.
	preserved := &xml.WorksheetPart{
		Rows: []xml.RawRow{
			{Index: 2, Spans: "1:4", ThickBot: true, DyDescent: "0.25"},
			{Index: 5},
		},
	}
	sheet.SourcePreserved = preserved

	si := manager.NewStyleIndex()
	sst := manager.NewSharedStringsTable()
	ws := SerializeWorksheet(sheet, true, si, sst, manager.SSTNever, "", false)

	if len(ws.Rows) != 2 {
		t.Fatalf("len(Rows) = %d; want 2 (row 2 with a cell, plus retained empty row 5)", len(ws.Rows))
	}

	row2 := ws.Rows[0]
	if row2.Index != 2 {
		t.Fatalf("Rows[0].Index = %d; want 2", row2.Index)
	}
	if row2.Spans != "1:4" || !row2.ThickBot || row2.DyDescent != "0.25" {
		t.Fatalf("preserved row attributes dropped on a modified sheet: %+v", row2)
	}
	if len(row2.Cells) != 1 || row2.Cells[0].Ref != "A3" {
		t.Fatalf("row2 cells = %+v; want the current domain cell A3", row2.Cells)
	}

	row5 := ws.Rows[1]
	if row5.Index != 5 {
		t.Fatalf("Rows[1].Index = %d; want 5 (the empty preserved row must be retained)", row5.Index)
	}
	if len(row5.Cells) != 0 {
		t.Fatalf("row5 should have no cells, got %+v", row5.Cells)
	}
}

func TestSerializeWorksheetDomainRowPropertiesOverlayPreserved(t *testing.T) {
	sheet := domain.NewSheet("Sheet1")
	sheet.RowProps[2] = domain.RowProperties{Hidden: true}

	preserved := &xml.WorksheetPart{
		Rows: []xml.RawRow{{Index: 2, Hidden: false, Spans: "1:2"}},
	}
	sheet.SourcePreserved = preserved

	si := manager.NewStyleIndex()
	sst := manager.NewSharedStringsTable()
	ws := SerializeWorksheet(sheet, true, si, sst, manager.SSTNever, "", false)

	if len(ws.Rows) != 1 {
		t.Fatalf("len(Rows) = %d; want 1", len(ws.Rows))
	}
	row := ws.Rows[0]
	if !row.Hidden {
		t.Fatalf("current domain.RowProperties.Hidden must override the stale preserved value")
	}
	if row.Spans != "1:2" {
		t.Fatalf("non-tracked preserved attributes (Spans) must still survive the overlay, got %q", row.Spans)
	}
}
