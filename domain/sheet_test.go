package domain

import "testing"

func TestSheetDimension(t *testing.T) {
	s := NewSheet("Sheet1")
	if _, ok := s.Dimension(); ok {
		t.Fatalf("empty sheet should report no dimension")
	}

	s.SetCell(MustARef(2, 3), TextValue("c"))
	s.SetCell(MustARef(0, 5), TextValue("a"))
	s.SetCell(MustARef(4, 1), TextValue("b"))

	dim, ok := s.Dimension()
	if !ok {
		t.Fatalf("expected a dimension after setting cells")
	}
	if dim.From.Col() != 0 || dim.From.Row() != 1 {
		t.Fatalf("dim.From = %v; want A2 (col 0, row 1)", dim.From)
	}
	if dim.To.Col() != 4 || dim.To.Row() != 5 {
		t.Fatalf("dim.To = %v; want E6 (col 4, row 5)", dim.To)
	}
}

func TestSheetMergeCellsRejectsSingleCell(t *testing.T) {
	s := NewSheet("Sheet1")
	a := MustARef(0, 0)
	if err := s.MergeCells(Range{From: a, To: a}); err == nil {
		t.Fatalf("expected error merging a single-cell range")
	}
	if err := s.MergeCells(Range{From: a, To: MustARef(1, 0)}); err != nil {
		t.Fatalf("MergeCells(A1:B1): %v", err)
	}
	if len(s.Merges) != 1 {
		t.Fatalf("len(Merges) = %d; want 1", len(s.Merges))
	}
}

func TestSheetSetCellMarksModified(t *testing.T) {
	wb := NewWorkbook()
	sheet := wb.Sheets[0]
	if !wb.IsClean() {
		t.Fatalf("freshly created workbook should be clean before mutation")
	}
	sheet.SetCell(MustARef(0, 0), TextValue("x"))
	if wb.IsClean() {
		t.Fatalf("workbook should not be clean after SetCell")
	}
	if _, ok := wb.Tracker().ModifiedSheets()[0]; !ok {
		t.Fatalf("sheet 0 should be recorded as modified")
	}
}

func TestStyleRegistryDedup(t *testing.T) {
	r := NewStyleRegistry()
	cs := CellStyle{Font: Font{Name: "Arial", Size: 12}}
	id1 := r.Add(cs)
	id2 := r.Add(cs)
	if id1 != id2 {
		t.Fatalf("identical styles should dedup: got %d and %d", id1, id2)
	}
	other := CellStyle{Font: Font{Name: "Arial", Size: 14}}
	id3 := r.Add(other)
	if id3 == id1 {
		t.Fatalf("distinct styles should not collide")
	}
	got, ok := r.Get(id1)
	if !ok || got.Font.Name != "Arial" {
		t.Fatalf("Get(%d) = %+v, %v", id1, got, ok)
	}
}
