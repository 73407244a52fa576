package domain

import "testing"

func TestNewWorkbookHasOneSheet(t *testing.T) {
	wb := NewWorkbook()
	if len(wb.Sheets) != 1 {
		t.Fatalf("len(Sheets) = %d; want 1", len(wb.Sheets))
	}
	if wb.Sheets[0].Name != "Sheet1" {
		t.Fatalf("Sheets[0].Name = %q; want Sheet1", wb.Sheets[0].Name)
	}
	if err := wb.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
}

func TestAddSheetRejectsDuplicateName(t *testing.T) {
	wb := NewWorkbook()
	if _, err := wb.AddSheet("Sheet1"); err == nil {
		t.Fatalf("expected error adding a sheet with a duplicate name")
	}
	s, err := wb.AddSheet("Sheet2")
	if err != nil {
		t.Fatalf("AddSheet(Sheet2): %v", err)
	}
	if s.index != 1 {
		t.Fatalf("new sheet index = %d; want 1", s.index)
	}
	if !wb.Tracker().Reordered() {
		t.Fatalf("AddSheet should mark the workbook reordered")
	}
}

func TestDeleteSheetShiftsIndicesAndRejectsLast(t *testing.T) {
	wb := NewWorkbook()
	s2, _ := wb.AddSheet("Sheet2")
	s3, _ := wb.AddSheet("Sheet3")
	s3.SetCell(MustARef(0, 0), TextValue("x")) // marks sheet 2 modified

	if err := wb.DeleteSheet(0); err != nil {
		t.Fatalf("DeleteSheet(0): %v", err)
	}
	if len(wb.Sheets) != 2 {
		t.Fatalf("len(Sheets) = %d; want 2", len(wb.Sheets))
	}
	if wb.Sheets[0] != s2 || wb.Sheets[1] != s3 {
		t.Fatalf("unexpected sheet order after delete")
	}
	if s3.index != 1 {
		t.Fatalf("s3.index = %d; want 1 after shifting", s3.index)
	}
	if _, ok := wb.Tracker().ModifiedSheets()[1]; !ok {
		t.Fatalf("modified sheet index should have shifted to 1")
	}

	if err := wb.DeleteSheet(0); err != nil {
		t.Fatalf("DeleteSheet(0): %v", err)
	}
	if err := wb.DeleteSheet(0); err == nil {
		t.Fatalf("deleting the last remaining sheet should fail")
	}
}

func TestRenameSheetRejectsCollision(t *testing.T) {
	wb := NewWorkbook()
	wb.AddSheet("Sheet2")
	if err := wb.RenameSheet(1, "Sheet1"); err == nil {
		t.Fatalf("expected error renaming to an existing sheet name")
	}
	if err := wb.RenameSheet(1, "Renamed"); err != nil {
		t.Fatalf("RenameSheet: %v", err)
	}
	if wb.SheetByName("Renamed") == nil {
		t.Fatalf("SheetByName(Renamed) = nil after rename")
	}
}

func TestValidateRejectsZeroSheetsAndDuplicateNames(t *testing.T) {
	empty := &Workbook{tracker: NewModificationTracker()}
	if err := empty.Validate(); err == nil {
		t.Fatalf("Validate() on a zero-sheet workbook should fail")
	}

	wb := NewWorkbook()
	dup := NewSheet("Sheet1")
	wb.Sheets = append(wb.Sheets, dup)
	if err := wb.Validate(); err == nil {
		t.Fatalf("Validate() should reject duplicate sheet names")
	}
}
