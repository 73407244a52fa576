package xlsxcore

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmonterroca/xlsxcore/domain"
)

func TestNewWorkbookRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	sheet := wb.Sheets[0]

	a1, _ := ParseARef("A1")
	b1, _ := ParseARef("B1")
	sheet.SetCell(a1, TextValue("hello"))
	sheet.SetCell(b1, domain.NumberValue(decimal.NewFromInt(42)))

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := Save(wb, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, warnings, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings on a freshly-written workbook: %v", warnings)
	}
	if len(got.Sheets) != 1 {
		t.Fatalf("len(Sheets) = %d; want 1", len(got.Sheets))
	}
	gotSheet := got.Sheets[0]
	if gotSheet.Name != "Sheet1" {
		t.Fatalf("Name = %q; want Sheet1", gotSheet.Name)
	}

	cellA1, ok := gotSheet.Cells[a1]
	if !ok {
		t.Fatalf("A1 missing after round trip")
	}
	if cellA1.Value.Text != "hello" {
		t.Fatalf("A1 text = %q; want hello", cellA1.Value.Text)
	}

	cellB1, ok := gotSheet.Cells[b1]
	if !ok {
		t.Fatalf("B1 missing after round trip")
	}
	if !cellB1.Value.Number.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("B1 number = %v; want 42", cellB1.Value.Number)
	}
}

func TestEmptyWorkbookRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := Save(wb, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got.Sheets) != 1 || got.Sheets[0].Name != "Sheet1" {
		t.Fatalf("round-tripped empty workbook = %+v", got.Sheets)
	}
	if _, ok := got.Sheets[0].Dimension(); ok {
		t.Fatalf("an empty sheet should report no dimension")
	}
}
