package manager

import (
	"testing"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

func TestAddPlainTextDedup(t *testing.T) {
	t1 := NewSharedStringsTable()
	id1 := t1.AddPlainText("hello")
	id2 := t1.AddPlainText("hello")
	if id1 != id2 {
		t.Fatalf("identical strings should share an SST index: %d vs %d", id1, id2)
	}
	if t1.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", t1.Len())
	}

	id3 := t1.AddPlainText("world")
	if id3 == id1 {
		t.Fatalf("distinct strings should not share an SST index")
	}
	if t1.total != 3 {
		t.Fatalf("total = %d; want 3 (every Add call, deduped or not)", t1.total)
	}
}

func TestAddPlainTextNFCNormalizedDedup(t *testing.T) {
	t1 := NewSharedStringsTable()
	// "e" + combining acute (NFD) vs precomposed "é" (NFC) should collapse.
	nfd := "é"
	nfc := "é"
	id1 := t1.AddPlainText(nfd)
	id2 := t1.AddPlainText(nfc)
	if id1 != id2 {
		t.Fatalf("NFC/NFD forms of the same string should dedup, got %d vs %d", id1, id2)
	}
}

func TestAddRichTextDedupsOnPlainTextOnly(t *testing.T) {
	t1 := NewSharedStringsTable()
	boldHello := []domain.TextRun{{Text: "hello", Font: &domain.Font{Bold: true}}}
	plainHello := []domain.TextRun{{Text: "hello"}}

	id1 := t1.AddRichText(boldHello)
	id2 := t1.AddRichText(plainHello)
	if id1 != id2 {
		t.Fatalf("rich-text runs with identical concatenated plain text should collapse to one SST entry regardless of per-run formatting, got %d vs %d", id1, id2)
	}
	if t1.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", t1.Len())
	}
}

func TestShouldUseSSTHeuristic(t *testing.T) {
	t1 := NewSharedStringsTable()
	for i := 0; i < 11; i++ {
		t1.AddPlainText("repeat")
	}
	if !t1.ShouldUseSST(SSTAuto) {
		t.Fatalf("11 references to one string should cross the auto-SST threshold")
	}

	t2 := NewSharedStringsTable()
	for i := 0; i < 20; i++ {
		t2.AddPlainText(string(rune('a' + i)))
	}
	if t2.ShouldUseSST(SSTAuto) {
		t.Fatalf("20 distinct strings with no duplicates should not trigger auto-SST")
	}

	if !t2.ShouldUseSST(SSTAlways) {
		t.Fatalf("SSTAlways must always return true")
	}
	if t1.ShouldUseSST(SSTNever) {
		t.Fatalf("SSTNever must always return false")
	}
}

func TestUnchangedFastPath(t *testing.T) {
	source := &xml.SharedStringsPart{
		Entries: []xml.SSTEntry{{PlainText: "a"}, {PlainText: "b"}},
		Count:   5,
	}
	t1 := NewSharedStringsTableFromSource(source)
	if !t1.Unchanged() {
		t.Fatalf("a freshly-seeded table with no new Add calls should report Unchanged")
	}

	// re-adding an already-present string doesn't dirty the table...
	t1.AddPlainText("a")
	if !t1.Unchanged() {
		t.Fatalf("re-adding an existing string should not mark the table dirty")
	}

	// ...but introducing a genuinely new one does.
	t1.AddPlainText("c")
	if t1.Unchanged() {
		t.Fatalf("adding a new string must mark the table as changed")
	}
}

func TestNewSharedStringsTableFromSourcePreservesIndices(t *testing.T) {
	source := &xml.SharedStringsPart{
		Entries: []xml.SSTEntry{{PlainText: "zero"}, {PlainText: "one"}},
		Count:   2,
	}
	t1 := NewSharedStringsTableFromSource(source)
	if id := t1.AddPlainText("one"); id != 1 {
		t.Fatalf("re-adding a preserved string should reuse its original index, got %d want 1", id)
	}
	if id := t1.AddPlainText("two"); id != 2 {
		t.Fatalf("a new string should be appended after the preserved entries, got %d want 2", id)
	}
}

func TestRetractUndoesPriorContributionBeforeRewalk(t *testing.T) {
	source := &xml.SharedStringsPart{
		Entries: []xml.SSTEntry{{PlainText: "one"}},
		Count:   3, // three cells across the whole workbook reference "one"
	}
	t1 := NewSharedStringsTableFromSource(source)

	// The sheet being rewalked contributed 2 of those 3 original
	// references; retract them before re-adding its current cells.
	t1.Retract(2)
	t1.AddPlainText("one")
	t1.AddPlainText("one")

	sp := t1.StringsPart()
	if sp.Count != 3 {
		t.Fatalf("Count = %d; want 3 (1 untouched reference + 2 re-walked, not 5)", sp.Count)
	}
}

func TestRetractFloorsAtZero(t *testing.T) {
	t1 := NewSharedStringsTable()
	t1.Retract(5)
	if t1.total != 0 {
		t.Fatalf("total = %d; want 0 (Retract must not go negative)", t1.total)
	}
}

func TestCountSSTReferencesCountsOnlySharedStringCells(t *testing.T) {
	ws := &xml.WorksheetPart{
		Rows: []xml.RawRow{
			{Index: 0, Cells: []xml.RawCell{
				{Ref: "A1", Type: "s", ValueRaw: "0"},
				{Ref: "B1", Type: "inlineStr"},
				{Ref: "C1", Type: "s", ValueRaw: "0"},
				{Ref: "D1", ValueRaw: "42"},
			}},
		},
	}
	if n := CountSSTReferences(ws); n != 2 {
		t.Fatalf("CountSSTReferences = %d; want 2", n)
	}
	if n := CountSSTReferences(nil); n != 0 {
		t.Fatalf("CountSSTReferences(nil) = %d; want 0", n)
	}
}
