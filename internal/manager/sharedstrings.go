package manager

import (
	"golang.org/x/text/unicode/norm"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

// SSTPolicy controls whether the writer uses the shared strings table
// at all (spec.md §4.6).
type SSTPolicy int

const (
	// SSTAuto uses the shared strings table when shouldUseSST's
	// heuristic says it pays off, and inline strings otherwise.
	SSTAuto SSTPolicy = iota
	SSTAlways
	SSTNever
)

// SharedStringsTable deduplicates cell text into xl/sharedStrings.xml,
// keyed by the NFC-normalized plain text so visually-identical strings
// written with different Unicode normalization forms still collapse to
// one entry (spec.md §3, §4.6).
type SharedStringsTable struct {
	entries []xml.SSTEntry
	byKey   map[string]int
	total   int

	// sourceCount is the number of entries the table was seeded with from
	// the source sharedStrings.xml, used by Unchanged to detect that no
	// new strings were introduced (spec.md §4.6).
	sourceCount int
	dirty       bool
}

// NewSharedStringsTable creates an empty table.
func NewSharedStringsTable() *SharedStringsTable {
	return &SharedStringsTable{byKey: make(map[string]int)}
}

// NewSharedStringsTableFromSource seeds a table from an existing
// sharedStrings.xml, preserving every entry's original index so
// untouched cells keep referencing the same slot.
func NewSharedStringsTableFromSource(source *xml.SharedStringsPart) *SharedStringsTable {
	t := &SharedStringsTable{byKey: make(map[string]int)}
	for i, e := range source.Entries {
		t.entries = append(t.entries, e)
		t.byKey[dedupKey(e)] = i
	}
	t.total = source.Count
	t.sourceCount = len(source.Entries)
	return t
}

// AddPlainText returns the SST index for a plain-text value, adding a
// new entry if no equal (NFC-normalized) entry exists yet.
func (t *SharedStringsTable) AddPlainText(s string) int {
	t.total++
	key := norm.NFC.String(s)
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := len(t.entries)
	t.entries = append(t.entries, xml.SSTEntry{PlainText: s})
	t.byKey[key] = id
	t.dirty = true
	return id
}

// AddRichText returns the SST index for a rich-text run sequence,
// deduped by its NFC-normalized plain-text projection (spec.md §9 open
// question: two rich-text values with identical plain text but distinct
// per-run formatting collapse to the same SST entry; the spec
// explicitly preserves this behavior rather than "fixing" it, since it
// mirrors how Excel itself builds the table).
func (t *SharedStringsTable) AddRichText(runs []domain.TextRun) int {
	t.total++
	plain := ""
	for _, r := range runs {
		plain += r.Text
	}
	key := norm.NFC.String(plain)
	if id, ok := t.byKey[key]; ok {
		return id
	}
	entry := xml.SSTEntry{IsRich: true}
	for _, r := range runs {
		run := xml.SSTRun{Text: r.Text}
		if r.HasRawFormatting() {
			run.RawRPr = r.RawRPrXML
		}
		entry.Runs = append(entry.Runs, run)
	}
	id := len(t.entries)
	t.entries = append(t.entries, entry)
	t.byKey[key] = id
	t.dirty = true
	return id
}

// Retract removes n references from the running total, used by the
// hybrid writer to undo the contribution a modified sheet's *original*
// string-cell references made to a source-seeded total before that
// sheet is re-walked and its (possibly different) current references
// are re-added by AddPlainText/AddRichText. Without this, re-walking a
// modified sheet double-counts every one of its string cells on top of
// the source sharedStrings.xml's own count attribute (spec.md §3, §4.6:
// "totalCount is the reference count").
func (t *SharedStringsTable) Retract(n int) {
	t.total -= n
	if t.total < 0 {
		t.total = 0
	}
}

// Lookup returns the entry at idx, downgrading an out-of-range index to
// "not found" rather than panicking (spec.md §4.4: out-of-range SST
// references degrade to CellValue.Error on read, never fail the whole
// read).
func (t *SharedStringsTable) Lookup(idx int) (xml.SSTEntry, bool) {
	if idx < 0 || idx >= len(t.entries) {
		return xml.SSTEntry{}, false
	}
	return t.entries[idx], true
}

// Len returns the number of unique entries.
func (t *SharedStringsTable) Len() int { return len(t.entries) }

// ShouldUseSST reports whether the string count and total usage justify
// shared strings over inline strings, per policy (spec.md §4.6): Auto
// uses SST only once duplicates exist (more than one reference to at
// least one string) AND the sheet has written more than 10 string
// cells total, since below that size the sharedStrings.xml part's own
// overhead outweighs any dedup savings.
func (t *SharedStringsTable) ShouldUseSST(policy SSTPolicy) bool {
	switch policy {
	case SSTAlways:
		return true
	case SSTNever:
		return false
	default:
		return t.total > len(t.entries) && t.total > 10
	}
}

// Unchanged reports whether no new strings were added since this table
// was seeded from a source part, enabling the writer's byte-identical
// verbatim copy fast path for sharedStrings.xml (spec.md §4.6).
func (t *SharedStringsTable) Unchanged() bool {
	return !t.dirty && len(t.entries) == t.sourceCount
}

// StringsPart produces the sharedStrings.xml struct layer.
func (t *SharedStringsTable) StringsPart() *xml.SharedStringsPart {
	return &xml.SharedStringsPart{
		Entries:     t.entries,
		Count:       t.total,
		UniqueCount: len(t.entries),
	}
}

// CountSSTReferences returns how many cells in a preserved worksheet
// reference the shared strings table (t="s"), i.e. exactly the
// contribution that worksheet made to the source sharedStrings.xml's
// count attribute. Used to Retract a modified sheet's prior
// contribution before it is re-walked.
func CountSSTReferences(ws *xml.WorksheetPart) int {
	if ws == nil {
		return 0
	}
	n := 0
	for _, row := range ws.Rows {
		for _, c := range row.Cells {
			if c.Type == "s" {
				n++
			}
		}
	}
	return n
}

func dedupKey(e xml.SSTEntry) string {
	if !e.IsRich {
		return norm.NFC.String(e.PlainText)
	}
	plain := ""
	for _, r := range e.Runs {
		plain += r.Text
	}
	return norm.NFC.String(plain)
}
