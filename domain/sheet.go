package domain

import "github.com/mmonterroca/xlsxcore/pkg/errors"

const (
	opSetCell      = "domain.Sheet.SetCell"
	opMergeCells   = "domain.Sheet.MergeCells"
	opSetRowHeight = "domain.Sheet.SetRowHeight"
)

// Visibility enumerates a sheet's workbook-level visibility state
// (spec.md §4.7, SheetRef.state).
type Visibility string

const (
	VisibilityVisible    Visibility = ""
	VisibilityHidden     Visibility = "hidden"
	VisibilityVeryHidden Visibility = "veryHidden"
)

// Cell is a single worksheet cell: a value plus a sheet-local style ID.
// Style IDs are sheet-local until write time, when the writer produces a
// workbook-wide remapping (spec.md §3).
type Cell struct {
	Value   CellValue
	StyleID int
}

// RowProperties holds per-row formatting/layout that round-trips even
// when the row carries no cells (spec.md §4.7).
type RowProperties struct {
	Height       float64
	CustomHeight bool
	Hidden       bool
	OutlineLevel int
	Collapsed    bool
	StyleID      int
	HasStyle     bool
}

// ColProperties holds per-column-range formatting/width.
type ColProperties struct {
	Width    float64
	HasWidth bool
	StyleID  int
	HasStyle bool
	Hidden   bool
}

// Comment is a single cell comment/annotation (spec.md §4.7).
type Comment struct {
	Ref    ARef
	Author string
	Body   []TextRun
	GUID   string
}

// TableColumn describes one column of a Table.
type TableColumn struct {
	Name string
}

// Table is a structured table range (spec.md §4.7).
type Table struct {
	ID               int
	Name             string
	DisplayName      string
	Ref              Range
	HeaderRowCount   int
	TotalsRowCount   int
	TotalsRowShown   bool
	Columns          []TableColumn
	HasAutoFilter    bool
}

// Sheet owns its cells, comments, tables, a local style registry, row/col
// property maps, and the merged-range set (spec.md §3).
type Sheet struct {
	Name       string
	Visibility Visibility
	SheetID    int // preserved workbook-wide sheetId; 0 means "unassigned, assign on write"

	Cells   map[ARef]Cell
	Styles  *StyleRegistry
	Merges  []Range
	Comments []Comment
	Tables   []Table

	RowProps map[int]RowProperties
	ColProps map[int]ColProperties

	// SourcePreserved is an opaque handle to the parsed source worksheet
	// metadata (sheetPr, sheetViews, cols, pageSetup, etc.) that
	// internal/reader attaches and internal/serializer merges back in
	// for unmodified fragments on write. Nil for sheets created fresh
	// in this process. The domain package deliberately does not know
	// the concrete type (spec.md §1: OOXML internals are out of scope
	// for this package).
	SourcePreserved any

	tracker *ModificationTracker
	index   int
}

// NewSheet creates an empty sheet with the given name.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:     name,
		Cells:    make(map[ARef]Cell),
		Styles:   NewStyleRegistry(),
		RowProps: make(map[int]RowProperties),
		ColProps: make(map[int]ColProperties),
	}
}

func (s *Sheet) markModified() {
	if s.tracker != nil {
		s.tracker.MarkModified(s.index)
	}
}

// SetCell assigns a value to a cell, creating the entry if absent, and
// marks the sheet modified.
func (s *Sheet) SetCell(ref ARef, v CellValue) {
	c := s.Cells[ref]
	c.Value = v
	s.Cells[ref] = c
	s.markModified()
}

// SetCellStyle assigns a sheet-local style ID to a cell.
func (s *Sheet) SetCellStyle(ref ARef, styleID int) {
	c := s.Cells[ref]
	c.StyleID = styleID
	s.Cells[ref] = c
	s.markModified()
}

// DeleteCell removes a cell entirely.
func (s *Sheet) DeleteCell(ref ARef) {
	delete(s.Cells, ref)
	s.markModified()
}

// MergeCells adds a merged range, rejecting degenerate single-cell
// ranges to keep mergeCells meaningful.
func (s *Sheet) MergeCells(r Range) error {
	if r.From == r.To {
		return errors.Errorf(errors.ErrCodeInvalidWorkbook, opMergeCells, "merge range %s is a single cell", r)
	}
	s.Merges = append(s.Merges, r)
	s.markModified()
	return nil
}

// SetRowProperties sets layout properties for a 0-indexed row.
func (s *Sheet) SetRowProperties(row int, p RowProperties) {
	s.RowProps[row] = p
	s.markModified()
}

// SetColProperties sets layout properties for a 0-indexed column.
func (s *Sheet) SetColProperties(col int, p ColProperties) {
	s.ColProps[col] = p
	s.markModified()
}

// AddComment attaches a comment to a cell.
func (s *Sheet) AddComment(c Comment) {
	s.Comments = append(s.Comments, c)
	s.markModified()
}

// AddTable attaches a structured table to the sheet.
func (s *Sheet) AddTable(t Table) {
	s.Tables = append(s.Tables, t)
	s.markModified()
}

// Dimension computes the minimum bounding rectangle of all non-empty
// cells (spec.md §4.9, §8). Returns false if the sheet has no cells.
func (s *Sheet) Dimension() (Range, bool) {
	if len(s.Cells) == 0 {
		return Range{}, false
	}
	first := true
	var minCol, minRow, maxCol, maxRow int
	for ref := range s.Cells {
		if first {
			minCol, maxCol = ref.Col(), ref.Col()
			minRow, maxRow = ref.Row(), ref.Row()
			first = false
			continue
		}
		if ref.Col() < minCol {
			minCol = ref.Col()
		}
		if ref.Col() > maxCol {
			maxCol = ref.Col()
		}
		if ref.Row() < minRow {
			minRow = ref.Row()
		}
		if ref.Row() > maxRow {
			maxRow = ref.Row()
		}
	}
	from, _ := NewARef(minCol, minRow)
	to, _ := NewARef(maxCol, maxRow)
	return Range{From: from, To: to}, true
}

// StyleRegistry is a sheet-local dedup table of CellStyle records,
// mirroring the workbook-wide StyleIndex but scoped to one sheet before
// the writer remaps everything to global IDs (spec.md §3).
type StyleRegistry struct {
	styles []CellStyle
	byKey  map[string]int
}

// NewStyleRegistry creates a registry with the default style at index 0.
func NewStyleRegistry() *StyleRegistry {
	r := &StyleRegistry{byKey: make(map[string]int)}
	r.styles = append(r.styles, DefaultCellStyle())
	r.byKey[DefaultCellStyle().CanonicalKey()] = 0
	return r
}

// Add returns the local style ID for cs, reusing an existing entry with
// the same canonical key if present.
func (r *StyleRegistry) Add(cs CellStyle) int {
	key := cs.CanonicalKey()
	if id, ok := r.byKey[key]; ok {
		return id
	}
	id := len(r.styles)
	r.styles = append(r.styles, cs)
	r.byKey[key] = id
	return id
}

// Get returns the style at a local ID.
func (r *StyleRegistry) Get(id int) (CellStyle, bool) {
	if id < 0 || id >= len(r.styles) {
		return CellStyle{}, false
	}
	return r.styles[id], true
}

// All returns every registered style in ID order.
func (r *StyleRegistry) All() []CellStyle { return r.styles }
