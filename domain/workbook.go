package domain

import "github.com/mmonterroca/xlsxcore/pkg/errors"

const (
	opAddSheet    = "domain.Workbook.AddSheet"
	opDeleteSheet = "domain.Workbook.DeleteSheet"
	opRenameSheet = "domain.Workbook.RenameSheet"
)

// DefinedName is a workbook-scoped named range, preserved opaquely from
// source (spec.md §4.7).
type DefinedName struct {
	Name  string
	Value string
}

// Workbook owns its sheets and, when read from a file, a SourceContext
// (spec.md §3). It is the top-level unit the engine reads and writes.
type Workbook struct {
	Sheets       []*Sheet
	DefinedNames []DefinedName

	Source *SourceContext

	// SourcePreserved is an opaque handle to preserved workbook.xml
	// metadata (fileVersion, workbookPr, bookViews, calcPr, AlternateContent,
	// revisionPtr, extLst) the writer merges back in unmodified on a
	// surgical write. See Sheet.SourcePreserved for the same pattern.
	SourcePreserved any

	tracker *ModificationTracker
}

// NewWorkbook creates an empty workbook with a single default sheet,
// matching spec.md §8 scenario 1 (empty workbook round-trip).
func NewWorkbook() *Workbook {
	wb := &Workbook{tracker: NewModificationTracker()}
	sheet := NewSheet("Sheet1")
	wb.attach(sheet)
	wb.Sheets = append(wb.Sheets, sheet)
	return wb
}

// Tracker exposes the workbook's modification tracker. Returns a
// standalone tracker (not nil) even for workbooks without a
// SourceContext, so callers can always call IsClean safely.
func (wb *Workbook) Tracker() *ModificationTracker {
	if wb.Source != nil {
		return wb.Source.Tracker
	}
	return wb.tracker
}

func (wb *Workbook) attach(s *Sheet) {
	s.tracker = wb.Tracker()
	s.index = len(wb.Sheets)
}

func (wb *Workbook) reindex() {
	for i, s := range wb.Sheets {
		s.tracker = wb.Tracker()
		s.index = i
	}
}

// AttachSource binds source to the workbook and wires every already
// populated sheet to the source's tracker. internal/reader builds
// Workbook.Sheets directly (bypassing AddSheet, since hydrated sheets
// are not "added" mutations), so this is what gives every sheet a
// working tracker and index once the source is known.
func (wb *Workbook) AttachSource(source *SourceContext) {
	wb.Source = source
	wb.reindex()
}

// AddSheet appends a new empty sheet and marks the workbook reordered
// (spec.md §4.8: inserting sheets sets reorderedSheets).
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if wb.SheetByName(name) != nil {
		return nil, errors.Errorf(errors.ErrCodeInvalidWorkbook, opAddSheet, "sheet %q already exists", name)
	}
	s := NewSheet(name)
	wb.Sheets = append(wb.Sheets, s)
	wb.reindex()
	wb.Tracker().MarkReordered()
	wb.Tracker().MarkModified(s.index)
	return s, nil
}

// DeleteSheet removes sheet i, shifting indices of remaining sheets and
// recording the deletion (spec.md §4.8, §4.12).
func (wb *Workbook) DeleteSheet(i int) error {
	if i < 0 || i >= len(wb.Sheets) {
		return errors.Errorf(errors.ErrCodeInvalidWorkbook, opDeleteSheet, "sheet index %d out of range", i)
	}
	if len(wb.Sheets) == 1 {
		return errors.Errorf(errors.ErrCodeInvalidWorkbook, opDeleteSheet, "cannot delete the only remaining sheet")
	}
	wb.Tracker().MarkDeleted(i)
	wb.Sheets = append(wb.Sheets[:i], wb.Sheets[i+1:]...)
	wb.reindex()
	return nil
}

// RenameSheet renames sheet i and marks the workbook reordered, since a
// rename changes the <sheet name=...> the writer must regenerate
// (spec.md §4.8).
func (wb *Workbook) RenameSheet(i int, name string) error {
	if i < 0 || i >= len(wb.Sheets) {
		return errors.Errorf(errors.ErrCodeInvalidWorkbook, opRenameSheet, "sheet index %d out of range", i)
	}
	if existing := wb.SheetByName(name); existing != nil && existing != wb.Sheets[i] {
		return errors.Errorf(errors.ErrCodeInvalidWorkbook, opRenameSheet, "sheet %q already exists", name)
	}
	wb.Sheets[i].Name = name
	wb.Tracker().MarkReordered()
	return nil
}

// SheetByName returns the sheet with the given name, or nil.
func (wb *Workbook) SheetByName(name string) *Sheet {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// IsClean reports whether the workbook has no recorded mutations.
func (wb *Workbook) IsClean() bool {
	return wb.Tracker().IsClean()
}

// Validate checks basic structural invariants (spec.md §7:
// InvalidWorkbook covers e.g. zero sheets).
func (wb *Workbook) Validate() error {
	if len(wb.Sheets) == 0 {
		return errors.Errorf(errors.ErrCodeInvalidWorkbook, "domain.Workbook.Validate", "workbook has zero sheets")
	}
	seen := make(map[string]bool, len(wb.Sheets))
	for _, s := range wb.Sheets {
		if seen[s.Name] {
			return errors.Errorf(errors.ErrCodeInvalidWorkbook, "domain.Workbook.Validate", "duplicate sheet name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
