// Package xlsxcore is the top-level entry point for the surgical OOXML
// (.xlsx) read-modify-write engine: open a workbook, mutate it through
// the domain package's Workbook/Sheet API, and write it back with the
// engine choosing the narrowest strategy that reproduces everything the
// caller didn't touch (spec.md §1, §4.10). Mirrors the teacher's thin
// root-package pattern (docx.go's NewDocument/SaveAs) rather than
// reimplementing anything: every function here is a one-line forward
// into internal/reader, internal/writer, or domain.
package xlsxcore

import (
	"io"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/reader"
	"github.com/mmonterroca/xlsxcore/internal/writer"
)

// Re-exported domain types, so callers of this package never need to
// import github.com/mmonterroca/xlsxcore/domain directly.
type (
	Workbook      = domain.Workbook
	Sheet         = domain.Sheet
	Cell          = domain.Cell
	CellValue     = domain.CellValue
	CellStyle     = domain.CellStyle
	TextRun       = domain.TextRun
	Font          = domain.Font
	Comment       = domain.Comment
	Table         = domain.Table
	TableColumn   = domain.TableColumn
	ARef          = domain.ARef
	Range         = domain.Range
	DefinedName   = domain.DefinedName
	RowProperties = domain.RowProperties
	ColProperties = domain.ColProperties
)

// Limits re-exports internal/reader.Limits so callers can tune the
// engine's zip-bomb and resource-exhaustion defenses (spec.md §4.3, §6)
// without importing an internal package.
type Limits = reader.Limits

// DefaultLimits returns the engine's default security posture.
func DefaultLimits() Limits { return reader.DefaultLimits() }

// Options re-exports internal/writer.Options.
type Options = writer.Options

// DefaultOptions is the engine's default write behavior (spec.md §6).
func DefaultOptions() Options { return writer.DefaultOptions() }

// Deflated and Stored mirror internal/writer's Compression constants, so
// callers can write e.g. xlsxcore.Stored without an internal import. The
// SSTPolicy type and its constants are not re-exported here.
const (
	Deflated = writer.Deflated
	Stored   = writer.Stored
)

// NewWorkbook creates an empty workbook with a single default sheet
// (spec.md §8 scenario 1).
func NewWorkbook() *Workbook { return domain.NewWorkbook() }

// NewARef builds a validated 0-indexed cell reference.
func NewARef(col, row int) (ARef, error) { return domain.NewARef(col, row) }

// ParseARef parses A1 notation (e.g. "AA104") into an ARef.
func ParseARef(a1 string) (ARef, error) { return domain.ParseARef(a1) }

// TextValue returns an NFC-normalized Text cell value (spec.md §3).
func TextValue(s string) CellValue { return domain.TextValue(s) }

// Open reads path under the engine's default security limits and returns
// the hydrated workbook plus any non-fatal degradation warnings (spec.md
// §4.3, §7).
func Open(path string) (*Workbook, []string, error) {
	return OpenWithLimits(path, DefaultLimits())
}

// OpenWithLimits is Open with caller-supplied security limits.
func OpenWithLimits(path string, limits Limits) (*Workbook, []string, error) {
	res, err := reader.ReadPackage(path, limits)
	if err != nil {
		return nil, nil, err
	}
	return res.Workbook, res.Warnings, nil
}

// Save writes wb to path using the engine's default options, selecting
// verbatim copy, surgical hybrid write, or full regeneration per spec.md
// §4.10 depending on wb's state.
func Save(wb *Workbook, path string) error {
	return SaveWithOptions(wb, path, DefaultOptions())
}

// SaveWithOptions is Save with caller-supplied write options.
func SaveWithOptions(wb *Workbook, path string, opts Options) error {
	return writer.WriteFile(wb, path, opts)
}

// Write serializes wb to an arbitrary io.Writer rather than a file path.
// Since the verbatim-copy strategy requires re-stating the source file
// on disk, it never applies here: a clean workbook still goes through
// the hybrid path, which copies every sheet and unparsed part from the
// source and regenerates only the structural parts ([Content_Types].xml,
// rels, workbook.xml, styles.xml, sharedStrings.xml) (spec.md §4.10).
func Write(wb *Workbook, w io.Writer, opts Options) error {
	return writer.Write(wb, w, opts)
}
