// Package writer serializes a domain.Workbook back into an .xlsx
// package, choosing among full regeneration, a verbatim byte copy, or a
// surgical hybrid write depending on the workbook's state (spec.md
// §4.10). Grounded on the teacher's internal/writer package, which
// performs the analogous read-modify-write for .docx packages.
package writer

import (
	"io"

	"github.com/mmonterroca/xlsxcore/domain"
)

// Write serializes wb to w. Since w is a stream rather than a file path,
// the verbatim-copy strategy (which requires re-stating the source file)
// never applies here: a clean workbook still goes through hybrid, which
// copies every sheet and unparsed part from the source and regenerates
// only the structural parts ([Content_Types].xml, rels, workbook.xml,
// styles.xml, sharedStrings.xml).
func Write(wb *domain.Workbook, w io.Writer, opts Options) error {
	if err := wb.Validate(); err != nil {
		return err
	}
	if wb.Source == nil {
		return assembleFullRegen(wb, w, opts)
	}
	return assembleHybrid(wb, w, opts)
}

// WriteFile serializes wb to path, selecting the write strategy per
// spec.md §4.10:
//  1. no source (a workbook built with NewWorkbook) -> full regeneration
//  2. a clean source-backed workbook -> verbatim byte copy of the source
//  3. anything else -> surgical hybrid write
func WriteFile(wb *domain.Workbook, path string, opts Options) error {
	if err := wb.Validate(); err != nil {
		return err
	}
	if wb.Source == nil {
		return writeFullRegenToFile(path, wb, opts)
	}
	if wb.IsClean() {
		ok, err := tryVerbatimCopy(wb, path)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return writeHybridToFile(path, wb, opts)
}
