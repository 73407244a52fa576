package reader

import (
	"github.com/mmonterroca/xlsxcore/internal/manifest"
	"github.com/mmonterroca/xlsxcore/internal/xml"
)

// buildSheetPathIndex maps each worksheet part's physical path to its
// 0-based position in the workbook's declared <sheets> order, using the
// workbook relationships to resolve each SheetRef.RID to a target path
// (spec.md §4.4). This is the authoritative mapping; the fixed
// "sheet{N}.xml → sheet N-1" convention spec.md names is a fallback for
// when relationship resolution is unavailable, which in practice only
// happens on malformed input already rejected earlier in the read.
func buildSheetPathIndex(wp *xml.WorkbookPart, wbRels xml.RelationshipsPart) map[string]int {
	targetByID := make(map[string]string, len(wbRels.Relationships))
	for _, r := range wbRels.Relationships {
		targetByID[r.ID] = r.Target
	}
	out := make(map[string]int, len(wp.Sheets))
	for i, sh := range wp.Sheets {
		target, ok := targetByID[sh.RID]
		if !ok {
			continue
		}
		resolved, ok := resolveRelTarget("xl", target)
		if !ok {
			continue
		}
		out[resolved] = i
	}
	return out
}

// addSheetRelsDependencies walks one sheet's .rels relationships and
// records, for each resolvable target, that the target part depends on
// sheetIndex (spec.md §4.4). Unresolvable targets conservatively depend
// on every known sheet index.
func addSheetRelsDependencies(graph *manifest.RelGraph, sheetIndex int, rels xml.RelationshipsPart, allSheetCount int) {
	for _, r := range rels.Relationships {
		if r.TargetMode == "External" {
			continue
		}
		resolved, ok := resolveRelTarget("xl/worksheets", r.Target)
		if !ok {
			for i := 0; i < allSheetCount; i++ {
				graph.AddDependency(r.Target, i)
			}
			continue
		}
		graph.AddDependency(resolved, sheetIndex)
	}
}
