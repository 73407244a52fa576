package writer

import (
	"archive/zip"
	"io"
	"os"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manager"
	"github.com/mmonterroca/xlsxcore/internal/manifest"
	"github.com/mmonterroca/xlsxcore/internal/reader"
	"github.com/mmonterroca/xlsxcore/internal/serializer"
	"github.com/mmonterroca/xlsxcore/internal/xml"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
	"github.com/mmonterroca/xlsxcore/pkg/errors"
)

const opHybrid = "writer.hybrid"

// writeHybridToFile assembles the surgical write into a sibling temp file
// and renames it over path only once it succeeds. assembleHybrid reopens
// wb.Source.SourcePath to stream preserved parts, and path is very
// commonly that same source path (the "open, mutate, save in place"
// workflow) — writing straight into path with os.Create would truncate
// the very file assembleHybrid is about to read from. The temp-file-plus-
// rename pattern mirrors tryVerbatimCopy's, which faces the identical
// hazard.
func writeHybridToFile(path string, wb *domain.Workbook, opts Options) error {
	tmpPath := path + ".tmp-xlsxcore"
	f, err := os.Create(tmpPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeIO, opHybrid)
	}
	werr := assembleHybrid(wb, f, opts)
	cerr := f.Close()
	if werr != nil {
		os.Remove(tmpPath)
		return werr
	}
	if cerr != nil {
		os.Remove(tmpPath)
		return errors.WrapWithCode(cerr, errors.ErrCodeIO, opHybrid)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.WrapWithCode(err, errors.ErrCodeIO, opHybrid)
	}
	return nil
}

// assembleHybrid performs a surgical read-modify-write: only the parts
// touched by a modified, deleted, or newly added sheet are regenerated;
// everything else streams unchanged from the source package (spec.md
// §4.12, strategy 3). The source is reopened here — the workbook never
// retains an open file handle between read and write (spec.md §5).
func assembleHybrid(wb *domain.Workbook, w io.Writer, opts Options) error {
	src := wb.Source
	srcFile, err := os.Open(src.SourcePath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeIO, opHybrid)
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeIO, opHybrid)
	}
	zr, err := zip.NewReader(srcFile, info.Size())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
	}
	byPath := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byPath[f.Name] = f
	}

	var artifacts *reader.SourceArtifacts
	if a, ok := wb.SourcePreserved.(*reader.SourceArtifacts); ok {
		artifacts = a
	}

	assignSheetIDs(wb)
	nextTable := 1
	if artifacts != nil {
		nextTable = artifacts.NextTableID
	}
	assignTableIDs(wb, nextTable)
	fileNum := sheetFileNumbers(wb, artifacts)

	var si *manager.StyleIndex
	var preservedCT *xml.ContentTypesPart
	var preservedRootRels, preservedWbRels xml.RelationshipsPart
	var wp *xml.WorkbookPart
	if artifacts != nil {
		if artifacts.Styles != nil {
			si = manager.NewStyleIndexFromSource(artifacts.Styles)
		} else {
			si = manager.NewStyleIndex()
		}
		preservedCT = artifacts.ContentTypes
		preservedRootRels = artifacts.RootRels
		preservedWbRels = artifacts.WorkbookRels
		wp = artifacts.WorkbookPart
	} else {
		si = manager.NewStyleIndex()
	}
	if wp == nil {
		wp = &xml.WorkbookPart{}
	}

	var sst *manager.SharedStringsTable
	if artifacts != nil && artifacts.SharedStrings != nil {
		sst = manager.NewSharedStringsTableFromSource(artifacts.SharedStrings)
	} else {
		sst = manager.NewSharedStringsTable()
	}

	tracker := wb.Tracker()
	modified := tracker.ModifiedSheets()

	entries := make([]builtSheet, 0, len(wb.Sheets))
	rawSheets := make([]rawSheetCopy, 0, len(wb.Sheets))

	sheetHasComments := make(map[*domain.Sheet]bool, len(wb.Sheets))
	sheetTableIDs := make(map[*domain.Sheet][]int, len(wb.Sheets))

	for i, s := range wb.Sheets {
		n := fileNum[s]
		sheetHasComments[s] = len(s.Comments) > 0
		tps := buildTableParts(s)
		sheetTableIDs[s] = tableIDsOf(tps)

		_, isMod := modified[i]
		rawOK := false
		if !isMod && artifacts != nil {
			if raw, ok := tryRawSheet(byPath, n, len(s.Comments) > 0); ok {
				rawSheets = append(rawSheets, raw)
				rawOK = true
			}
		}
		if rawOK {
			entries = append(entries, builtSheet{sheet: s, fileNum: n, tables: tps})
			continue
		}

		if preserved, ok := s.SourcePreserved.(*xml.WorksheetPart); ok {
			sst.Retract(manager.CountSSTReferences(preserved))
		}
		cp, hasComments := buildCommentsPart(s)
		rels, _, vmlRID, _ := buildSheetRels(hasComments, n, n, tableIDsOf(tps))
		ws := serializer.SerializeWorksheet(s, true, si, sst, opts.SSTPolicy, vmlRID, opts.EscapeFormulas)
		entries = append(entries, builtSheet{
			sheet: s, fileNum: n, ws: ws, comments: cp, tables: tps,
			rels: rels, hasRels: hasComments || len(tps) > 0,
		})
	}

	hasSST := sstPolicyUseSST(sst, opts.SSTPolicy)

	wbRels, ridFor := buildWorkbookRels(wb, fileNum, hasSST, preservedWbRels)
	sheetRefs := buildSheetRefs(wb, ridFor)
	definedNames := make([]xml.DefinedNameRef, 0, len(wb.DefinedNames))
	for _, dn := range wb.DefinedNames {
		definedNames = append(definedNames, xml.DefinedNameRef{Name: dn.Name, Value: dn.Value})
	}
	rootRels := buildRootRels(preservedRootRels)
	ct := buildContentTypes(wb, fileNum, hasSST, sheetHasComments, sheetTableIDs, preservedCT)

	zw := newPackageZipWriter(w, opts)

	if err := writeContentTypes(zw, ct); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
	}
	if err := writeRelationships(zw, pkgconst.PathRootRels, rootRels); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
	}
	if err := writeWorkbookPart(zw, wp, sheetRefs, definedNames); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
	}
	if err := writeRelationships(zw, pkgconst.PathWorkbookRels, wbRels); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
	}
	if err := writeStylesPart(zw, si.StylesPart()); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
	}
	if hasSST {
		if err := writeSharedStrings(zw, sst.StringsPart()); err != nil {
			return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
		}
	}

	rawIdx := 0
	for _, e := range entries {
		if e.ws == nil {
			// raw-copied sheet
			raw := rawSheets[rawIdx]
			rawIdx++
			if err := copyRawEntry(zw, raw.sheet); err != nil {
				return err
			}
			if raw.rels != nil {
				if err := copyRawEntry(zw, raw.rels); err != nil {
					return err
				}
			}
			if raw.comments != nil {
				if err := copyRawEntry(zw, raw.comments); err != nil {
					return err
				}
			}
			if raw.vml != nil {
				if err := copyRawEntry(zw, raw.vml); err != nil {
					return err
				}
			}
			for _, tp := range e.tables {
				if err := writeTablePart(zw, tablePartPath(tp.ID), tp); err != nil {
					return errors.WrapWithCode(err, errors.ErrCodeXML, opHybrid)
				}
			}
			continue
		}
		if err := emitSheetEntry(zw, e); err != nil {
			return err
		}
	}

	if err := copyPreservableParts(zw, src.Manifest, src.RelGraph, unsafeOrigIndices(wb, artifacts), byPath); err != nil {
		return err
	}

	return zw.Close()
}

type rawSheetCopy struct {
	sheet, rels, comments, vml *zip.File
}

// tryRawSheet looks up the zip entries for sheet n (and, when the sheet
// has comments, its comments/VML drawing) at this engine's own part-path
// convention. Every domain.Sheet mutator marks its sheet modified, so an
// unmodified sheet's Comments/Tables always mirror exactly what was
// hydrated from these same paths at read time.
func tryRawSheet(byPath map[string]*zip.File, n int, hasComments bool) (rawSheetCopy, bool) {
	sheetFile, ok := byPath[sheetPartPath(n)]
	if !ok {
		return rawSheetCopy{}, false
	}
	raw := rawSheetCopy{sheet: sheetFile}
	raw.rels = byPath[sheetRelsPartPath(n)]
	if hasComments {
		cf, cok := byPath[commentsPartPath(n)]
		vf, vok := byPath[vmlDrawingPartPath(n)]
		if !cok || !vok {
			return rawSheetCopy{}, false
		}
		raw.comments, raw.vml = cf, vf
	}
	return raw, true
}

func copyRawEntry(zw *packageZipWriter, f *zip.File) error {
	if err := zw.copyRaw(f); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeIO, opHybrid)
	}
	return nil
}

// unsafeOrigIndices translates the workbook's modified/deleted sheets
// into the original read-time index space RelGraph's dependency sets
// were built against (tracker.ModifiedSheets() is kept in current-slice
// index space). A deleted sheet is found as a source sheet in
// artifacts.SheetOrigIndex that is no longer in wb.Sheets, since
// tracker.DeletedSheets() shifts its indices on every later deletion and
// so does not stay in the original index space.
func unsafeOrigIndices(wb *domain.Workbook, artifacts *reader.SourceArtifacts) map[int]struct{} {
	out := make(map[int]struct{})
	tracker := wb.Tracker()
	if artifacts != nil {
		live := make(map[int]struct{}, len(wb.Sheets))
		for i, s := range wb.Sheets {
			orig, ok := artifacts.SheetOrigIndex[s]
			if !ok {
				continue
			}
			live[orig] = struct{}{}
			if _, ok := tracker.ModifiedSheets()[i]; ok {
				out[orig] = struct{}{}
			}
		}
		for _, orig := range artifacts.SheetOrigIndex {
			if _, ok := live[orig]; !ok {
				out[orig] = struct{}{}
			}
		}
		return out
	}
	for orig := range tracker.DeletedSheets() {
		out[orig] = struct{}{}
	}
	return out
}

// copyPreservableParts streams every unparsed source part untouched by a
// modified or deleted sheet, unchanged, preserving its original
// compression method (spec.md §4.12 step 7).
func copyPreservableParts(zw *packageZipWriter, man *manifest.Manifest, graph *manifest.RelGraph, unsafe map[int]struct{}, byPath map[string]*zip.File) error {
	for _, e := range man.Entries() {
		if e.Kind != manifest.KindUnparsed {
			continue
		}
		if graph.IntersectsAny(e.Path, unsafe) {
			continue
		}
		f, ok := byPath[e.Path]
		if !ok {
			continue
		}
		if err := copyRawEntry(zw, f); err != nil {
			return err
		}
	}
	return nil
}
