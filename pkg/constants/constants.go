// Package constants carries OOXML namespace URIs, fixed part paths, and
// other literal values the engine must reproduce byte-for-byte.
package constants

// XML namespaces (spec.md §6).
const (
	NamespaceSpreadsheetML = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NamespaceRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespacePackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NamespaceVML           = "urn:schemas-microsoft-com:vml"
	NamespaceOffice        = "urn:schemas-microsoft-com:office:office"
	NamespaceExcel         = "urn:schemas-microsoft-com:office:excel"
	NamespaceMC            = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	NamespaceXR            = "http://schemas.microsoft.com/office/spreadsheetml/2014/revision"
	NamespaceXR3           = "http://schemas.microsoft.com/office/spreadsheetml/2016/revision3"
	NamespaceX14AC         = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac"
)

// Content types for known parts.
const (
	ContentTypeWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ContentTypeWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ContentTypeStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ContentTypeSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ContentTypeTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	ContentTypeComments      = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"
	ContentTypeTable         = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML           = "application/xml"
	ContentTypeVML           = "application/vnd.openxmlformats-officedocument.vmlDrawing"
)

// Relationship types.
const (
	RelTypeOfficeDocument = NamespaceRelationships + "/officeDocument"
	RelTypeWorksheet      = NamespaceRelationships + "/worksheet"
	RelTypeStyles         = NamespaceRelationships + "/styles"
	RelTypeSharedStrings  = NamespaceRelationships + "/sharedStrings"
	RelTypeComments       = NamespaceRelationships + "/comments"
	RelTypeVMLDrawing     = NamespaceRelationships + "/vmlDrawing"
	RelTypeTable          = NamespaceRelationships + "/table"
	RelTypeTheme          = NamespaceRelationships + "/theme"
	RelTypeDrawing        = NamespaceRelationships + "/drawing"
)

// Fixed part paths.
const (
	PathContentTypes      = "[Content_Types].xml"
	PathRootRels          = "_rels/.rels"
	PathWorkbook          = "xl/workbook.xml"
	PathWorkbookRels      = "xl/_rels/workbook.xml.rels"
	PathStyles            = "xl/styles.xml"
	PathSharedStrings     = "xl/sharedStrings.xml"
	PathTheme             = "xl/theme/theme1.xml"
	PathWorksheetDir      = "xl/worksheets/"
	PathWorksheetRelsDir  = "xl/worksheets/_rels/"
	PathCommentsPrefix    = "xl/comments"
	PathVMLDrawingPrefix  = "xl/drawings/vmlDrawing"
	PathTablesDir         = "xl/tables/"
)

// Default capacities, used to size slices/maps up front the way the
// teacher's constants package pre-sizes paragraph/run slices.
const (
	DefaultSheetCapacity  = 8
	DefaultCellCapacity   = 256
	DefaultStyleCapacity  = 32
	DefaultStringCapacity = 128
)

// DeflateLevel is the compression level every part is written with, so
// two writes of an unchanged workbook produce byte-identical archives
// (spec.md §5: deterministic output).
const DeflateLevel = 1

// Security limit defaults (spec.md §4.3 / §6).
const (
	DefaultMaxEntryCount       = 10_000
	DefaultMaxUncompressedSize = int64(1) << 30 // 1 GiB
	DefaultMaxCompressionRatio = 200
	DefaultMaxCellCount        = 5_000_000
	DefaultMaxStringLength     = 32_767 // Excel's own per-cell text limit
)

// VML comment-shape ID spacing (spec.md §4.7).
const VMLShapeIDSheetSpacing = 1_000_000
