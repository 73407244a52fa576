package reader

import (
	"strconv"
	"strings"

	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// fixedKnownPaths is the set of parts known by exact path (spec.md §4.3).
var fixedKnownPaths = map[string]bool{
	pkgconst.PathContentTypes: true,
	pkgconst.PathRootRels:     true,
	pkgconst.PathWorkbook:     true,
	pkgconst.PathWorkbookRels: true,
	pkgconst.PathStyles:       true,
	pkgconst.PathSharedStrings: true,
	pkgconst.PathTheme:        true,
}

// isKnownPath reports whether path matches the fixed set or one of the
// numbered patterns spec.md §4.3 names.
func isKnownPath(path string) bool {
	if fixedKnownPaths[path] {
		return true
	}
	if _, ok := sheetNumber(path); ok {
		return true
	}
	if _, ok := commentsNumber(path); ok {
		return true
	}
	if _, ok := tableNumber(path); ok {
		return true
	}
	if _, ok := sheetRelsNumber(path); ok {
		return true
	}
	return false
}

func sheetNumber(path string) (int, bool) {
	return numberedPath(path, pkgconst.PathWorksheetDir, ".xml")
}

func sheetRelsNumber(path string) (int, bool) {
	return numberedPath(path, pkgconst.PathWorksheetRelsDir, ".xml.rels")
}

func commentsNumber(path string) (int, bool) {
	return numberedPath(path, pkgconst.PathCommentsPrefix, ".xml")
}

func tableNumber(path string) (int, bool) {
	return numberedPath(path, pkgconst.PathTablesDir+"table", ".xml")
}

func numberedPath(path, prefix, suffix string) (int, bool) {
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return 0, false
	}
	mid := path[len(prefix) : len(path)-len(suffix)]
	if prefix == pkgconst.PathWorksheetDir || prefix == pkgconst.PathWorksheetRelsDir {
		if !strings.HasPrefix(mid, "sheet") {
			return 0, false
		}
		mid = mid[len("sheet"):]
	}
	n, err := strconv.Atoi(mid)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func sheetPartPath(n int) string {
	return pkgconst.PathWorksheetDir + "sheet" + strconv.Itoa(n) + ".xml"
}

func sheetRelsPartPath(n int) string {
	return pkgconst.PathWorksheetRelsDir + "sheet" + strconv.Itoa(n) + ".xml.rels"
}

func commentsPartPath(n int) string {
	return pkgconst.PathCommentsPrefix + strconv.Itoa(n) + ".xml"
}

func tablePartPath(n int) string {
	return pkgconst.PathTablesDir + "table" + strconv.Itoa(n) + ".xml"
}

// resolveRelTarget resolves a relationship Target (relative to base's
// directory, or absolute if it starts with "/") and rejects any result
// that escapes the xl/ root (spec.md §4.4).
func resolveRelTarget(baseDir, target string) (string, bool) {
	var segs []string
	if strings.HasPrefix(target, "/") {
		segs = strings.Split(target, "/")
	} else {
		segs = append(strings.Split(baseDir, "/"), strings.Split(target, "/")...)
	}
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", false
			}
			out = out[:len(out)-1]
		default:
			out = append(out, s)
		}
	}
	joined := strings.Join(out, "/")
	if !strings.HasPrefix(joined, "xl/") {
		return "", false
	}
	return joined, true
}
