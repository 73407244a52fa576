// Package reader implements PackageReader (spec.md §4.3): ZIP
// iteration under configurable security limits, part classification,
// relationship-graph construction, and codec-driven hydration of the
// known parts into a domain.Workbook. Grounded on the teacher's
// internal/reader/package.go and reader.go.
package reader

import pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"

// Limits bounds what PackageReader will process, defending against
// zip-bomb and resource-exhaustion inputs (spec.md §4.3, §6).
type Limits struct {
	MaxEntryCount       int
	MaxUncompressedSize int64
	MaxCompressionRatio int
	MaxCellCount        int
	MaxStringLength     int
}

// DefaultLimits returns the engine's default security posture.
func DefaultLimits() Limits {
	return Limits{
		MaxEntryCount:       pkgconst.DefaultMaxEntryCount,
		MaxUncompressedSize: pkgconst.DefaultMaxUncompressedSize,
		MaxCompressionRatio: pkgconst.DefaultMaxCompressionRatio,
		MaxCellCount:        pkgconst.DefaultMaxCellCount,
		MaxStringLength:     pkgconst.DefaultMaxStringLength,
	}
}
