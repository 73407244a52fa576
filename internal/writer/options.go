// Package writer implements PackageWriter (spec.md §4.10-§4.13): strategy
// selection between verbatim file copy, full regeneration, and the
// hybrid surgical path, canonical deterministic ZIP emission, and the
// write-side codecs that turn domain state back into OOXML parts.
// Grounded on the teacher's internal/writer/zip.go ZipWriter, generalized
// from a single fixed docx layout to a variable sheet/comment/table part
// set and a preserve-vs-regenerate decision per part.
package writer

import (
	"github.com/mmonterroca/xlsxcore/internal/manager"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// Compression selects the ZIP compression method used for entries this
// engine regenerates (spec.md §6: DEFLATE level 1 by default, STORED
// optional for debug). Parts copied verbatim from a source package keep
// whatever method they already carried, regardless of this setting.
type Compression int

const (
	Deflated Compression = iota
	Stored
)

// Options configures one PackageWriter invocation, matching the
// configuration shape of spec.md §6.
type Options struct {
	SSTPolicy   manager.SSTPolicy
	Compression Compression
	PrettyPrint bool

	// EscapeFormulas prefixes text values beginning with '=', '+', '-',
	// or '@' with a leading apostrophe on write, guarding against formula
	// injection when cell text originates from untrusted data.
	EscapeFormulas bool

	// Security limits. These mirror internal/reader.Limits and
	// DefaultOptions fills them with the package defaults, but the writer
	// does not read them: its output is not checked against these limits,
	// and zero has no special meaning.
	MaxCompressionRatio int
	MaxUncompressedSize int64
	MaxEntryCount       int
	MaxCellCount        int
	MaxStringLength     int
}

// DefaultOptions is the engine's default write behavior: automatic SST
// usage (spec.md §4.6), DEFLATE level 1, no pretty-printing, no formula
// escaping, and the package's default security limits.
func DefaultOptions() Options {
	return Options{
		SSTPolicy:           manager.SSTAuto,
		Compression:         Deflated,
		MaxCompressionRatio: pkgconst.DefaultMaxCompressionRatio,
		MaxUncompressedSize: pkgconst.DefaultMaxUncompressedSize,
		MaxEntryCount:       pkgconst.DefaultMaxEntryCount,
		MaxCellCount:        pkgconst.DefaultMaxCellCount,
		MaxStringLength:     pkgconst.DefaultMaxStringLength,
	}
}
