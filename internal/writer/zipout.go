package writer

import (
	"archive/zip"
	"compress/flate"
	"io"
	"time"

	"github.com/mmonterroca/xlsxcore/internal/xml"
	pkgconst "github.com/mmonterroca/xlsxcore/pkg/constants"
)

// epochModTime is the fixed mtime every entry carries, so two writes of
// an unchanged workbook produce a byte-identical archive (spec.md §4.13,
// §6: "every entry has mtime = 1980-01-01 (epoch 0 in DOS time)").
var epochModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// packageZipWriter emits a package's entries in canonical order with the
// deterministic epoch-0-mtime contract spec.md §4.13 requires. The
// compression method for regenerated entries (DEFLATE level 1 or STORED)
// is fixed per writer invocation by Options.Compression.
type packageZipWriter struct {
	zw     *zip.Writer
	method uint16
	pretty bool
}

func newPackageZipWriter(w io.Writer, opts Options) *packageZipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, pkgconst.DeflateLevel)
	})
	method := uint16(zip.Deflate)
	if opts.Compression == Stored {
		method = zip.Store
	}
	return &packageZipWriter{zw: zw, method: method, pretty: opts.PrettyPrint}
}

// sinkFor opens name for streamed structural XML emission.
func (p *packageZipWriter) sinkFor(name string) (xml.Sink, error) {
	w, err := p.zw.CreateHeader(&zip.FileHeader{Name: name, Method: p.method, Modified: epochModTime})
	if err != nil {
		return nil, err
	}
	if p.pretty {
		return xml.NewIndentedStreamSink(w), nil
	}
	return xml.NewStreamSink(w), nil
}

// writeRaw writes pre-rendered bytes (e.g. a procedurally templated VML
// drawing) as a single part using the writer's configured method.
func (p *packageZipWriter) writeRaw(name string, data []byte) error {
	w, err := p.zw.CreateHeader(&zip.FileHeader{Name: name, Method: p.method, Modified: epochModTime})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// copyRaw streams a preserved source entry's compressed bytes through
// unchanged via archive/zip's raw API, so the copy keeps the original
// compression method and CRC32 exactly (spec.md §4.12 step 7, §4.13,
// §5: "constant-memory byte streaming directly from source ZIP to
// destination ZIP"). The writer's own Compression option does not apply
// here — only to parts this writer regenerates from scratch.
func (p *packageZipWriter) copyRaw(f *zip.File) error {
	fh := f.FileHeader
	fh.Modified = epochModTime
	rc, err := f.OpenRaw()
	if err != nil {
		return err
	}
	w, err := p.zw.CreateRaw(&fh)
	if err != nil {
		return err
	}
	buf := make([]byte, 8*1024)
	_, err = io.CopyBuffer(w, rc, buf)
	return err
}

func (p *packageZipWriter) Close() error { return p.zw.Close() }
