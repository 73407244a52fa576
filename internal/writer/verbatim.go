package writer

import (
	"crypto/sha256"
	"io"
	"os"

	"github.com/mmonterroca/xlsxcore/domain"
	"github.com/mmonterroca/xlsxcore/internal/manifest"
	"github.com/mmonterroca/xlsxcore/pkg/errors"
)

const opVerbatim = "writer.verbatim"

// tryVerbatimCopy implements strategy 2 (spec.md §4.10): a clean
// workbook written back to a file path is byte-copied from its source
// rather than re-serialized, provided the source hasn't changed on disk
// since it was read. Returns ok=false (with no error and no output
// written) when the precondition doesn't hold, so the caller falls back
// to the hybrid path.
func tryVerbatimCopy(wb *domain.Workbook, destPath string) (ok bool, err error) {
	src := wb.Source
	if src == nil {
		return false, nil
	}

	info, err := os.Stat(src.SourcePath)
	if err != nil {
		return false, nil
	}
	if uint64(info.Size()) != src.Fingerprint.Size {
		return false, nil
	}

	in, err := os.Open(src.SourcePath)
	if err != nil {
		return false, nil
	}
	defer in.Close()

	tmpPath := destPath + ".tmp-xlsxcore"
	out, err := os.Create(tmpPath)
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrCodeIO, opVerbatim)
	}

	h := sha256.New()
	tee := io.TeeReader(in, h)
	if _, err := io.Copy(out, tee); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return false, errors.WrapWithCode(err, errors.ErrCodeIO, opVerbatim)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return false, errors.WrapWithCode(err, errors.ErrCodeIO, opVerbatim)
	}

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	actual := manifest.Fingerprint{Size: uint64(info.Size()), Digest: digest}
	if !actual.Equal(src.Fingerprint) {
		os.Remove(tmpPath)
		return false, errors.FingerprintMismatch(opVerbatim, "source file changed since it was read; refusing verbatim copy")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return false, errors.WrapWithCode(err, errors.ErrCodeIO, opVerbatim)
	}
	return true, nil
}
