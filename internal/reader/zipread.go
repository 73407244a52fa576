package reader

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"io"

	pkgerrors "github.com/mmonterroca/xlsxcore/pkg/errors"
)

const opOpenPackage = "reader.OpenPackage"

// rawEntry is one ZIP entry's metadata plus, for known parts, its
// decompressed bytes.
type rawEntry struct {
	path               string
	uncompressedSize   uint64
	compressedSize     uint64
	crc32              uint32
	compressionMethod  uint16
	known              bool
	data               []byte // only populated for known parts
}

// openedPackage is the result of ZIP iteration under security limits:
// every entry's metadata in encounter order, known parts' bytes, and the
// whole-file fingerprint.
type openedPackage struct {
	entries  []rawEntry
	size     uint64
	digest   [32]byte
}

// openPackage reads the whole source into memory once (so a single pass
// produces both the SHA-256 fingerprint and the random-access zip.Reader
// archive/zip needs), enforcing limits before any part is parsed
// (spec.md §4.3, §5, §8 scenario 7).
func openPackage(r io.Reader, limits Limits) (*openedPackage, error) {
	h := sha256.New()
	buf, err := io.ReadAll(io.TeeReader(r, h))
	if err != nil {
		return nil, pkgerrors.WrapWithCode(err, pkgerrors.ErrCodeIO, opOpenPackage)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, pkgerrors.WrapWithCode(err, pkgerrors.ErrCodeXML, opOpenPackage)
	}

	if len(zr.File) > limits.MaxEntryCount {
		return nil, pkgerrors.SecurityError(opOpenPackage, "zip entry count exceeds configured limit")
	}

	op := &openedPackage{size: uint64(len(buf))}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	op.digest = sum

	var totalUncompressed uint64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ratio := compressionRatio(f.UncompressedSize64, f.CompressedSize64)
		if limits.MaxCompressionRatio > 0 && ratio > limits.MaxCompressionRatio {
			return nil, pkgerrors.SecurityError(opOpenPackage, "entry "+f.Name+" exceeds the per-entry compression ratio limit")
		}
		totalUncompressed += f.UncompressedSize64
		if limits.MaxUncompressedSize > 0 && totalUncompressed > uint64(limits.MaxUncompressedSize) {
			return nil, pkgerrors.SecurityError(opOpenPackage, "total uncompressed size exceeds configured limit")
		}

		entry := rawEntry{
			path:              f.Name,
			uncompressedSize:  f.UncompressedSize64,
			compressedSize:    f.CompressedSize64,
			crc32:             f.CRC32,
			compressionMethod: f.Method,
		}
		if isKnownPath(f.Name) {
			entry.known = true
			rc, err := f.Open()
			if err != nil {
				return nil, pkgerrors.WrapWithCode(err, pkgerrors.ErrCodeIO, opOpenPackage)
			}
			data, err := io.ReadAll(io.LimitReader(rc, int64(limits.MaxUncompressedSize)+1))
			rc.Close()
			if err != nil {
				return nil, pkgerrors.WrapWithCode(err, pkgerrors.ErrCodeIO, opOpenPackage)
			}
			entry.data = data
		}
		op.entries = append(op.entries, entry)
	}
	return op, nil
}

func compressionRatio(uncompressed, compressed uint64) int {
	if compressed == 0 {
		if uncompressed == 0 {
			return 0
		}
		return int(uncompressed)
	}
	return int(uncompressed / compressed)
}
