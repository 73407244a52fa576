// Package manifest holds the low-level, domain-independent bookkeeping
// types shared by the reader and writer sides of the engine: the part
// manifest, the relationship graph, and the source fingerprint. It has no
// dependency on the domain package so that domain.SourceContext can embed
// these types without an import cycle (internal/reader and
// internal/writer both depend on domain).
package manifest

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PartKind tags whether a manifest entry was parsed into a typed record
// or left as an unparsed, potentially-preservable blob (spec.md §3).
type PartKind int

const (
	KindUnparsed PartKind = iota
	KindParsed
)

// PartEntry describes one ZIP entry as encountered during read, in
// encounter order (spec.md §3).
type PartEntry struct {
	Path               string
	UncompressedSize   uint64
	CompressedSize     uint64
	CRC32              uint32
	CompressionMethod   uint16
	Kind               PartKind
}

// Manifest is the ordered table of every ZIP entry in a source package.
// Insertion order is retained for reproducible output (spec.md §3).
type Manifest struct {
	entries []PartEntry
	index   map[string]int
}

// New creates an empty Manifest.
func New() *Manifest {
	return &Manifest{index: make(map[string]int)}
}

// Add appends a part entry, recording its position.
func (m *Manifest) Add(e PartEntry) {
	m.index[e.Path] = len(m.entries)
	m.entries = append(m.entries, e)
}

// Entries returns the manifest in insertion order. The returned slice
// must not be mutated by callers.
func (m *Manifest) Entries() []PartEntry { return m.entries }

// Lookup returns the entry for a path and whether it exists.
func (m *Manifest) Lookup(path string) (PartEntry, bool) {
	i, ok := m.index[path]
	if !ok {
		return PartEntry{}, false
	}
	return m.entries[i], true
}

// Len returns the number of tracked parts.
func (m *Manifest) Len() int { return len(m.entries) }

// Fingerprint is the size+digest pair identifying a source file's exact
// byte content (spec.md §3).
type Fingerprint struct {
	Size   uint64
	Digest [32]byte
}

// Equal compares two fingerprints for exact equality.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f.Size == o.Size && f.Digest == o.Digest
}

// DigestStream wraps a running SHA-256 computation so a reader can hash
// the source file as a side effect of a single pass, finalizing exactly
// once after the last byte is consumed (spec.md §5).
type DigestStream struct {
	h     hash.Hash
	size  uint64
	final bool
}

// NewDigestStream starts a fresh digest accumulator.
func NewDigestStream() *DigestStream {
	return &DigestStream{h: sha256.New()}
}

// Write feeds bytes into the running digest. Implements io.Writer so it
// can be used as a TeeReader sink.
func (d *DigestStream) Write(p []byte) (int, error) {
	d.size += uint64(len(p))
	return d.h.Write(p)
}

// Finish finalizes the digest and returns the Fingerprint. Calling it
// more than once returns the same value; the underlying hash state is
// not mutated again.
func (d *DigestStream) Finish() Fingerprint {
	if d.final {
		return d.snapshot()
	}
	d.final = true
	return d.snapshot()
}

func (d *DigestStream) snapshot() Fingerprint {
	var sum [32]byte
	copy(sum[:], d.h.Sum(nil))
	return Fingerprint{Size: d.size, Digest: sum}
}

// RelGraph maps a part path to the set of sheet indices (0-based) it
// transitively depends on (spec.md §4.4). A part with an empty
// dependency set is sheet-agnostic.
type RelGraph struct {
	deps map[string]map[int]struct{}
}

// NewRelGraph creates an empty relationship graph.
func NewRelGraph() *RelGraph {
	return &RelGraph{deps: make(map[string]map[int]struct{})}
}

// AddDependency records that path depends on sheetIndex.
func (g *RelGraph) AddDependency(path string, sheetIndex int) {
	set, ok := g.deps[path]
	if !ok {
		set = make(map[int]struct{})
		g.deps[path] = set
	}
	set[sheetIndex] = struct{}{}
}

// DependenciesFor returns the sheet indices a part reaches, sorted.
func (g *RelGraph) DependenciesFor(path string) []int {
	set, ok := g.deps[path]
	if !ok {
		return nil
	}
	out := maps.Keys(set)
	slices.Sort(out)
	return out
}

// IntersectsAny reports whether path's dependency set intersects sheets.
func (g *RelGraph) IntersectsAny(path string, sheets map[int]struct{}) bool {
	set, ok := g.deps[path]
	if !ok {
		return false
	}
	for i := range sheets {
		if _, hit := set[i]; hit {
			return true
		}
	}
	return false
}

// IsSheetAgnostic reports whether a part has no recorded sheet
// dependency at all (e.g. the theme).
func (g *RelGraph) IsSheetAgnostic(path string) bool {
	set, ok := g.deps[path]
	return !ok || len(set) == 0
}
