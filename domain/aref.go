// Package domain defines the public workbook/cell/style data model that
// the OOXML engine reads from and writes to. These types are deliberately
// thin data carriers — the engineering lives in internal/reader,
// internal/writer, internal/manager and internal/serializer, which
// consume this package's types as plain data (spec.md §1).
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmonterroca/xlsxcore/pkg/errors"
)

const (
	// MaxCol is the highest valid 0-indexed column (XFD, 16384 columns).
	MaxCol = 16383
	// MaxRow is the highest valid 0-indexed row (1,048,576 rows).
	MaxRow = 1048575

	opNewARef   = "domain.NewARef"
	opParseARef = "domain.ParseARef"
)

// ARef is a 0-indexed (column, row) cell reference. Values are validated
// at construction; there is no way to build an out-of-range ARef.
type ARef struct {
	col int
	row int
}

// NewARef builds an ARef from 0-indexed coordinates, rejecting anything
// outside [0, MaxCol] x [0, MaxRow].
func NewARef(col, row int) (ARef, error) {
	if col < 0 || col > MaxCol {
		return ARef{}, errors.Errorf(errors.ErrCodeInvalidWorkbook, opNewARef, "column %d out of range [0, %d]", col, MaxCol)
	}
	if row < 0 || row > MaxRow {
		return ARef{}, errors.Errorf(errors.ErrCodeInvalidWorkbook, opNewARef, "row %d out of range [0, %d]", row, MaxRow)
	}
	return ARef{col: col, row: row}, nil
}

// MustARef is NewARef but panics on an invalid reference; intended for
// literal references in tests and internal callers that already know the
// coordinates are in range.
func MustARef(col, row int) ARef {
	r, err := NewARef(col, row)
	if err != nil {
		panic(err)
	}
	return r
}

// Col returns the 0-indexed column.
func (a ARef) Col() int { return a.col }

// Row returns the 0-indexed row.
func (a ARef) Row() int { return a.row }

// Col1 returns the 1-indexed column, as used in A1 notation.
func (a ARef) Col1() int { return a.col + 1 }

// Row1 returns the 1-indexed row, as used in A1 notation.
func (a ARef) Row1() int { return a.row + 1 }

// String renders the reference in A1 notation, e.g. "B7".
func (a ARef) String() string {
	return colLetters(a.col) + strconv.Itoa(a.row+1)
}

// colLetters converts a 0-indexed column to its Excel letter form.
func colLetters(col int) string {
	var b []byte
	col++
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// ParseARef parses A1 notation (e.g. "AA104") into an ARef.
func ParseARef(a1 string) (ARef, error) {
	i := 0
	for i < len(a1) && isAlpha(a1[i]) {
		i++
	}
	if i == 0 || i == len(a1) {
		return ARef{}, errors.Errorf(errors.ErrCodeXML, opParseARef, "malformed cell reference %q", a1)
	}
	colPart := strings.ToUpper(a1[:i])
	rowPart := a1[i:]

	col := 0
	for _, c := range colPart {
		col = col*26 + int(c-'A'+1)
	}
	col--

	row, err := strconv.Atoi(rowPart)
	if err != nil {
		return ARef{}, errors.WrapWithCode(err, errors.ErrCodeXML, opParseARef)
	}
	row--

	return NewARef(col, row)
}

func isAlpha(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }

// Range is an inclusive rectangular span between two references, used for
// dimensions and merged cells.
type Range struct {
	From ARef
	To   ARef
}

// String renders the range as "A1:B2", or just "A1" when From == To.
func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return fmt.Sprintf("%s:%s", r.From, r.To)
}
