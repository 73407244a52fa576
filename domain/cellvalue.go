package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// ValueKind tags the variant held by a CellValue. Go has no sum types, so
// the engine follows spec.md §9's guidance ("tagged variants... avoid
// ad-hoc polymorphism") with an explicit kind discriminant instead of an
// interface hierarchy.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindNumber
	KindBool
	KindText
	KindRichText
	KindFormula
	KindError
	KindDateTime
)

// ErrorKind enumerates the Excel error codes a cell can hold.
type ErrorKind string

const (
	ErrRef   ErrorKind = "#REF!"
	ErrValue ErrorKind = "#VALUE!"
	ErrDiv0  ErrorKind = "#DIV/0!"
	ErrName  ErrorKind = "#NAME?"
	ErrNA    ErrorKind = "#N/A"
	ErrNum   ErrorKind = "#NUM!"
	ErrNull  ErrorKind = "#NULL!"
)

// excelEpoch is one day before the Excel 1900 date-system's serial day 1
// (1900-01-01). Go's calendar has no 1900-02-29 (1900 was not a leap
// year), so ToSerial subtracts one day for serials >= 60 and FromTime
// adds it back, matching Excel's historical leap-year bug: serial 60,
// which Excel displays as the fictitious 1900-02-29, decodes to the same
// date as serial 59 (1900-02-28). The engine only
// targets the 1900 date system; Date1904 workbooks are out of scope.
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// CellValue is the tagged variant held by a cell: Empty, Number, Bool,
// Text, RichText, Formula, Error, or DateTime (spec.md §3).
type CellValue struct {
	Kind ValueKind

	Number decimal.Decimal
	Bool   bool
	Text   string
	Runs   []TextRun

	FormulaExpr   string
	FormulaCached *CellValue // nil if no cached value

	ErrKind ErrorKind

	DateTime time.Time
}

// Empty returns the Empty variant.
func Empty() CellValue { return CellValue{Kind: KindEmpty} }

// NumberValue returns a Number variant.
func NumberValue(d decimal.Decimal) CellValue { return CellValue{Kind: KindNumber, Number: d} }

// BoolValue returns a Bool variant.
func BoolValue(b bool) CellValue { return CellValue{Kind: KindBool, Bool: b} }

// TextValue returns a Text variant, NFC-normalized per spec.md §3.
func TextValue(s string) CellValue {
	return CellValue{Kind: KindText, Text: norm.NFC.String(s)}
}

// RichTextValue returns a RichText variant.
func RichTextValue(runs []TextRun) CellValue {
	return CellValue{Kind: KindRichText, Runs: runs}
}

// FormulaValue returns a Formula variant with an optional cached value.
func FormulaValue(expr string, cached *CellValue) CellValue {
	return CellValue{Kind: KindFormula, FormulaExpr: expr, FormulaCached: cached}
}

// ErrorValue returns an Error variant.
func ErrorValue(kind ErrorKind) CellValue { return CellValue{Kind: KindError, ErrKind: kind} }

// DateTimeValue returns a DateTime variant.
func DateTimeValue(t time.Time) CellValue { return CellValue{Kind: KindDateTime, DateTime: t} }

// PlainText projects any textual variant (Text or RichText) to its plain
// string form, used for SST rich-text dedup keys (spec.md §4.6, §9 open
// question: this collapses distinct formatted runs with identical plain
// text into one SST slot, which the spec explicitly preserves rather than
// "fixes").
func (v CellValue) PlainText() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindRichText:
		var b []byte
		for _, r := range v.Runs {
			b = append(b, r.Text...)
		}
		return string(b)
	default:
		return ""
	}
}

// ToSerial converts an Excel 1900-system serial day count to a time.Time.
func ToSerial(serial float64) time.Time {
	days := int(serial)
	if days >= 60 {
		days--
	}
	frac := serial - float64(int(serial))
	t := excelEpoch.AddDate(0, 0, days)
	return t.Add(time.Duration(frac * 86400 * float64(time.Second)))
}

// FromTime converts a time.Time into an Excel 1900-system serial day count.
func FromTime(t time.Time) float64 {
	t = t.UTC()
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(dayStart.Sub(excelEpoch).Hours() / 24)
	if days >= 60 {
		days++
	}
	frac := t.Sub(dayStart).Seconds() / 86400
	return float64(days) + frac
}
