package loader

import (
	"math"
	"strconv"
	"strings"
	"time"

	"jobmate/ingestion-service/internal/artifact"
	"jobmate/ingestion-service/internal/model"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindAbsent
	kindText
	kindNumber
	kindTime
)

// Value is one parsed cell. Null is the canonical missing marker; Absent is
// the raw "no value in the source" form that cleaning turns into Null.
type Value struct {
	kind valueKind
	text string
	num  float64
	at   time.Time
}

// Null returns the canonical null marker.
func Null() Value { return Value{kind: kindNull} }

// Absent returns a value missing from the source.
func Absent() Value { return Value{kind: kindAbsent} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// Time returns a timestamp cell.
func Time(t time.Time) Value { return Value{kind: kindTime, at: t} }

// IsNull reports whether v is the canonical null.
func (v Value) IsNull() bool { return v.kind == kindNull }

// AsText returns the text of a text cell; ok is false for any other kind.
func (v Value) AsText() (s string, ok bool) { return v.text, v.kind == kindText }

// AsFloat returns the number of a numeric cell; ok is false for any other kind.
func (v Value) AsFloat() (f float64, ok bool) { return v.num, v.kind == kindNumber }

// AsTime returns the time of a timestamp cell; ok is false for any other kind.
func (v Value) AsTime() (t time.Time, ok bool) { return v.at, v.kind == kindTime }

// Rule maps one source-specific missing representation to Null and leaves
// every other value untouched.
type Rule interface {
	Apply(Value) Value
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(Value) Value

// Apply calls f(v).
func (f RuleFunc) Apply(v Value) Value { return f(v) }

var (
	// AbsentRule turns a missing cell into Null.
	AbsentRule Rule = RuleFunc(func(v Value) Value {
		if v.kind == kindAbsent {
			return Null()
		}
		return v
	})

	// NaNRule turns the floating-point not-a-number value into Null.
	NaNRule Rule = RuleFunc(func(v Value) Value {
		if v.kind == kindNumber && math.IsNaN(v.num) {
			return Null()
		}
		return v
	})

	// SentinelRule turns the text "nan", in any case, into Null.
	SentinelRule Rule = RuleFunc(func(v Value) Value {
		if v.kind == kindText && strings.EqualFold(v.text, "nan") {
			return Null()
		}
		return v
	})
)

// Cleaner applies its rules in order, stopping at the first Null.
type Cleaner struct {
	rules []Rule
}

// NewCleaner composes rules into a Cleaner.
func NewCleaner(rules ...Rule) *Cleaner {
	return &Cleaner{rules: rules}
}

// DefaultCleaner handles absent cells, NaN numbers and "nan" text.
func DefaultCleaner() *Cleaner {
	return NewCleaner(AbsentRule, NaNRule, SentinelRule)
}

// Clean normalizes v. A rule that panics yields Null.
func (c *Cleaner) Clean(v Value) (out Value) {
	defer func() {
		if recover() != nil {
			out = Null()
		}
	}()

	for _, r := range c.rules {
		if v = r.Apply(v); v.IsNull() {
			return v
		}
	}
	return v
}

// ColumnKind selects how a raw CSV cell is parsed.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindTimestamp
)

var columnKinds = map[string]ColumnKind{
	model.ColSalaryMin:   KindNumber,
	model.ColSalaryMax:   KindNumber,
	model.ColExtractedAt: KindTimestamp,
}

// KindOf returns the parse kind for a column; unknown columns are text.
func KindOf(col string) ColumnKind {
	return columnKinds[col]
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// ParseCell turns a raw cell into a Value. An empty cell is Absent. A cell
// that does not parse as its column kind is Null.
func ParseCell(kind ColumnKind, raw string, present bool) Value {
	if !present || raw == "" {
		return Absent()
	}

	switch kind {
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Null()
		}
		return Number(f)
	case KindTimestamp:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return Time(t.UTC())
			}
		}
		return Null()
	default:
		return Text(raw)
	}
}

// CleanRow builds a JobRecord from a CSV row by column name, cleaning every
// cell with c.
func (c *Cleaner) CleanRow(row artifact.Row) model.JobRecord {
	cell := func(col string) Value {
		raw, ok := row.Get(col)
		return c.Clean(ParseCell(KindOf(col), raw, ok))
	}
	text := func(col string) *string {
		if s, ok := cell(col).AsText(); ok {
			return &s
		}
		return nil
	}
	plain := func(col string) string {
		if p := text(col); p != nil {
			return *p
		}
		return ""
	}
	number := func(col string) *float64 {
		if f, ok := cell(col).AsFloat(); ok {
			return &f
		}
		return nil
	}

	rec := model.JobRecord{
		CompanyNameSearched: plain(model.ColCompanyNameSearched),
		JobID:               strings.TrimSpace(plain(model.ColJobID)),
		JobTitle:            text(model.ColJobTitle),
		Company:             text(model.ColCompany),
		Location:            text(model.ColLocation),
		Description:         text(model.ColDescription),
		SalaryMin:           number(model.ColSalaryMin),
		SalaryMax:           number(model.ColSalaryMax),
		ContractType:        text(model.ColContractType),
		ContractTime:        text(model.ColContractTime),
		Category:            text(model.ColCategory),
		Created:             plain(model.ColCreated),
		RedirectURL:         plain(model.ColRedirectURL),
	}
	if t, ok := cell(model.ColExtractedAt).AsTime(); ok {
		rec.ExtractedAt = t
	}
	return rec
}
