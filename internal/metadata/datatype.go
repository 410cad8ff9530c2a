package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/wire"
)

// TypeKind identifies one member of the closed column type taxonomy.
type TypeKind int

const (
	KindDecimal TypeKind = iota
	KindDouble
	KindVarchar
	KindChar
	KindBoolean
	KindDate
	KindTimestamp
	KindIntervalYearToMonth
	KindIntervalDayToSecond
	KindGeometry
)

func (k TypeKind) String() string {
	switch k {
	case KindDecimal:
		return "DECIMAL"
	case KindDouble:
		return "DOUBLE"
	case KindVarchar:
		return "VARCHAR"
	case KindChar:
		return "CHAR"
	case KindBoolean:
		return "BOOLEAN"
	case KindDate:
		return "DATE"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindIntervalYearToMonth:
		return "INTERVAL YEAR TO MONTH"
	case KindIntervalDayToSecond:
		return "INTERVAL DAY TO SECOND"
	case KindGeometry:
		return "GEOMETRY"
	default:
		return "UNKNOWN"
	}
}

// DataType is a column type.
//
// This is a sealed interface: only the types in this file implement it, so a
// type switch over the variants below is exhaustive. All variants are
// comparable, so two DataType values can be compared with ==.
type DataType interface {
	Kind() TypeKind
	String() string
	dataType()
}

// Charset is the character set of a string type.
type Charset string

const (
	CharsetUTF8  Charset = "UTF8"
	CharsetASCII Charset = "ASCII"
)

// Default interval parameters applied when the JSON omits them.
const (
	DefaultIntervalPrecision = 2
	DefaultIntervalFraction  = 3
)

// Interval qualifier tokens as sent by the engine. Note the plural SECONDS.
const (
	fromToYearMonth = "YEAR TO MONTH"
	fromToDaySecond = "DAY TO SECONDS"
)

type Decimal struct {
	Precision int
	Scale     int
}

type Double struct{}

type Varchar struct {
	Size    int
	Charset Charset
}

type Char struct {
	Size    int
	Charset Charset
}

type Boolean struct{}

type Date struct{}

type Timestamp struct {
	WithLocalTimezone bool
}

type IntervalYearToMonth struct {
	Precision int
}

type IntervalDayToSecond struct {
	Precision int
	Fraction  int
}

type Geometry struct {
	SRID int
}

func (Decimal) dataType()             {}
func (Double) dataType()              {}
func (Varchar) dataType()             {}
func (Char) dataType()                {}
func (Boolean) dataType()             {}
func (Date) dataType()                {}
func (Timestamp) dataType()           {}
func (IntervalYearToMonth) dataType() {}
func (IntervalDayToSecond) dataType() {}
func (Geometry) dataType()            {}

func (Decimal) Kind() TypeKind             { return KindDecimal }
func (Double) Kind() TypeKind              { return KindDouble }
func (Varchar) Kind() TypeKind             { return KindVarchar }
func (Char) Kind() TypeKind                { return KindChar }
func (Boolean) Kind() TypeKind             { return KindBoolean }
func (Date) Kind() TypeKind                { return KindDate }
func (Timestamp) Kind() TypeKind           { return KindTimestamp }
func (IntervalYearToMonth) Kind() TypeKind { return KindIntervalYearToMonth }
func (IntervalDayToSecond) Kind() TypeKind { return KindIntervalDayToSecond }
func (Geometry) Kind() TypeKind            { return KindGeometry }

func (t Decimal) String() string { return fmt.Sprintf("DECIMAL(%d, %d)", t.Precision, t.Scale) }
func (Double) String() string    { return "DOUBLE" }
func (t Varchar) String() string { return fmt.Sprintf("VARCHAR(%d) %s", t.Size, t.Charset) }
func (t Char) String() string    { return fmt.Sprintf("CHAR(%d) %s", t.Size, t.Charset) }
func (Boolean) String() string   { return "BOOLEAN" }
func (Date) String() string      { return "DATE" }

func (t Timestamp) String() string {
	if t.WithLocalTimezone {
		return "TIMESTAMP WITH LOCAL TIME ZONE"
	}
	return "TIMESTAMP"
}

func (t IntervalYearToMonth) String() string {
	return fmt.Sprintf("INTERVAL YEAR (%d) TO MONTH", t.Precision)
}

func (t IntervalDayToSecond) String() string {
	return fmt.Sprintf("INTERVAL DAY (%d) TO SECOND (%d)", t.Precision, t.Fraction)
}

func (t Geometry) String() string { return fmt.Sprintf("GEOMETRY(%d)", t.SRID) }

// typeParsers maps the upper-cased type tag to its parameter reader.
// Read-only after package initialisation.
var typeParsers = map[string]func(wire.Object) (DataType, error){
	"DECIMAL":   parseDecimal,
	"DOUBLE":    func(wire.Object) (DataType, error) { return Double{}, nil },
	"VARCHAR":   parseVarchar,
	"CHAR":      parseChar,
	"BOOLEAN":   func(wire.Object) (DataType, error) { return Boolean{}, nil },
	"DATE":      func(wire.Object) (DataType, error) { return Date{}, nil },
	"TIMESTAMP": parseTimestamp,
	"INTERVAL":  parseInterval,
	"GEOMETRY":  parseGeometry,
}

// ParseDataType decodes a "dataType" JSON descriptor.
//
// The "type" tag is matched case-insensitively. An unknown tag fails with
// ErrKindUnsupportedType carrying the tag as sent; unknown charset and
// interval qualifier tokens fail with their own kinds. Nothing is defaulted
// beyond the documented field defaults.
func ParseDataType(raw json.RawMessage) (DataType, error) {
	obj, err := wire.ParseObject(raw, "dataType")
	if err != nil {
		return nil, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	return parseDataType(obj)
}

func parseDataType(obj wire.Object) (DataType, error) {
	tag, err := obj.String("type")
	if err != nil {
		return nil, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	parse, ok := typeParsers[strings.ToUpper(tag)]
	if !ok {
		return nil, errs.Unsupported(errs.ErrKindUnsupportedType, obj.Kind(), "type", tag)
	}
	dt, err := parse(obj)
	if err != nil {
		return nil, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	return dt, nil
}

func parseDecimal(obj wire.Object) (DataType, error) {
	precision, err := obj.Int("precision")
	if err != nil {
		return nil, err
	}
	scale, err := obj.Int("scale")
	if err != nil {
		return nil, err
	}
	return Decimal{Precision: precision, Scale: scale}, nil
}

func parseVarchar(obj wire.Object) (DataType, error) {
	size, cs, err := parseSized(obj)
	if err != nil {
		return nil, err
	}
	return Varchar{Size: size, Charset: cs}, nil
}

func parseChar(obj wire.Object) (DataType, error) {
	size, cs, err := parseSized(obj)
	if err != nil {
		return nil, err
	}
	return Char{Size: size, Charset: cs}, nil
}

func parseSized(obj wire.Object) (int, Charset, error) {
	size, err := obj.Int("size")
	if err != nil {
		return 0, "", err
	}
	token, err := obj.OptString("characterSet", string(CharsetUTF8))
	if err != nil {
		return 0, "", err
	}
	cs, err := ParseCharset(token)
	if err != nil {
		return 0, "", err
	}
	return size, cs, nil
}

// ParseCharset maps a character set token to a Charset. Matching is exact.
func ParseCharset(token string) (Charset, error) {
	switch Charset(token) {
	case CharsetUTF8:
		return CharsetUTF8, nil
	case CharsetASCII:
		return CharsetASCII, nil
	default:
		return "", errs.Unsupported(errs.ErrKindUnsupportedCharset, "dataType", "characterSet", token)
	}
}

func parseTimestamp(obj wire.Object) (DataType, error) {
	local, err := obj.OptBool("withLocalTimeZone", false)
	if err != nil {
		return nil, err
	}
	return Timestamp{WithLocalTimezone: local}, nil
}

func parseInterval(obj wire.Object) (DataType, error) {
	precision, err := obj.OptInt("precision", DefaultIntervalPrecision)
	if err != nil {
		return nil, err
	}
	fromTo, err := obj.String("fromTo")
	if err != nil {
		return nil, err
	}
	switch fromTo {
	case fromToDaySecond:
		fraction, err := obj.OptInt("fraction", DefaultIntervalFraction)
		if err != nil {
			return nil, err
		}
		return IntervalDayToSecond{Precision: precision, Fraction: fraction}, nil
	case fromToYearMonth:
		return IntervalYearToMonth{Precision: precision}, nil
	default:
		return nil, errs.Unsupported(errs.ErrKindUnsupportedIntervalKind, obj.Kind(), "fromTo", fromTo)
	}
}

func parseGeometry(obj wire.Object) (DataType, error) {
	srid, err := obj.Int("srid")
	if err != nil {
		return nil, err
	}
	return Geometry{SRID: srid}, nil
}
