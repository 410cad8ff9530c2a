package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/vschema/internal/errs"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want DataType
		str  string
	}{
		{
			name: "decimal",
			src:  `{"type": "DECIMAL", "precision": 18, "scale": 2}`,
			want: Decimal{Precision: 18, Scale: 2},
			str:  "DECIMAL(18, 2)",
		},
		{
			name: "double",
			src:  `{"type": "DOUBLE"}`,
			want: Double{},
			str:  "DOUBLE",
		},
		{
			name: "varchar default charset",
			src:  `{"type": "VARCHAR", "size": 10000}`,
			want: Varchar{Size: 10000, Charset: CharsetUTF8},
			str:  "VARCHAR(10000) UTF8",
		},
		{
			name: "varchar ascii",
			src:  `{"type": "VARCHAR", "size": 100, "characterSet": "ASCII"}`,
			want: Varchar{Size: 100, Charset: CharsetASCII},
			str:  "VARCHAR(100) ASCII",
		},
		{
			name: "char",
			src:  `{"type": "CHAR", "size": 3, "characterSet": "UTF8"}`,
			want: Char{Size: 3, Charset: CharsetUTF8},
			str:  "CHAR(3) UTF8",
		},
		{
			name: "boolean",
			src:  `{"type": "BOOLEAN"}`,
			want: Boolean{},
			str:  "BOOLEAN",
		},
		{
			name: "date",
			src:  `{"type": "DATE"}`,
			want: Date{},
			str:  "DATE",
		},
		{
			name: "timestamp",
			src:  `{"type": "TIMESTAMP"}`,
			want: Timestamp{},
			str:  "TIMESTAMP",
		},
		{
			name: "timestamp local",
			src:  `{"type": "TIMESTAMP", "withLocalTimeZone": true}`,
			want: Timestamp{WithLocalTimezone: true},
			str:  "TIMESTAMP WITH LOCAL TIME ZONE",
		},
		{
			name: "interval day to second defaults",
			src:  `{"type": "INTERVAL", "fromTo": "DAY TO SECONDS"}`,
			want: IntervalDayToSecond{Precision: 2, Fraction: 3},
			str:  "INTERVAL DAY (2) TO SECOND (3)",
		},
		{
			name: "interval day to second",
			src:  `{"type": "INTERVAL", "fromTo": "DAY TO SECONDS", "precision": 3, "fraction": 4}`,
			want: IntervalDayToSecond{Precision: 3, Fraction: 4},
			str:  "INTERVAL DAY (3) TO SECOND (4)",
		},
		{
			name: "interval year to month",
			src:  `{"type": "INTERVAL", "fromTo": "YEAR TO MONTH", "precision": 3}`,
			want: IntervalYearToMonth{Precision: 3},
			str:  "INTERVAL YEAR (3) TO MONTH",
		},
		{
			name: "geometry",
			src:  `{"type": "GEOMETRY", "srid": 1}`,
			want: Geometry{SRID: 1},
			str:  "GEOMETRY(1)",
		},
		{
			name: "lower case tag",
			src:  `{"type": "decimal", "precision": 9, "scale": 0}`,
			want: Decimal{Precision: 9},
			str:  "DECIMAL(9, 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDataType(json.RawMessage(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, dt)
			assert.Equal(t, tt.str, dt.String())
			assert.Equal(t, tt.want.Kind(), dt.Kind())
		})
	}
}

func TestParseDataType_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(error) bool
		token string
	}{
		{name: "unknown tag", src: `{"type": "Blob"}`, check: errs.IsUnsupportedType, token: "Blob"},
		{name: "unknown charset", src: `{"type": "VARCHAR", "size": 1, "characterSet": "LATIN1"}`, check: errs.IsUnsupportedCharset, token: "LATIN1"},
		{name: "charset is case sensitive", src: `{"type": "CHAR", "size": 1, "characterSet": "utf8"}`, check: errs.IsUnsupportedCharset, token: "utf8"},
		{name: "unknown interval kind", src: `{"type": "INTERVAL", "fromTo": "HOUR TO MINUTE"}`, check: errs.IsUnsupportedIntervalKind, token: "HOUR TO MINUTE"},
		{name: "missing type", src: `{"size": 1}`, check: errs.IsMalformedMetadata},
		{name: "missing precision", src: `{"type": "DECIMAL", "scale": 0}`, check: errs.IsMalformedMetadata},
		{name: "ill-typed size", src: `{"type": "VARCHAR", "size": "ten"}`, check: errs.IsMalformedMetadata},
		{name: "not an object", src: `"DECIMAL"`, check: errs.IsMalformedMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDataType(json.RawMessage(tt.src))
			require.Error(t, err)
			assert.Nil(t, dt)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			if tt.token != "" {
				var e *errs.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.token, e.Token)
			}
		})
	}
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "DECIMAL", KindDecimal.String())
	assert.Equal(t, "INTERVAL DAY TO SECOND", KindIntervalDayToSecond.String())
	assert.Equal(t, "GEOMETRY", Geometry{}.Kind().String())
}
