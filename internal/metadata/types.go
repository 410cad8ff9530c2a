// Package metadata models the relational metadata the engine sends with each
// request: the virtual schema itself, the tables involved in a query and
// their typed columns.
package metadata

import (
	"fmt"
	"strings"

	"github.com/koustreak/vschema/internal/errs"
)

// ColumnMetadata describes a single column of a virtual table
type ColumnMetadata struct {
	Name         string
	AdapterNotes string
	Type         DataType
	Nullable     bool   // true when the engine omits isNullable
	Identity     bool   // true when the engine omits isIdentity
	Default      string // "" if no default
	Comment      string
}

// TableMetadata describes a table and its columns.
// Columns are in table order; the index of a column is its position.
type TableMetadata struct {
	Name         string
	AdapterNotes string
	Columns      []ColumnMetadata
	Comment      string
}

// NewTable builds a TableMetadata and rejects tables without columns.
//
// A table with zero columns means the dialect failed to map the type of at
// least one column, so it is never accepted silently.
func NewTable(name, adapterNotes string, columns []ColumnMetadata, comment string) (TableMetadata, error) {
	if len(columns) == 0 {
		return TableMetadata{}, &errs.Error{
			Kind: errs.ErrKindMalformedMetadata,
			Message: fmt.Sprintf("table %s has no columns; if the source table does have columns, "+
				"the dialect probably does not handle their data types", name),
			Node:  "table",
			Field: "columns",
		}
	}
	return TableMetadata{
		Name:         name,
		AdapterNotes: adapterNotes,
		Columns:      columns,
		Comment:      comment,
	}, nil
}

// HasComment reports whether the table carries a non-empty comment.
func (t TableMetadata) HasComment() bool { return t.Comment != "" }

// Column returns the column at position nr, or false if out of range.
func (t TableMetadata) Column(nr int) (ColumnMetadata, bool) {
	if nr < 0 || nr >= len(t.Columns) {
		return ColumnMetadata{}, false
	}
	return t.Columns[nr], true
}

// Describe renders a short human-readable description,
// e.g. "CLICKS (ID DECIMAL(22, 0), URL VARCHAR(1000) UTF8)".
func (t TableMetadata) Describe() string {
	parts := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		parts[i] = c.Name + " " + c.Type.String()
	}
	return t.Name + " (" + strings.Join(parts, ", ") + ")"
}

// SchemaMetadataInfo describes the virtual schema a request belongs to.
type SchemaMetadataInfo struct {
	Name         string
	AdapterNotes string // opaque adapter state, may be empty
	Properties   map[string]string
}

// Property returns the value of a schema property and whether it is set.
func (s SchemaMetadataInfo) Property(key string) (string, bool) {
	v, ok := s.Properties[key]
	return v, ok
}

// PropertyState is the state of a property in a property change set.
type PropertyState int

const (
	PropertyUnset   PropertyState = iota // key not mentioned
	PropertyPresent                      // key set to a value, possibly ""
	PropertyDeleted                      // key explicitly removed (JSON null)
)

func (s PropertyState) String() string {
	switch s {
	case PropertyPresent:
		return "present"
	case PropertyDeleted:
		return "deleted"
	default:
		return "unset"
	}
}

// PropertyValue is a tri-state property value. The zero value is Unset.
type PropertyValue struct {
	State PropertyState
	Value string
}

// Present returns a PropertyValue carrying v.
func Present(v string) PropertyValue {
	return PropertyValue{State: PropertyPresent, Value: v}
}

// Deleted returns a PropertyValue marking the property for removal.
func Deleted() PropertyValue {
	return PropertyValue{State: PropertyDeleted}
}

func (p PropertyValue) IsPresent() bool { return p.State == PropertyPresent }
func (p PropertyValue) IsDeleted() bool { return p.State == PropertyDeleted }
func (p PropertyValue) IsUnset() bool   { return p.State == PropertyUnset }

func (p PropertyValue) String() string {
	switch p.State {
	case PropertyPresent:
		return fmt.Sprintf("%q", p.Value)
	case PropertyDeleted:
		return "<deleted>"
	default:
		return "<unset>"
	}
}
