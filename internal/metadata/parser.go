package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/wire"
)

const (
	keyInvolvedTables = "involvedTables"
	keyAdapterNotes   = "adapterNotes"
	keyDataType       = "dataType"
)

// ParseInvolvedTables reads the "involvedTables" array of the given request
// object. The first malformed table aborts the parse; no partial list is
// returned.
func ParseInvolvedTables(raw json.RawMessage) ([]TableMetadata, error) {
	obj, err := wire.ParseObject(raw, "request")
	if err != nil {
		return nil, err
	}
	return InvolvedTables(obj)
}

// InvolvedTables is ParseInvolvedTables for an already decoded object.
func InvolvedTables(obj wire.Object) ([]TableMetadata, error) {
	elems, err := obj.Array(keyInvolvedTables)
	if err != nil {
		return nil, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	return parseTableList(elems)
}

// ParseTables parses a bare JSON array of table descriptions.
func ParseTables(raw json.RawMessage) ([]TableMetadata, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errs.Wrap(errs.ErrKindMalformedMetadata, "expected an array of tables", err)
	}
	return parseTableList(elems)
}

func parseTableList(elems []json.RawMessage) ([]TableMetadata, error) {
	tables := make([]TableMetadata, 0, len(elems))
	for i, elem := range elems {
		t, err := parseTable(elem)
		if err != nil {
			return nil, fmt.Errorf("involved table #%d: %w", i, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func parseTable(raw json.RawMessage) (TableMetadata, error) {
	obj, err := wire.ParseObject(raw, "table")
	if err != nil {
		return TableMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}

	name, err := obj.String("name")
	if err != nil {
		return TableMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	notes, err := obj.Text(keyAdapterNotes)
	if err != nil {
		return TableMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	comment, err := obj.OptString("comment", "")
	if err != nil {
		return TableMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	colElems, err := obj.Array("columns")
	if err != nil {
		return TableMetadata{}, fmt.Errorf("table %s: %w", name, errs.WithKind(err, errs.ErrKindMalformedMetadata))
	}

	columns := make([]ColumnMetadata, 0, len(colElems))
	for i, elem := range colElems {
		col, err := parseColumn(elem)
		if err != nil {
			return TableMetadata{}, fmt.Errorf("table %s, column #%d: %w", name, i, err)
		}
		columns = append(columns, col)
	}
	return NewTable(name, notes, columns, comment)
}

func parseColumn(raw json.RawMessage) (ColumnMetadata, error) {
	obj, err := wire.ParseObject(raw, "column")
	if err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}

	var col ColumnMetadata
	if col.Name, err = obj.String("name"); err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	if col.AdapterNotes, err = obj.Text(keyAdapterNotes); err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	if col.Comment, err = obj.OptString("comment", ""); err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	if col.Default, err = obj.OptString("default", ""); err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	// Both flags default to true when absent; identity included.
	if col.Nullable, err = obj.OptBool("isNullable", true); err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}
	if col.Identity, err = obj.OptBool("isIdentity", true); err != nil {
		return ColumnMetadata{}, errs.WithKind(err, errs.ErrKindMalformedMetadata)
	}

	dtObj, err := obj.Object(keyDataType, keyDataType)
	if err != nil {
		return ColumnMetadata{}, fmt.Errorf("column %s: %w", col.Name, errs.WithKind(err, errs.ErrKindMalformedMetadata))
	}
	if col.Type, err = parseDataType(dtObj); err != nil {
		return ColumnMetadata{}, fmt.Errorf("column %s: %w", col.Name, err)
	}
	return col, nil
}

// ParseSchemaMetadataInfo decodes a "schemaMetadataInfo" object.
func ParseSchemaMetadataInfo(raw json.RawMessage) (SchemaMetadataInfo, error) {
	obj, err := wire.ParseObject(raw, "schemaMetadataInfo")
	if err != nil {
		return SchemaMetadataInfo{}, err
	}
	return SchemaInfo(obj)
}

// SchemaInfo is ParseSchemaMetadataInfo for an already decoded object.
// The schema name is required and must be non-empty; properties may be absent.
func SchemaInfo(obj wire.Object) (SchemaMetadataInfo, error) {
	name, err := obj.String("name")
	if err != nil {
		return SchemaMetadataInfo{}, err
	}
	if name == "" {
		return SchemaMetadataInfo{}, &errs.Error{
			Kind:    errs.ErrKindMalformedRequest,
			Message: "schema name must not be empty",
			Node:    obj.Kind(),
			Field:   "name",
		}
	}
	notes, err := obj.Text(keyAdapterNotes)
	if err != nil {
		return SchemaMetadataInfo{}, err
	}

	props := map[string]string{}
	if raw, ok := obj.Raw("properties"); ok {
		if err := json.Unmarshal(raw, &props); err != nil {
			return SchemaMetadataInfo{}, errs.Invalid(obj.Kind(), "properties", err)
		}
	}
	return SchemaMetadataInfo{Name: name, AdapterNotes: notes, Properties: props}, nil
}
