// Package request decodes the top-level JSON document the engine sends for
// every adapter call into one AdapterRequest variant.
//
// Usage:
//
//	req, err := request.Decode(raw)
//	if err != nil {
//	    return err
//	}
//	switch r := req.(type) {
//	case *request.Pushdown:
//	    fmt.Println(sqlnode.Render(r.Statement.Root()))
//	case *request.SetProperties:
//	    props := r.MergedProperties()
//	    ...
//	}
package request

import (
	"maps"
	"slices"

	"github.com/koustreak/vschema/internal/metadata"
	"github.com/koustreak/vschema/internal/sqlnode"
)

// RequestType is the top-level "type" discriminator.
type RequestType string

const (
	TypeCreateVirtualSchema RequestType = "createVirtualSchema"
	TypeDropVirtualSchema   RequestType = "dropVirtualSchema"
	TypeRefresh             RequestType = "refresh"
	TypeSetProperties       RequestType = "setProperties"
	TypeGetCapabilities     RequestType = "getCapabilities"
	TypePushdown            RequestType = "pushdown"
)

// AdapterRequest is one decoded adapter call.
//
// This is a sealed interface: the variants below are the only
// implementations, so a type switch over them is exhaustive.
type AdapterRequest interface {
	Type() RequestType
	SchemaMetadataInfo() metadata.SchemaMetadataInfo
	adapterRequest()
}

// header holds the fields every request carries.
type header struct {
	SchemaInfo metadata.SchemaMetadataInfo
}

func (h header) SchemaMetadataInfo() metadata.SchemaMetadataInfo { return h.SchemaInfo }
func (header) adapterRequest()                                    {}

// CreateVirtualSchema asks the adapter for the initial schema metadata.
type CreateVirtualSchema struct{ header }

func (*CreateVirtualSchema) Type() RequestType { return TypeCreateVirtualSchema }

// DropVirtualSchema tells the adapter the schema is being dropped.
type DropVirtualSchema struct{ header }

func (*DropVirtualSchema) Type() RequestType { return TypeDropVirtualSchema }

// GetCapabilities asks the adapter which pushdown features it supports.
type GetCapabilities struct{ header }

func (*GetCapabilities) Type() RequestType { return TypeGetCapabilities }

// Refresh asks the adapter to re-read the schema metadata, either for the
// whole schema or for the listed tables only.
type Refresh struct {
	header
	RequestedTables []string
}

func (*Refresh) Type() RequestType { return TypeRefresh }

// IsRefreshForTables reports whether only selected tables are refreshed.
func (r *Refresh) IsRefreshForTables() bool { return r.RequestedTables != nil }

// SetProperties carries a property change set for the schema. Properties
// holds one entry per key mentioned in the request; keys not mentioned are
// unchanged.
type SetProperties struct {
	header
	Properties map[string]metadata.PropertyValue
}

func (*SetProperties) Type() RequestType { return TypeSetProperties }

// MergedProperties applies the change set to the schema's current
// properties and returns the result. Neither input is modified.
func (r *SetProperties) MergedProperties() map[string]string {
	out := maps.Clone(r.SchemaInfo.Properties)
	if out == nil {
		out = map[string]string{}
	}
	for k, v := range r.Properties {
		switch v.State {
		case metadata.PropertyPresent:
			out[k] = v.Value
		case metadata.PropertyDeleted:
			delete(out, k)
		}
	}
	return out
}

// ChangedKeys returns the keys mentioned in the change set, sorted.
func (r *SetProperties) ChangedKeys() []string {
	return slices.Sorted(maps.Keys(r.Properties))
}

// Pushdown asks the adapter to translate a SELECT for the external source.
type Pushdown struct {
	header
	InvolvedTables []metadata.TableMetadata
	Statement      *sqlnode.Tree
}

func (*Pushdown) Type() RequestType { return TypePushdown }

// Select returns the root statement.
func (p *Pushdown) Select() *sqlnode.Select {
	s, _ := p.Statement.Root().(*sqlnode.Select)
	return s
}

// Table returns the involved table with the given name.
func (p *Pushdown) Table(name string) (metadata.TableMetadata, bool) {
	for _, t := range p.InvolvedTables {
		if t.Name == name {
			return t, true
		}
	}
	return metadata.TableMetadata{}, false
}
