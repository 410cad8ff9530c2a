package request

import (
	"encoding/json"

	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/metadata"
	"github.com/koustreak/vschema/internal/sqlnode"
	"github.com/koustreak/vschema/internal/wire"
)

const (
	keySchemaMetadataInfo = "schemaMetadataInfo"
	keyPushdownRequest    = "pushdownRequest"
	keyProperties         = "properties"
	keyRequestedTables    = "requestedTables"
)

type decodeFunc func(obj wire.Object, h header) (AdapterRequest, error)

var decoders = map[RequestType]decodeFunc{
	TypeCreateVirtualSchema: func(_ wire.Object, h header) (AdapterRequest, error) {
		return &CreateVirtualSchema{h}, nil
	},
	TypeDropVirtualSchema: func(_ wire.Object, h header) (AdapterRequest, error) {
		return &DropVirtualSchema{h}, nil
	},
	TypeGetCapabilities: func(_ wire.Object, h header) (AdapterRequest, error) {
		return &GetCapabilities{h}, nil
	},
	TypeRefresh:       decodeRefresh,
	TypeSetProperties: decodeSetProperties,
	TypePushdown:      decodePushdown,
}

// Decode classifies and decodes one adapter request document.
//
// An unknown "type" fails with ErrKindUnsupportedNode; invalid JSON and a
// missing "type" fail with ErrKindMalformedRequest. Errors from the metadata
// and SQL decoders are returned unchanged. Decode keeps no state between
// calls and is safe for concurrent use.
func Decode(raw []byte) (AdapterRequest, error) {
	obj, err := wire.ParseObject(raw, "request")
	if err != nil {
		return nil, err
	}
	typ, err := obj.String("type")
	if err != nil {
		return nil, err
	}
	decode, ok := decoders[RequestType(typ)]
	if !ok {
		return nil, errs.Unsupported(errs.ErrKindUnsupportedNode, "request", "type", typ)
	}
	h, err := decodeHeader(obj)
	if err != nil {
		return nil, err
	}
	return decode(obj.WithKind(typ), h)
}

// decodeHeader reads "schemaMetadataInfo". A document without one decodes
// to an empty schema info; a present one must be valid.
func decodeHeader(obj wire.Object) (header, error) {
	raw, ok := obj.Raw(keySchemaMetadataInfo)
	if !ok {
		return header{SchemaInfo: metadata.SchemaMetadataInfo{Properties: map[string]string{}}}, nil
	}
	info, err := metadata.ParseSchemaMetadataInfo(raw)
	if err != nil {
		return header{}, err
	}
	return header{SchemaInfo: info}, nil
}

func decodeRefresh(obj wire.Object, h header) (AdapterRequest, error) {
	r := &Refresh{header: h}
	raw, ok := obj.Raw(keyRequestedTables)
	if !ok {
		return r, nil
	}
	tables := []string{}
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, errs.Invalid(obj.Kind(), keyRequestedTables, err)
	}
	r.RequestedTables = tables
	return r, nil
}

// decodeSetProperties reads the "properties" change set. JSON null marks a
// property for deletion; any string, including "", sets it.
func decodeSetProperties(obj wire.Object, h header) (AdapterRequest, error) {
	props, err := obj.Object(keyProperties, keyProperties)
	if err != nil {
		return nil, err
	}
	changes := make(map[string]metadata.PropertyValue, len(props.Keys()))
	for _, key := range props.Keys() {
		if props.IsNull(key) {
			changes[key] = metadata.Deleted()
			continue
		}
		v, err := props.String(key)
		if err != nil {
			return nil, err
		}
		changes[key] = metadata.Present(v)
	}
	return &SetProperties{header: h, Properties: changes}, nil
}

func decodePushdown(obj wire.Object, h header) (AdapterRequest, error) {
	tables, err := metadata.InvolvedTables(obj)
	if err != nil {
		return nil, err
	}
	raw, ok := obj.Raw(keyPushdownRequest)
	if !ok {
		return nil, errs.Missing(obj.Kind(), keyPushdownRequest)
	}
	tree, err := sqlnode.Parse(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Root().(*sqlnode.Select); !ok {
		return nil, &errs.Error{
			Kind:    errs.ErrKindUnsupportedNode,
			Message: "pushdown root must be a statement",
			Node:    obj.Kind(),
			Field:   keyPushdownRequest,
			Token:   string(tree.Root().Type()),
		}
	}
	return &Pushdown{header: h, InvolvedTables: tables, Statement: tree}, nil
}
