// Package wire holds the JSON access helpers shared by the decoders.
//
// The engine's request documents are self-describing JSON with no schema
// beyond the decoders themselves, so every field access goes through Object,
// which distinguishes "absent", "null" and "present" and reports failures as
// *errs.Error naming the enclosing node and the field.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/koustreak/vschema/internal/errs"
)

// Object is one decoded JSON object whose values are kept raw until read.
type Object struct {
	kind   string // node or object kind, used in error context
	fields map[string]json.RawMessage
}

// ParseObject decodes raw as a JSON object. kind names the object in errors.
func ParseObject(raw []byte, kind string) (Object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Object{}, &errs.Error{
			Kind:    errs.ErrKindMalformedRequest,
			Message: "expected a JSON object",
			Node:    kind,
			Cause:   err,
		}
	}
	if fields == nil {
		return Object{}, errs.New(errs.ErrKindMalformedRequest, "expected a JSON object, got null")
	}
	return Object{kind: kind, fields: fields}, nil
}

// Kind returns the object kind used in error context.
func (o Object) Kind() string { return o.kind }

// WithKind returns the same object labelled with a more precise kind.
func (o Object) WithKind(kind string) Object {
	o.kind = kind
	return o
}

// Has reports whether key is present, including an explicit null.
func (o Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// IsNull reports whether key is present with a JSON null value.
func (o Object) IsNull(key string) bool {
	raw, ok := o.fields[key]
	return ok && isNull(raw)
}

// Raw returns the raw JSON of key. Absent and null values are reported as not found.
func (o Object) Raw(key string) (json.RawMessage, bool) {
	raw, ok := o.fields[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

// Keys returns the keys of the object in no particular order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	return keys
}

// --- required accessors ---

// String reads a required string field.
func (o Object) String(key string) (string, error) {
	var s string
	if err := o.required(key, &s); err != nil {
		return "", err
	}
	return s, nil
}

// Int reads a required integer field.
func (o Object) Int(key string) (int, error) {
	var n int
	if err := o.required(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Bool reads a required boolean field.
func (o Object) Bool(key string) (bool, error) {
	var b bool
	if err := o.required(key, &b); err != nil {
		return false, err
	}
	return b, nil
}

// Array reads a required JSON array field, returning its raw elements.
func (o Object) Array(key string) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := o.required(key, &arr); err != nil {
		return nil, err
	}
	return arr, nil
}

// Object reads a required nested object.
func (o Object) Object(key, kind string) (Object, error) {
	raw, ok := o.Raw(key)
	if !ok {
		return Object{}, errs.Missing(o.kind, key)
	}
	nested, err := ParseObject(raw, kind)
	if err != nil {
		return Object{}, errs.Invalid(o.kind, key, err)
	}
	return nested, nil
}

// --- optional accessors ---

// OptString reads an optional string field, returning def when absent or null.
func (o Object) OptString(key, def string) (string, error) {
	s := def
	if err := o.optional(key, &s); err != nil {
		return "", err
	}
	return s, nil
}

// OptInt reads an optional integer field, returning def when absent or null.
func (o Object) OptInt(key string, def int) (int, error) {
	n := def
	if err := o.optional(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// OptBool reads an optional boolean field, returning def when absent or null.
func (o Object) OptBool(key string, def bool) (bool, error) {
	b := def
	if err := o.optional(key, &b); err != nil {
		return false, err
	}
	return b, nil
}

// OptArray reads an optional array field. The second result reports presence.
func (o Object) OptArray(key string) ([]json.RawMessage, bool, error) {
	if _, ok := o.Raw(key); !ok {
		return nil, false, nil
	}
	arr, err := o.Array(key)
	if err != nil {
		return nil, false, err
	}
	return arr, true, nil
}

// Text returns the textual form of key: a JSON string verbatim, any other
// JSON value in compact serialized form, and "" when the key is absent.
func (o Object) Text(key string) (string, error) {
	raw, ok := o.fields[key]
	if !ok {
		return "", nil
	}
	if isNull(raw) {
		return "null", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", errs.Invalid(o.kind, key, err)
	}
	return buf.String(), nil
}

// --- helpers ---

func (o Object) required(key string, dst any) error {
	raw, ok := o.Raw(key)
	if !ok {
		return errs.Missing(o.kind, key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.Invalid(o.kind, key, fmt.Errorf("want %T: %w", dst, err))
	}
	return nil
}

func (o Object) optional(key string, dst any) error {
	raw, ok := o.Raw(key)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.Invalid(o.kind, key, fmt.Errorf("want %T: %w", dst, err))
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
