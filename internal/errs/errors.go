// Package errs provides the unified error type used across all of vschema.
//
// Every decoder (metadata, sqlnode, capability, request) reports failures as
// *errs.Error. The first violation aborts the whole decode, so callers never
// see partial results. Callers use the Is* predicates to handle errors without
// inspecting messages.
//
// Usage:
//
//	// In a decoder, reject an unknown token:
//	return errs.Unsupported(errs.ErrKindUnsupportedType, "dataType", "type", tag)
//
//	// In the dispatcher, check the error kind:
//	if errs.IsUnsupportedType(err) {
//	    log.Warn("column type cannot be mapped")
//	}
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKind categorises a decode failure.
type ErrKind int

const (
	ErrKindUnknown                 ErrKind = iota
	ErrKindMalformedRequest                // invalid JSON, missing or ill-typed field
	ErrKindMalformedMetadata               // bad table/column shape, table without columns
	ErrKindUnsupportedType                 // unknown data type tag
	ErrKindUnsupportedCharset              // unknown character set token
	ErrKindUnsupportedIntervalKind         // unknown interval "fromTo" token
	ErrKindUnsupportedNode                 // unknown "type" discriminator
	ErrKindUnsupportedCapability           // unknown capability token
	ErrKindArity                           // wrong argument count
	ErrKindUnknownAdapter                  // no adapter registered under the requested name
	ErrKindInvalidConfig                   // configuration file unreadable or inconsistent
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindMalformedRequest:
		return "malformed_request"
	case ErrKindMalformedMetadata:
		return "malformed_metadata"
	case ErrKindUnsupportedType:
		return "unsupported_type"
	case ErrKindUnsupportedCharset:
		return "unsupported_charset"
	case ErrKindUnsupportedIntervalKind:
		return "unsupported_interval_kind"
	case ErrKindUnsupportedNode:
		return "unsupported_node"
	case ErrKindUnsupportedCapability:
		return "unsupported_capability"
	case ErrKindArity:
		return "arity"
	case ErrKindUnknownAdapter:
		return "unknown_adapter"
	case ErrKindInvalidConfig:
		return "invalid_config"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all vschema decoders.
// Token, Field and Node are optional context used to render the message.
type Error struct {
	Kind    ErrKind
	Message string
	Token   string // offending token, verbatim
	Field   string // JSON field being read
	Node    string // enclosing node or object kind
	Cause   error  // underlying error (e.g. encoding/json), preserved for logging
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Kind, e.Message)

	var ctx []string
	if e.Node != "" {
		ctx = append(ctx, "node="+e.Node)
	}
	if e.Field != "" {
		ctx = append(ctx, "field="+e.Field)
	}
	if e.Token != "" {
		ctx = append(ctx, fmt.Sprintf("token=%q", e.Token))
	}
	if len(ctx) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(ctx, ", "))
		sb.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Missing reports a required field that is absent from a JSON object.
func Missing(node, field string) *Error {
	return &Error{
		Kind:    ErrKindMalformedRequest,
		Message: "missing required field",
		Node:    node,
		Field:   field,
	}
}

// Invalid reports a field whose JSON value has the wrong shape.
func Invalid(node, field string, cause error) *Error {
	return &Error{
		Kind:    ErrKindMalformedRequest,
		Message: "invalid field value",
		Node:    node,
		Field:   field,
		Cause:   cause,
	}
}

// Unsupported reports a token that is not part of a closed taxonomy.
func Unsupported(kind ErrKind, node, field, token string) *Error {
	return &Error{
		Kind:    kind,
		Message: "unsupported token",
		Node:    node,
		Field:   field,
		Token:   token,
	}
}

// WithKind returns a copy of err re-classified as kind when err is an *Error.
// Metadata parsing uses it to report field-level failures as malformed metadata.
func WithKind(err error, kind ErrKind) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Kind != ErrKindMalformedRequest {
		return err
	}
	cp := *e
	cp.Kind = kind
	return &cp
}

// --- Predicates ---

// IsMalformedRequest reports whether err is a structural JSON failure.
func IsMalformedRequest(err error) bool {
	return kindOf(err) == ErrKindMalformedRequest
}

// IsMalformedMetadata reports whether err is a bad table or column description.
func IsMalformedMetadata(err error) bool {
	return kindOf(err) == ErrKindMalformedMetadata
}

// IsUnsupportedType reports whether err names an unknown data type tag.
func IsUnsupportedType(err error) bool {
	return kindOf(err) == ErrKindUnsupportedType
}

// IsUnsupportedCharset reports whether err names an unknown character set.
func IsUnsupportedCharset(err error) bool {
	return kindOf(err) == ErrKindUnsupportedCharset
}

// IsUnsupportedIntervalKind reports whether err names an unknown interval qualifier.
func IsUnsupportedIntervalKind(err error) bool {
	return kindOf(err) == ErrKindUnsupportedIntervalKind
}

// IsUnsupportedNode reports whether err names an unknown node or request type.
func IsUnsupportedNode(err error) bool {
	return kindOf(err) == ErrKindUnsupportedNode
}

// IsUnsupportedCapability reports whether err names an unknown capability token.
func IsUnsupportedCapability(err error) bool {
	return kindOf(err) == ErrKindUnsupportedCapability
}

// IsArity reports whether err is a wrong argument count.
func IsArity(err error) bool {
	return kindOf(err) == ErrKindArity
}

// IsUnknownAdapter reports whether err was caused by an unregistered adapter name.
func IsUnknownAdapter(err error) bool {
	return kindOf(err) == ErrKindUnknownAdapter
}

// IsInvalidConfig reports whether err is a configuration problem.
func IsInvalidConfig(err error) bool {
	return kindOf(err) == ErrKindInvalidConfig
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	return kindOf(err)
}

func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
