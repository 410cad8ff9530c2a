// Package sqlnode models the SQL statement the engine pushes down to an
// adapter, and rebuilds it from the engine's self-describing JSON.
//
// Node is a sealed interface: only the types in this package implement it,
// so a type switch over the node types below is exhaustive. Consumers such as
// Render switch on the concrete type instead of implementing a visitor.
package sqlnode

import (
	"strings"

	"github.com/koustreak/vschema/internal/capability"
	"github.com/koustreak/vschema/internal/metadata"
)

// NodeType is the JSON "type" discriminator of a node.
type NodeType string

const (
	TypeSelect     NodeType = "select"
	TypeSelectList NodeType = "select_list" // synthetic, from "selectList"
	TypeGroupBy    NodeType = "group_by"    // synthetic, from "groupBy"
	TypeOrderBy    NodeType = "order_by"    // synthetic, from "orderBy"
	TypeLimit      NodeType = "limit"       // synthetic, from "limit"
	TypeTable      NodeType = "table"
	TypeJoin       NodeType = "join"
	TypeColumn     NodeType = "column"

	TypeLiteralNull         NodeType = "literal_null"
	TypeLiteralBool         NodeType = "literal_bool"
	TypeLiteralExactNumeric NodeType = "literal_exactnumeric"
	TypeLiteralDouble       NodeType = "literal_double"
	TypeLiteralString       NodeType = "literal_string"
	TypeLiteralDate         NodeType = "literal_date"
	TypeLiteralTimestamp    NodeType = "literal_timestamp"
	TypeLiteralTimestampUTC NodeType = "literal_timestamputc"
	TypeLiteralInterval     NodeType = "literal_interval"

	TypePredicateAnd         NodeType = "predicate_and"
	TypePredicateOr          NodeType = "predicate_or"
	TypePredicateNot         NodeType = "predicate_not"
	TypePredicateEqual       NodeType = "predicate_equal"
	TypePredicateNotEqual    NodeType = "predicate_notequal"
	TypePredicateLess        NodeType = "predicate_less"
	TypePredicateLessEqual   NodeType = "predicate_lessequal"
	TypePredicateLike        NodeType = "predicate_like"
	TypePredicateLikeRegexp  NodeType = "predicate_like_regexp"
	TypePredicateBetween     NodeType = "predicate_between"
	TypePredicateInConstList NodeType = "predicate_in_constlist"
	TypePredicateIsNull      NodeType = "predicate_is_null"
	TypePredicateIsNotNull   NodeType = "predicate_is_not_null"

	TypeFunctionScalar               NodeType = "function_scalar"
	TypeFunctionScalarExtract        NodeType = "function_scalar_extract"
	TypeFunctionScalarCast           NodeType = "function_scalar_cast"
	TypeFunctionScalarCase           NodeType = "function_scalar_case"
	TypeFunctionAggregate            NodeType = "function_aggregate"
	TypeFunctionAggregateGroupConcat NodeType = "function_aggregate_group_concat"
	TypeOrderByElement               NodeType = "order_by_element"
)

// Node is one element of a decoded SQL tree.
type Node interface {
	Type() NodeType
	ID() NodeID
	ParentID() NodeID
	// Children returns the direct, non-nil children in source order.
	Children() []Node

	setID(NodeID)
	setParent(NodeID)
}

// base carries the arena identity shared by every node.
type base struct {
	id     NodeID
	parent NodeID
}

func (b *base) ID() NodeID          { return b.id }
func (b *base) ParentID() NodeID    { return b.parent }
func (b *base) setID(id NodeID)     { b.id = id }
func (b *base) setParent(id NodeID) { b.parent = id }

// children collects the non-nil nodes among ns.
func children(ns ...Node) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func nodes[T Node](ts []T) []Node {
	out := make([]Node, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

// ---------- Statement ----------

// AggregationType tells whether a SELECT aggregates and how.
type AggregationType string

const (
	AggregationNone        AggregationType = ""
	AggregationGroupBy     AggregationType = "group_by"
	AggregationSingleGroup AggregationType = "single_group"
)

// Select is a pushed-down SELECT statement. From is a *Table or *Join.
type Select struct {
	base
	SelectList      *SelectList
	From            Node
	Where           Node // nil if absent
	AggregationType AggregationType
	GroupBy         *GroupBy // nil if absent
	Having          Node     // nil if absent
	OrderBy         *OrderBy // nil if absent
	Limit           *Limit   // nil if absent
}

func (*Select) Type() NodeType { return TypeSelect }

func (s *Select) Children() []Node {
	var sl, gb, ob, lim Node
	if s.SelectList != nil {
		sl = s.SelectList
	}
	if s.GroupBy != nil {
		gb = s.GroupBy
	}
	if s.OrderBy != nil {
		ob = s.OrderBy
	}
	if s.Limit != nil {
		lim = s.Limit
	}
	return children(sl, s.From, s.Where, gb, s.Having, ob, lim)
}

// HasFilter reports whether the statement has a WHERE clause.
func (s *Select) HasFilter() bool { return s.Where != nil }

// HasGroupBy reports whether the statement groups rows.
func (s *Select) HasGroupBy() bool { return s.GroupBy != nil && len(s.GroupBy.Expressions) > 0 }

// HasOrderBy reports whether the statement orders rows.
func (s *Select) HasOrderBy() bool { return s.OrderBy != nil && len(s.OrderBy.Elements) > 0 }

// SelectListKind distinguishes the three shapes of a select list.
type SelectListKind int

const (
	SelectListRegular  SelectListKind = iota // explicit expressions
	SelectListStar                           // "selectList" absent: all columns
	SelectListAnyValue                       // "selectList" empty: any single value per row
)

// SelectList is the projection of a SELECT.
type SelectList struct {
	base
	Kind        SelectListKind
	Expressions []Node
}

func (*SelectList) Type() NodeType       { return TypeSelectList }
func (l *SelectList) Children() []Node   { return nodes(l.Expressions) }
func (l *SelectList) IsSelectStar() bool { return l.Kind == SelectListStar }

// GroupBy holds the grouping expressions of a SELECT.
type GroupBy struct {
	base
	Expressions []Node
}

func (*GroupBy) Type() NodeType     { return TypeGroupBy }
func (g *GroupBy) Children() []Node { return nodes(g.Expressions) }

// OrderBy is an ordered list of sort keys.
type OrderBy struct {
	base
	Elements []*OrderByElement
}

func (*OrderBy) Type() NodeType     { return TypeOrderBy }
func (o *OrderBy) Children() []Node { return nodes(o.Elements) }

// OrderByElement is one sort key.
type OrderByElement struct {
	base
	Expression Node
	Ascending  bool
	NullsLast  bool
}

func (*OrderByElement) Type() NodeType     { return TypeOrderByElement }
func (e *OrderByElement) Children() []Node { return children(e.Expression) }

// Limit restricts the number of result rows.
type Limit struct {
	base
	Count     int
	Offset    int
	HasOffset bool
}

func (*Limit) Type() NodeType   { return TypeLimit }
func (*Limit) Children() []Node { return nil }

// ---------- Sources ----------

// Table is a table of the virtual schema.
type Table struct {
	base
	Name  string
	Alias string // "" if absent
}

func (*Table) Type() NodeType   { return TypeTable }
func (*Table) Children() []Node { return nil }

// HasAlias reports whether the table is referenced through an alias.
func (t *Table) HasAlias() bool { return t.Alias != "" }

// JoinType is the kind of a join.
type JoinType string

const (
	JoinInner      JoinType = "INNER"
	JoinLeftOuter  JoinType = "LEFT_OUTER"
	JoinRightOuter JoinType = "RIGHT_OUTER"
	JoinFullOuter  JoinType = "FULL_OUTER"
)

// joinTypes maps the JSON "join_type" tokens. Matching is exact.
var joinTypes = map[string]JoinType{
	"inner":       JoinInner,
	"left_outer":  JoinLeftOuter,
	"right_outer": JoinRightOuter,
	"full_outer":  JoinFullOuter,
}

// String renders the join type as SQL text, e.g. "LEFT OUTER".
func (j JoinType) String() string {
	return strings.ReplaceAll(string(j), "_", " ")
}

// Join combines two sources. Condition may be nil; an inner join without one
// is a cross join.
type Join struct {
	base
	Left      Node
	Right     Node
	Condition Node
	JoinType  JoinType
}

func (*Join) Type() NodeType     { return TypeJoin }
func (j *Join) Children() []Node { return children(j.Left, j.Right, j.Condition) }

// HasCondition reports whether the join has an ON condition.
func (j *Join) HasCondition() bool { return j.Condition != nil }

// ---------- Expressions ----------

// ColumnRef references a column of an involved table by position.
// ColumnNr is not checked against the table's column count here.
type ColumnRef struct {
	base
	TableName  string
	TableAlias string // "" if absent
	ColumnNr   int
	Name       string
}

func (*ColumnRef) Type() NodeType   { return TypeColumn }
func (*ColumnRef) Children() []Node { return nil }

// Literal is a constant. Value holds the textual value for every kind except
// literal_bool (Bool) and literal_null. DataType is set for intervals only.
type Literal struct {
	base
	Kind     NodeType
	Value    string
	Bool     bool
	DataType metadata.DataType
}

func (l *Literal) Type() NodeType { return l.Kind }
func (*Literal) Children() []Node { return nil }

// IsNull reports whether the literal is NULL.
func (l *Literal) IsNull() bool { return l.Kind == TypeLiteralNull }

// ---------- Predicates ----------

// Predicate is implemented by every predicate node.
type Predicate interface {
	Node
	Function() capability.Predicate
}

// LogicalPredicate is an AND or OR over one or more predicates.
type LogicalPredicate struct {
	base
	Op          capability.Predicate // PredicateAnd or PredicateOr
	Expressions []Node
}

func (p *LogicalPredicate) Type() NodeType {
	if p.Op == capability.PredicateOr {
		return TypePredicateOr
	}
	return TypePredicateAnd
}
func (p *LogicalPredicate) Children() []Node               { return nodes(p.Expressions) }
func (p *LogicalPredicate) Function() capability.Predicate { return p.Op }

// NotPredicate negates its expression.
type NotPredicate struct {
	base
	Expression Node
}

func (*NotPredicate) Type() NodeType                 { return TypePredicateNot }
func (p *NotPredicate) Children() []Node             { return children(p.Expression) }
func (*NotPredicate) Function() capability.Predicate { return capability.PredicateNot }

// ComparisonPredicate compares two expressions.
type ComparisonPredicate struct {
	base
	Op    capability.Predicate // Equal, NotEqual, Less or LessEqual
	Left  Node
	Right Node
}

func (p *ComparisonPredicate) Type() NodeType {
	switch p.Op {
	case capability.PredicateNotEqual:
		return TypePredicateNotEqual
	case capability.PredicateLess:
		return TypePredicateLess
	case capability.PredicateLessEqual:
		return TypePredicateLessEqual
	default:
		return TypePredicateEqual
	}
}
func (p *ComparisonPredicate) Children() []Node               { return children(p.Left, p.Right) }
func (p *ComparisonPredicate) Function() capability.Predicate { return p.Op }

// LikePredicate is expression LIKE pattern [ESCAPE escapeChar].
type LikePredicate struct {
	base
	Expression Node
	Pattern    Node
	EscapeChar Node // nil if absent
}

func (*LikePredicate) Type() NodeType     { return TypePredicateLike }
func (p *LikePredicate) Children() []Node { return children(p.Expression, p.Pattern, p.EscapeChar) }
func (p *LikePredicate) Function() capability.Predicate {
	if p.EscapeChar != nil {
		return capability.PredicateLikeEscape
	}
	return capability.PredicateLike
}

// RegexpLikePredicate is expression REGEXP_LIKE pattern.
type RegexpLikePredicate struct {
	base
	Expression Node
	Pattern    Node
}

func (*RegexpLikePredicate) Type() NodeType                 { return TypePredicateLikeRegexp }
func (p *RegexpLikePredicate) Children() []Node             { return children(p.Expression, p.Pattern) }
func (*RegexpLikePredicate) Function() capability.Predicate { return capability.PredicateRegexpLike }

// BetweenPredicate is expression BETWEEN left AND right.
type BetweenPredicate struct {
	base
	Expression Node
	Left       Node
	Right      Node
}

func (*BetweenPredicate) Type() NodeType                 { return TypePredicateBetween }
func (p *BetweenPredicate) Children() []Node             { return children(p.Expression, p.Left, p.Right) }
func (*BetweenPredicate) Function() capability.Predicate { return capability.PredicateBetween }

// InPredicate is expression IN (arguments...).
type InPredicate struct {
	base
	Expression Node
	Arguments  []Node
}

func (*InPredicate) Type() NodeType { return TypePredicateInConstList }
func (p *InPredicate) Children() []Node {
	return append(children(p.Expression), p.Arguments...)
}
func (*InPredicate) Function() capability.Predicate { return capability.PredicateInConstList }

// NullPredicate is expression IS [NOT] NULL.
type NullPredicate struct {
	base
	Expression Node
	Negated    bool
}

func (p *NullPredicate) Type() NodeType {
	if p.Negated {
		return TypePredicateIsNotNull
	}
	return TypePredicateIsNull
}
func (p *NullPredicate) Children() []Node { return children(p.Expression) }
func (p *NullPredicate) Function() capability.Predicate {
	if p.Negated {
		return capability.PredicateIsNotNull
	}
	return capability.PredicateIsNull
}

// ---------- Functions ----------

// ScalarFunction is a call to a scalar function. Infix functions (ADD, SUB,
// ...) render between their two arguments, prefix ones (NEG) before theirs.
type ScalarFunction struct {
	base
	Function  capability.ScalarFunction
	Arguments []Node
	Infix     bool
	Prefix    bool
}

func (*ScalarFunction) Type() NodeType     { return TypeFunctionScalar }
func (f *ScalarFunction) Children() []Node { return nodes(f.Arguments) }

// ExtractFunction is EXTRACT(toExtract FROM argument).
type ExtractFunction struct {
	base
	ToExtract string
	Argument  Node
}

func (*ExtractFunction) Type() NodeType     { return TypeFunctionScalarExtract }
func (f *ExtractFunction) Children() []Node { return children(f.Argument) }

// CastFunction is CAST(argument AS dataType).
type CastFunction struct {
	base
	DataType metadata.DataType
	Argument Node
}

func (*CastFunction) Type() NodeType     { return TypeFunctionScalarCast }
func (f *CastFunction) Children() []Node { return children(f.Argument) }

// CaseFunction is CASE [basis] WHEN arguments[i] THEN results[i] ... [ELSE last] END.
// Results has one more element than Arguments when an ELSE branch exists.
type CaseFunction struct {
	base
	Basis     Node // nil for a searched CASE
	Arguments []Node
	Results   []Node
}

func (*CaseFunction) Type() NodeType { return TypeFunctionScalarCase }
func (f *CaseFunction) Children() []Node {
	out := children(f.Basis)
	out = append(out, f.Arguments...)
	return append(out, f.Results...)
}

// HasElse reports whether the CASE has an ELSE branch.
func (f *CaseFunction) HasElse() bool { return len(f.Results) > len(f.Arguments) }

// AggregateFunction is a call to an aggregate function. COUNT(*) has no
// arguments.
type AggregateFunction struct {
	base
	Function  capability.AggregateFunction
	Arguments []Node
	Distinct  bool
}

func (*AggregateFunction) Type() NodeType     { return TypeFunctionAggregate }
func (f *AggregateFunction) Children() []Node { return nodes(f.Arguments) }

// GroupConcat is GROUP_CONCAT([DISTINCT] argument [ORDER BY ...] SEPARATOR separator).
type GroupConcat struct {
	base
	Function  capability.AggregateFunction
	Arguments []Node // exactly one
	OrderBy   *OrderBy
	Distinct  bool
	Separator string
}

func (*GroupConcat) Type() NodeType { return TypeFunctionAggregateGroupConcat }
func (f *GroupConcat) Children() []Node {
	out := nodes(f.Arguments)
	if f.OrderBy != nil {
		out = append(out, f.OrderBy)
	}
	return out
}

// HasOrderBy reports whether an ORDER BY with at least one key is present.
func (f *GroupConcat) HasOrderBy() bool {
	return f.OrderBy != nil && len(f.OrderBy.Elements) > 0
}

// FunctionName returns the function name, e.g. "GROUP_CONCAT".
func (f *GroupConcat) FunctionName() string { return string(f.Function) }
