package sqlnode

import (
	"encoding/json"
	"fmt"

	"github.com/koustreak/vschema/internal/capability"
	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/metadata"
	"github.com/koustreak/vschema/internal/wire"
)

// parseFunc decodes one node kind from its JSON object.
type parseFunc func(b *builder, obj wire.Object) (Node, error)

// parsers maps every known discriminator to its decoder. It is filled in
// init to break the initialisation cycle through builder.node, and only read
// afterwards.
var parsers map[NodeType]parseFunc

func init() {
	parsers = map[NodeType]parseFunc{
		TypeSelect: (*builder).parseSelect,
		TypeTable:  (*builder).parseTable,
		TypeJoin:   (*builder).parseJoin,
		TypeColumn: (*builder).parseColumn,

		TypeLiteralNull:         (*builder).parseLiteral,
		TypeLiteralBool:         (*builder).parseLiteral,
		TypeLiteralExactNumeric: (*builder).parseLiteral,
		TypeLiteralDouble:       (*builder).parseLiteral,
		TypeLiteralString:       (*builder).parseLiteral,
		TypeLiteralDate:         (*builder).parseLiteral,
		TypeLiteralTimestamp:    (*builder).parseLiteral,
		TypeLiteralTimestampUTC: (*builder).parseLiteral,
		TypeLiteralInterval:     (*builder).parseLiteral,

		TypePredicateAnd:         (*builder).parseLogical,
		TypePredicateOr:          (*builder).parseLogical,
		TypePredicateNot:         (*builder).parseNot,
		TypePredicateEqual:       (*builder).parseComparison,
		TypePredicateNotEqual:    (*builder).parseComparison,
		TypePredicateLess:        (*builder).parseComparison,
		TypePredicateLessEqual:   (*builder).parseComparison,
		TypePredicateLike:        (*builder).parseLike,
		TypePredicateLikeRegexp:  (*builder).parseRegexpLike,
		TypePredicateBetween:     (*builder).parseBetween,
		TypePredicateInConstList: (*builder).parseIn,
		TypePredicateIsNull:      (*builder).parseNull,
		TypePredicateIsNotNull:   (*builder).parseNull,

		TypeFunctionScalar:               (*builder).parseScalarFunction,
		TypeFunctionScalarExtract:        (*builder).parseExtract,
		TypeFunctionScalarCast:           (*builder).parseCast,
		TypeFunctionScalarCase:           (*builder).parseCase,
		TypeFunctionAggregate:            (*builder).parseAggregate,
		TypeFunctionAggregateGroupConcat: (*builder).parseGroupConcat,
		TypeOrderByElement:               (*builder).parseOrderByElement,
	}
}

var comparisonOps = map[NodeType]capability.Predicate{
	TypePredicateEqual:     capability.PredicateEqual,
	TypePredicateNotEqual:  capability.PredicateNotEqual,
	TypePredicateLess:      capability.PredicateLess,
	TypePredicateLessEqual: capability.PredicateLessEqual,
}

// Parse rebuilds a SQL tree from its JSON form.
//
// The JSON object graph is the parse tree: every object names its kind in a
// "type" field and each kind's decoder recurses into its child objects
// through the same entry point. The first invalid node aborts the build;
// no partial tree is returned.
func Parse(raw json.RawMessage) (*Tree, error) {
	b := &builder{tree: newTree()}
	root, err := b.node(raw, "root", "")
	if err != nil {
		return nil, err
	}
	b.tree.root = root
	return b.tree, nil
}

// builder holds the tree under construction for a single Parse call.
type builder struct {
	tree *Tree
}

// node decodes one JSON node. parent and field locate it for error messages.
func (b *builder) node(raw json.RawMessage, parent, field string) (Node, error) {
	obj, err := wire.ParseObject(raw, parent)
	if err != nil {
		return nil, errs.Invalid(parent, field, err)
	}
	typ, err := obj.String("type")
	if err != nil {
		return nil, err
	}
	parse, ok := parsers[NodeType(typ)]
	if !ok {
		return nil, errs.Unsupported(errs.ErrKindUnsupportedNode, parent, field, typ)
	}
	return parse(b, obj.WithKind(typ))
}

// child decodes the required node stored under key.
func (b *builder) child(obj wire.Object, key string) (Node, error) {
	raw, ok := obj.Raw(key)
	if !ok {
		return nil, errs.Missing(obj.Kind(), key)
	}
	return b.node(raw, obj.Kind(), key)
}

// optChild decodes the node stored under key, or returns nil if absent.
func (b *builder) optChild(obj wire.Object, key string) (Node, error) {
	raw, ok := obj.Raw(key)
	if !ok {
		return nil, nil
	}
	return b.node(raw, obj.Kind(), key)
}

// list decodes the required node array stored under key.
func (b *builder) list(obj wire.Object, key string) ([]Node, error) {
	elems, err := obj.Array(key)
	if err != nil {
		return nil, err
	}
	return b.elements(obj, key, elems)
}

func (b *builder) elements(obj wire.Object, key string, elems []json.RawMessage) ([]Node, error) {
	out := make([]Node, 0, len(elems))
	for _, raw := range elems {
		n, err := b.node(raw, obj.Kind(), key)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func arity(node, field string, want string, got int) error {
	return &errs.Error{
		Kind:    errs.ErrKindArity,
		Message: fmt.Sprintf("%s expects %s argument(s), got %d", node, want, got),
		Node:    node,
		Field:   field,
	}
}

func unexpected(node, field string, n Node, want string) error {
	return &errs.Error{
		Kind:    errs.ErrKindUnsupportedNode,
		Message: "expected " + want,
		Node:    node,
		Field:   field,
		Token:   string(n.Type()),
	}
}

// ---------- Statement ----------

func (b *builder) parseSelect(obj wire.Object) (Node, error) {
	s := &Select{}

	list, err := b.parseSelectList(obj)
	if err != nil {
		return nil, err
	}
	s.SelectList = list

	if s.From, err = b.child(obj, "from"); err != nil {
		return nil, err
	}
	if !isSource(s.From) {
		return nil, unexpected(obj.Kind(), "from", s.From, "table or join")
	}
	if s.Where, err = b.optChild(obj, "filter"); err != nil {
		return nil, err
	}

	aggType, err := obj.OptString("aggregationType", "")
	if err != nil {
		return nil, err
	}
	switch AggregationType(aggType) {
	case AggregationNone, AggregationGroupBy, AggregationSingleGroup:
		s.AggregationType = AggregationType(aggType)
	default:
		return nil, errs.Unsupported(errs.ErrKindUnsupportedNode, obj.Kind(), "aggregationType", aggType)
	}

	if elems, ok, err := obj.OptArray("groupBy"); err != nil {
		return nil, err
	} else if ok {
		exprs, err := b.elements(obj, "groupBy", elems)
		if err != nil {
			return nil, err
		}
		s.GroupBy = b.newGroupBy(exprs)
	}
	if s.Having, err = b.optChild(obj, "having"); err != nil {
		return nil, err
	}
	if s.OrderBy, err = b.parseOrderBy(obj, "orderBy"); err != nil {
		return nil, err
	}
	if s.Limit, err = b.parseLimit(obj); err != nil {
		return nil, err
	}

	b.tree.adopt(s)
	return s, nil
}

// parseSelectList distinguishes an absent list (SELECT *) from an empty one
// (any value will do) and an explicit projection.
func (b *builder) parseSelectList(obj wire.Object) (*SelectList, error) {
	elems, ok, err := obj.OptArray("selectList")
	if err != nil {
		return nil, err
	}
	l := &SelectList{}
	switch {
	case !ok:
		l.Kind = SelectListStar
	case len(elems) == 0:
		l.Kind = SelectListAnyValue
	default:
		l.Kind = SelectListRegular
		if l.Expressions, err = b.elements(obj, "selectList", elems); err != nil {
			return nil, err
		}
	}
	b.tree.adopt(l)
	return l, nil
}

func (b *builder) newGroupBy(exprs []Node) *GroupBy {
	g := &GroupBy{Expressions: exprs}
	b.tree.adopt(g)
	return g
}

// parseOrderBy decodes an optional array of order_by_element nodes.
// It returns nil when the key is absent.
func (b *builder) parseOrderBy(obj wire.Object, key string) (*OrderBy, error) {
	elems, ok, err := obj.OptArray(key)
	if err != nil || !ok {
		return nil, err
	}
	exprs, err := b.elements(obj, key, elems)
	if err != nil {
		return nil, err
	}
	o := &OrderBy{Elements: make([]*OrderByElement, 0, len(exprs))}
	for _, n := range exprs {
		e, ok := n.(*OrderByElement)
		if !ok {
			return nil, unexpected(obj.Kind(), key, n, string(TypeOrderByElement))
		}
		o.Elements = append(o.Elements, e)
	}
	b.tree.adopt(o)
	return o, nil
}

func (b *builder) parseOrderByElement(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	asc, err := obj.Bool("isAscending")
	if err != nil {
		return nil, err
	}
	nullsLast, err := obj.Bool("nullsLast")
	if err != nil {
		return nil, err
	}
	e := &OrderByElement{Expression: expr, Ascending: asc, NullsLast: nullsLast}
	b.tree.adopt(e)
	return e, nil
}

func (b *builder) parseLimit(obj wire.Object) (*Limit, error) {
	if _, ok := obj.Raw("limit"); !ok {
		return nil, nil
	}
	lo, err := obj.Object("limit", string(TypeLimit))
	if err != nil {
		return nil, err
	}
	l := &Limit{}
	if l.Count, err = lo.Int("numElements"); err != nil {
		return nil, err
	}
	if _, ok := lo.Raw("offset"); ok {
		if l.Offset, err = lo.Int("offset"); err != nil {
			return nil, err
		}
		l.HasOffset = true
	}
	b.tree.adopt(l)
	return l, nil
}

// ---------- Sources ----------

func isSource(n Node) bool {
	switch n.(type) {
	case *Table, *Join:
		return true
	}
	return false
}

func (b *builder) parseTable(obj wire.Object) (Node, error) {
	name, err := obj.String("name")
	if err != nil {
		return nil, err
	}
	alias, err := obj.OptString("alias", "")
	if err != nil {
		return nil, err
	}
	t := &Table{Name: name, Alias: alias}
	b.tree.adopt(t)
	return t, nil
}

func (b *builder) parseJoin(obj wire.Object) (Node, error) {
	token, err := obj.String("join_type")
	if err != nil {
		return nil, err
	}
	jt, ok := joinTypes[token]
	if !ok {
		return nil, errs.Unsupported(errs.ErrKindUnsupportedNode, obj.Kind(), "join_type", token)
	}

	left, err := b.child(obj, "left")
	if err != nil {
		return nil, err
	}
	if !isSource(left) {
		return nil, unexpected(obj.Kind(), "left", left, "table or join")
	}
	right, err := b.child(obj, "right")
	if err != nil {
		return nil, err
	}
	if !isSource(right) {
		return nil, unexpected(obj.Kind(), "right", right, "table or join")
	}
	// Absent for cross joins.
	cond, err := b.optChild(obj, "condition")
	if err != nil {
		return nil, err
	}

	j := &Join{Left: left, Right: right, Condition: cond, JoinType: jt}
	b.tree.adopt(j)
	return j, nil
}

// ---------- Expressions ----------

func (b *builder) parseColumn(obj wire.Object) (Node, error) {
	c := &ColumnRef{}
	var err error
	if c.TableName, err = obj.String("tableName"); err != nil {
		return nil, err
	}
	if c.ColumnNr, err = obj.Int("columnNr"); err != nil {
		return nil, err
	}
	if c.Name, err = obj.String("name"); err != nil {
		return nil, err
	}
	if c.TableAlias, err = obj.OptString("tableAlias", ""); err != nil {
		return nil, err
	}
	b.tree.adopt(c)
	return c, nil
}

func (b *builder) parseLiteral(obj wire.Object) (Node, error) {
	l := &Literal{Kind: NodeType(obj.Kind())}
	var err error
	switch l.Kind {
	case TypeLiteralNull:
	case TypeLiteralBool:
		if l.Bool, err = obj.Bool("value"); err != nil {
			return nil, err
		}
	case TypeLiteralExactNumeric, TypeLiteralDouble:
		// Numbers may arrive as JSON strings or JSON numbers; keep the text.
		if !obj.Has("value") || obj.IsNull("value") {
			return nil, errs.Missing(obj.Kind(), "value")
		}
		if l.Value, err = obj.Text("value"); err != nil {
			return nil, err
		}
	case TypeLiteralInterval:
		if l.Value, err = obj.String("value"); err != nil {
			return nil, err
		}
		raw, ok := obj.Raw("dataType")
		if !ok {
			return nil, errs.Missing(obj.Kind(), "dataType")
		}
		if l.DataType, err = metadata.ParseDataType(raw); err != nil {
			return nil, err
		}
		switch l.DataType.(type) {
		case metadata.IntervalYearToMonth, metadata.IntervalDayToSecond:
		default:
			return nil, errs.Unsupported(errs.ErrKindUnsupportedType, obj.Kind(), "dataType", l.DataType.String())
		}
	default:
		if l.Value, err = obj.String("value"); err != nil {
			return nil, err
		}
	}
	b.tree.adopt(l)
	return l, nil
}

// ---------- Predicates ----------

func (b *builder) parseLogical(obj wire.Object) (Node, error) {
	op := capability.PredicateAnd
	if NodeType(obj.Kind()) == TypePredicateOr {
		op = capability.PredicateOr
	}
	exprs, err := b.list(obj, "expressions")
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return nil, arity(obj.Kind(), "expressions", "at least 1", 0)
	}
	p := &LogicalPredicate{Op: op, Expressions: exprs}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseNot(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	p := &NotPredicate{Expression: expr}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseComparison(obj wire.Object) (Node, error) {
	left, err := b.child(obj, "left")
	if err != nil {
		return nil, err
	}
	right, err := b.child(obj, "right")
	if err != nil {
		return nil, err
	}
	p := &ComparisonPredicate{Op: comparisonOps[NodeType(obj.Kind())], Left: left, Right: right}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseLike(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	pattern, err := b.child(obj, "pattern")
	if err != nil {
		return nil, err
	}
	escape, err := b.optChild(obj, "escapeChar")
	if err != nil {
		return nil, err
	}
	p := &LikePredicate{Expression: expr, Pattern: pattern, EscapeChar: escape}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseRegexpLike(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	pattern, err := b.child(obj, "pattern")
	if err != nil {
		return nil, err
	}
	p := &RegexpLikePredicate{Expression: expr, Pattern: pattern}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseBetween(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	left, err := b.child(obj, "left")
	if err != nil {
		return nil, err
	}
	right, err := b.child(obj, "right")
	if err != nil {
		return nil, err
	}
	p := &BetweenPredicate{Expression: expr, Left: left, Right: right}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseIn(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	args, err := b.list(obj, "arguments")
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, arity(obj.Kind(), "arguments", "at least 1", 0)
	}
	p := &InPredicate{Expression: expr, Arguments: args}
	b.tree.adopt(p)
	return p, nil
}

func (b *builder) parseNull(obj wire.Object) (Node, error) {
	expr, err := b.child(obj, "expression")
	if err != nil {
		return nil, err
	}
	p := &NullPredicate{Expression: expr, Negated: NodeType(obj.Kind()) == TypePredicateIsNotNull}
	b.tree.adopt(p)
	return p, nil
}

// ---------- Functions ----------

// optList decodes an optional node array; absent means no elements.
func (b *builder) optList(obj wire.Object, key string) ([]Node, error) {
	elems, ok, err := obj.OptArray(key)
	if err != nil || !ok {
		return nil, err
	}
	return b.elements(obj, key, elems)
}

func (b *builder) parseScalarFunction(obj wire.Object) (Node, error) {
	name, err := obj.String("name")
	if err != nil {
		return nil, err
	}
	fn, err := capability.ParseScalarFunction(name)
	if err != nil {
		return nil, errs.Unsupported(errs.ErrKindUnsupportedNode, obj.Kind(), "name", name)
	}
	f := &ScalarFunction{Function: fn}
	if f.Arguments, err = b.optList(obj, "arguments"); err != nil {
		return nil, err
	}
	if f.Infix, err = obj.OptBool("infix", false); err != nil {
		return nil, err
	}
	if f.Prefix, err = obj.OptBool("prefix", false); err != nil {
		return nil, err
	}
	if f.Infix && len(f.Arguments) != 2 {
		return nil, arity(name, "arguments", "2", len(f.Arguments))
	}
	b.tree.adopt(f)
	return f, nil
}

// single decodes an "arguments" array that must hold exactly one node.
func (b *builder) single(obj wire.Object, name string) ([]Node, error) {
	args, err := b.list(obj, "arguments")
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, arity(name, "arguments", "exactly 1", len(args))
	}
	return args, nil
}

func (b *builder) parseExtract(obj wire.Object) (Node, error) {
	part, err := obj.String("toExtract")
	if err != nil {
		return nil, err
	}
	args, err := b.single(obj, string(capability.FnExtract))
	if err != nil {
		return nil, err
	}
	f := &ExtractFunction{ToExtract: part, Argument: args[0]}
	b.tree.adopt(f)
	return f, nil
}

func (b *builder) parseCast(obj wire.Object) (Node, error) {
	raw, ok := obj.Raw("dataType")
	if !ok {
		return nil, errs.Missing(obj.Kind(), "dataType")
	}
	dt, err := metadata.ParseDataType(raw)
	if err != nil {
		return nil, err
	}
	args, err := b.single(obj, string(capability.FnCast))
	if err != nil {
		return nil, err
	}
	f := &CastFunction{DataType: dt, Argument: args[0]}
	b.tree.adopt(f)
	return f, nil
}

func (b *builder) parseCase(obj wire.Object) (Node, error) {
	basis, err := b.optChild(obj, "basis")
	if err != nil {
		return nil, err
	}
	args, err := b.list(obj, "arguments")
	if err != nil {
		return nil, err
	}
	results, err := b.list(obj, "results")
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, arity(string(capability.FnCase), "arguments", "at least 1", 0)
	}
	if len(results) != len(args) && len(results) != len(args)+1 {
		return nil, arity(string(capability.FnCase), "results",
			fmt.Sprintf("%d or %d", len(args), len(args)+1), len(results))
	}
	f := &CaseFunction{Basis: basis, Arguments: args, Results: results}
	b.tree.adopt(f)
	return f, nil
}

func (b *builder) aggregateName(obj wire.Object, def string) (capability.AggregateFunction, error) {
	name, err := obj.OptString("name", def)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", errs.Missing(obj.Kind(), "name")
	}
	fn, err := capability.ParseAggregateFunction(name)
	if err != nil {
		return "", errs.Unsupported(errs.ErrKindUnsupportedNode, obj.Kind(), "name", name)
	}
	return fn, nil
}

func (b *builder) parseAggregate(obj wire.Object) (Node, error) {
	fn, err := b.aggregateName(obj, "")
	if err != nil {
		return nil, err
	}
	f := &AggregateFunction{Function: fn}
	if f.Arguments, err = b.optList(obj, "arguments"); err != nil {
		return nil, err
	}
	if f.Distinct, err = obj.OptBool("distinct", false); err != nil {
		return nil, err
	}
	b.tree.adopt(f)
	return f, nil
}

// parseGroupConcat requires exactly one argument and an explicit separator;
// no separator default is assumed.
func (b *builder) parseGroupConcat(obj wire.Object) (Node, error) {
	fn, err := b.aggregateName(obj, string(capability.AggGroupConcat))
	if err != nil {
		return nil, err
	}
	f := &GroupConcat{Function: fn}
	if f.Arguments, err = b.list(obj, "arguments"); err != nil {
		return nil, err
	}
	if len(f.Arguments) != 1 {
		return nil, arity(string(fn), "arguments", "exactly 1", len(f.Arguments))
	}
	if f.OrderBy, err = b.parseOrderBy(obj, "orderBy"); err != nil {
		return nil, err
	}
	if f.Distinct, err = obj.OptBool("distinct", false); err != nil {
		return nil, err
	}
	if f.Separator, err = obj.String("separator"); err != nil {
		return nil, err
	}
	b.tree.adopt(f)
	return f, nil
}
