// Package capability defines the closed taxonomies of pushdown features an
// adapter can declare, and the Capabilities value that groups them.
//
// All lookup tables in this package are filled during package initialisation
// and only read afterwards, so they are safe for concurrent use.
//
// Usage:
//
//	caps := capability.NewBuilder().
//	    AddMain(capability.SelectListProjection, capability.Limit).
//	    AddPredicate(capability.PredicateEqual).
//	    Build()
//
//	if caps.Predicates().Contains(capability.PredicateEqual) { ... }
package capability

import (
	"strings"

	"github.com/koustreak/vschema/internal/errs"
)

// Category identifies one of the five capability groups.
type Category int

const (
	CategoryMain Category = iota
	CategoryLiteral
	CategoryPredicate
	CategoryScalarFunction
	CategoryAggregateFunction
)

func (c Category) String() string {
	switch c {
	case CategoryMain:
		return "main"
	case CategoryLiteral:
		return "literal"
	case CategoryPredicate:
		return "predicate"
	case CategoryScalarFunction:
		return "scalar_function"
	case CategoryAggregateFunction:
		return "aggregate_function"
	default:
		return "unknown"
	}
}

// Wire prefixes of the capability tokens, per category. Main has none.
const (
	prefixLiteral   = "LITERAL_"
	prefixPredicate = "FN_PRED_"
	prefixAggregate = "FN_AGG_"
	prefixScalar    = "FN_"
)

// Prefix returns the wire prefix used for tokens of the category.
func (c Category) Prefix() string {
	switch c {
	case CategoryLiteral:
		return prefixLiteral
	case CategoryPredicate:
		return prefixPredicate
	case CategoryScalarFunction:
		return prefixScalar
	case CategoryAggregateFunction:
		return prefixAggregate
	default:
		return ""
	}
}

var (
	mainTokens = tokenSet(
		SelectListProjection, SelectListExpressions, FilterExpressions,
		AggregateSingleGroup, AggregateGroupByColumn, AggregateGroupByExpression,
		AggregateGroupByTuple, AggregateHaving, OrderByColumn, OrderByExpression,
		Limit, LimitWithOffset, Join, JoinTypeInner, JoinTypeLeftOuter,
		JoinTypeRightOuter, JoinTypeFullOuter, JoinConditionEqui, JoinConditionAll,
	)
	literalTokens = tokenSet(
		LiteralNull, LiteralBool, LiteralDate, LiteralTimestamp, LiteralTimestampUTC,
		LiteralDouble, LiteralExactNumeric, LiteralString, LiteralInterval,
	)
	predicateTokens = tokenSet(
		PredicateAnd, PredicateOr, PredicateNot, PredicateEqual, PredicateNotEqual,
		PredicateLess, PredicateLessEqual, PredicateLike, PredicateLikeEscape,
		PredicateRegexpLike, PredicateBetween, PredicateInConstList, PredicateIsNull,
		PredicateIsNotNull,
	)
	aggregateTokens = tokenSet(
		AggCount, AggCountStar, AggCountDistinct, AggCountTuple, AggSum, AggSumDistinct,
		AggMin, AggMax, AggAvg, AggAvgDistinct, AggMedian, AggFirstValue, AggLastValue,
		AggStddev, AggStddevDistinct, AggStddevPop, AggStddevPopDistinct, AggStddevSamp,
		AggStddevSampDistinct, AggVariance, AggVarianceDistinct, AggVarPop,
		AggVarPopDistinct, AggVarSamp, AggVarSampDistinct, AggGroupConcat,
		AggGroupConcatDistinct, AggGroupConcatSeparator, AggGroupConcatOrderBy,
		AggGeoIntersectionAggregate, AggGeoUnionAggregate, AggApproximateCountDistinct,
		AggMul, AggMulDistinct, AggEvery, AggSome,
	)
	scalarTokens = map[ScalarFunction]struct{}{}
)

func init() {
	for _, name := range scalarFunctionNames {
		scalarTokens[ScalarFunction(name)] = struct{}{}
	}
}

func tokenSet[C ~string](tokens ...C) map[C]struct{} {
	m := make(map[C]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func parseToken[C ~string](known map[C]struct{}, cat Category, token string) (C, error) {
	c := C(token)
	if _, ok := known[c]; !ok {
		var zero C
		return zero, errs.Unsupported(errs.ErrKindUnsupportedCapability, cat.String()+"_capability", "", token)
	}
	return c, nil
}

// ParseMain decodes a main capability token (no prefix).
func ParseMain(token string) (Main, error) {
	return parseToken(mainTokens, CategoryMain, token)
}

// ParseLiteral decodes a literal capability token without its prefix.
func ParseLiteral(token string) (Literal, error) {
	return parseToken(literalTokens, CategoryLiteral, token)
}

// ParsePredicate decodes a predicate capability token without its prefix.
func ParsePredicate(token string) (Predicate, error) {
	return parseToken(predicateTokens, CategoryPredicate, token)
}

// ParseScalarFunction decodes a scalar function name.
func ParseScalarFunction(token string) (ScalarFunction, error) {
	return parseToken(scalarTokens, CategoryScalarFunction, token)
}

// ParseAggregateFunction decodes an aggregate function name or variant.
func ParseAggregateFunction(token string) (AggregateFunction, error) {
	return parseToken(aggregateTokens, CategoryAggregateFunction, token)
}

// ParseToken decodes a prefixed wire token such as "FN_PRED_EQUAL" or
// "LITERAL_STRING" and adds it to b. Tokens without a known prefix are
// decoded as main capabilities.
func (b *Builder) ParseToken(token string) error {
	switch {
	case strings.HasPrefix(token, prefixLiteral):
		c, err := ParseLiteral(strings.TrimPrefix(token, prefixLiteral))
		if err != nil {
			return err
		}
		b.AddLiteral(c)
	case strings.HasPrefix(token, prefixPredicate):
		c, err := ParsePredicate(strings.TrimPrefix(token, prefixPredicate))
		if err != nil {
			return err
		}
		b.AddPredicate(c)
	case strings.HasPrefix(token, prefixAggregate):
		c, err := ParseAggregateFunction(strings.TrimPrefix(token, prefixAggregate))
		if err != nil {
			return err
		}
		b.AddAggregateFunction(c)
	case strings.HasPrefix(token, prefixScalar):
		c, err := ParseScalarFunction(strings.TrimPrefix(token, prefixScalar))
		if err != nil {
			return err
		}
		b.AddScalarFunction(c)
	default:
		c, err := ParseMain(token)
		if err != nil {
			return err
		}
		b.AddMain(c)
	}
	return nil
}

// All returns a Capabilities value holding every known token.
func All() Capabilities {
	b := NewBuilder()
	for c := range mainTokens {
		b.AddMain(c)
	}
	for c := range literalTokens {
		b.AddLiteral(c)
	}
	for c := range predicateTokens {
		b.AddPredicate(c)
	}
	for c := range scalarTokens {
		b.AddScalarFunction(c)
	}
	for c := range aggregateTokens {
		b.AddAggregateFunction(c)
	}
	return b.Build()
}
