package sqlnode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/koustreak/vschema/internal/capability"
)

// Render returns a readable SQL rendering of n. It is meant for logs and
// diagnostics, not as input for a particular database dialect: identifiers
// are double-quoted and literals keep the text they were decoded with.
func Render(n Node) string {
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Select:
		renderSelect(sb, n)
	case *SelectList:
		switch n.Kind {
		case SelectListStar:
			sb.WriteString("*")
		case SelectListAnyValue:
			sb.WriteString("true")
		default:
			renderList(sb, n.Expressions, ", ")
		}
	case *GroupBy:
		renderList(sb, n.Expressions, ", ")
	case *OrderBy:
		for i, e := range n.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			render(sb, e)
		}
	case *OrderByElement:
		render(sb, n.Expression)
		if n.Ascending {
			sb.WriteString(" ASC")
		} else {
			sb.WriteString(" DESC")
		}
		if n.NullsLast {
			sb.WriteString(" NULLS LAST")
		} else {
			sb.WriteString(" NULLS FIRST")
		}
	case *Limit:
		sb.WriteString("LIMIT ")
		sb.WriteString(strconv.Itoa(n.Count))
		if n.HasOffset {
			sb.WriteString(" OFFSET ")
			sb.WriteString(strconv.Itoa(n.Offset))
		}
	case *Table:
		sb.WriteString(quote(n.Name))
		if n.HasAlias() {
			sb.WriteString(" AS ")
			sb.WriteString(quote(n.Alias))
		}
	case *Join:
		render(sb, n.Left)
		// An inner join without a condition is a cross join; outer joins keep their type.
		if !n.HasCondition() && n.JoinType == JoinInner {
			sb.WriteString(" CROSS JOIN ")
			render(sb, n.Right)
			break
		}
		fmt.Fprintf(sb, " %s JOIN ", n.JoinType)
		render(sb, n.Right)
		if n.HasCondition() {
			sb.WriteString(" ON ")
			render(sb, n.Condition)
		}
	case *ColumnRef:
		qualifier := n.TableName
		if n.TableAlias != "" {
			qualifier = n.TableAlias
		}
		sb.WriteString(quote(qualifier))
		sb.WriteString(".")
		sb.WriteString(quote(n.Name))
	case *Literal:
		renderLiteral(sb, n)
	case *LogicalPredicate:
		sep := " AND "
		if n.Op == capability.PredicateOr {
			sep = " OR "
		}
		sb.WriteString("(")
		renderList(sb, n.Expressions, sep)
		sb.WriteString(")")
	case *NotPredicate:
		sb.WriteString("NOT (")
		render(sb, n.Expression)
		sb.WriteString(")")
	case *ComparisonPredicate:
		render(sb, n.Left)
		sb.WriteString(comparisonSymbols[n.Type()])
		render(sb, n.Right)
	case *LikePredicate:
		render(sb, n.Expression)
		sb.WriteString(" LIKE ")
		render(sb, n.Pattern)
		if n.EscapeChar != nil {
			sb.WriteString(" ESCAPE ")
			render(sb, n.EscapeChar)
		}
	case *RegexpLikePredicate:
		render(sb, n.Expression)
		sb.WriteString(" REGEXP_LIKE ")
		render(sb, n.Pattern)
	case *BetweenPredicate:
		render(sb, n.Expression)
		sb.WriteString(" BETWEEN ")
		render(sb, n.Left)
		sb.WriteString(" AND ")
		render(sb, n.Right)
	case *InPredicate:
		render(sb, n.Expression)
		sb.WriteString(" IN (")
		renderList(sb, n.Arguments, ", ")
		sb.WriteString(")")
	case *NullPredicate:
		render(sb, n.Expression)
		if n.Negated {
			sb.WriteString(" IS NOT NULL")
		} else {
			sb.WriteString(" IS NULL")
		}
	case *ScalarFunction:
		renderScalar(sb, n)
	case *ExtractFunction:
		fmt.Fprintf(sb, "EXTRACT(%s FROM ", n.ToExtract)
		render(sb, n.Argument)
		sb.WriteString(")")
	case *CastFunction:
		sb.WriteString("CAST(")
		render(sb, n.Argument)
		fmt.Fprintf(sb, " AS %s)", n.DataType)
	case *CaseFunction:
		renderCase(sb, n)
	case *AggregateFunction:
		sb.WriteString(string(n.Function))
		sb.WriteString("(")
		if n.Distinct {
			sb.WriteString("DISTINCT ")
		}
		if len(n.Arguments) == 0 {
			sb.WriteString("*")
		} else {
			renderList(sb, n.Arguments, ", ")
		}
		sb.WriteString(")")
	case *GroupConcat:
		sb.WriteString(n.FunctionName())
		sb.WriteString("(")
		if n.Distinct {
			sb.WriteString("DISTINCT ")
		}
		renderList(sb, n.Arguments, ", ")
		if n.HasOrderBy() {
			sb.WriteString(" ORDER BY ")
			render(sb, n.OrderBy)
		}
		sb.WriteString(" SEPARATOR ")
		sb.WriteString(quoteString(n.Separator))
		sb.WriteString(")")
	default:
		panic(fmt.Sprintf("sqlnode: unhandled node %T", n))
	}
}

var comparisonSymbols = map[NodeType]string{
	TypePredicateEqual:     " = ",
	TypePredicateNotEqual:  " <> ",
	TypePredicateLess:      " < ",
	TypePredicateLessEqual: " <= ",
}

func renderSelect(sb *strings.Builder, s *Select) {
	sb.WriteString("SELECT ")
	render(sb, s.SelectList)
	sb.WriteString(" FROM ")
	render(sb, s.From)
	if s.HasFilter() {
		sb.WriteString(" WHERE ")
		render(sb, s.Where)
	}
	if s.HasGroupBy() {
		sb.WriteString(" GROUP BY ")
		render(sb, s.GroupBy)
	}
	if s.Having != nil {
		sb.WriteString(" HAVING ")
		render(sb, s.Having)
	}
	if s.HasOrderBy() {
		sb.WriteString(" ORDER BY ")
		render(sb, s.OrderBy)
	}
	if s.Limit != nil {
		sb.WriteString(" ")
		render(sb, s.Limit)
	}
}

func renderLiteral(sb *strings.Builder, l *Literal) {
	switch l.Kind {
	case TypeLiteralNull:
		sb.WriteString("NULL")
	case TypeLiteralBool:
		sb.WriteString(strings.ToUpper(strconv.FormatBool(l.Bool)))
	case TypeLiteralExactNumeric, TypeLiteralDouble:
		sb.WriteString(l.Value)
	case TypeLiteralDate:
		sb.WriteString("DATE ")
		sb.WriteString(quoteString(l.Value))
	case TypeLiteralTimestamp, TypeLiteralTimestampUTC:
		sb.WriteString("TIMESTAMP ")
		sb.WriteString(quoteString(l.Value))
	case TypeLiteralInterval:
		sb.WriteString("INTERVAL ")
		sb.WriteString(quoteString(l.Value))
		// Drop the leading "INTERVAL" of the type rendering.
		sb.WriteString(strings.TrimPrefix(l.DataType.String(), "INTERVAL"))
	default:
		sb.WriteString(quoteString(l.Value))
	}
}

func renderScalar(sb *strings.Builder, f *ScalarFunction) {
	switch {
	case f.Infix && len(f.Arguments) == 2:
		sb.WriteString("(")
		render(sb, f.Arguments[0])
		sb.WriteString(" ")
		sb.WriteString(infixSymbol(f))
		sb.WriteString(" ")
		render(sb, f.Arguments[1])
		sb.WriteString(")")
	case f.Prefix && len(f.Arguments) == 1:
		sb.WriteString("-")
		render(sb, f.Arguments[0])
	default:
		sb.WriteString(string(f.Function))
		sb.WriteString("(")
		renderList(sb, f.Arguments, ", ")
		sb.WriteString(")")
	}
}

func infixSymbol(f *ScalarFunction) string {
	switch f.Function {
	case capability.FnAdd:
		return "+"
	case capability.FnSub:
		return "-"
	case capability.FnMult:
		return "*"
	case capability.FnFloatDiv:
		return "/"
	default:
		return string(f.Function)
	}
}

func renderCase(sb *strings.Builder, f *CaseFunction) {
	sb.WriteString("CASE")
	if f.Basis != nil {
		sb.WriteString(" ")
		render(sb, f.Basis)
	}
	for i, arg := range f.Arguments {
		sb.WriteString(" WHEN ")
		render(sb, arg)
		sb.WriteString(" THEN ")
		render(sb, f.Results[i])
	}
	if f.HasElse() {
		sb.WriteString(" ELSE ")
		render(sb, f.Results[len(f.Results)-1])
	}
	sb.WriteString(" END")
}

func renderList(sb *strings.Builder, ns []Node, sep string) {
	for i, n := range ns {
		if i > 0 {
			sb.WriteString(sep)
		}
		render(sb, n)
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
