package capability

import (
	"slices"
)

// Set is an immutable, duplicate-free set of capability tokens of one category.
// Equality is membership-based; Sorted gives a stable order for output.
type Set[C ~string] struct {
	m map[C]struct{}
}

func newSet[C ~string](m map[C]struct{}) Set[C] {
	return Set[C]{m: m}
}

// Contains reports whether c is in the set.
func (s Set[C]) Contains(c C) bool {
	_, ok := s.m[c]
	return ok
}

// ContainsAll reports whether every given token is in the set.
func (s Set[C]) ContainsAll(cs ...C) bool {
	for _, c := range cs {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the set has no members.
func (s Set[C]) IsEmpty() bool { return len(s.m) == 0 }

// Len returns the number of members.
func (s Set[C]) Len() int { return len(s.m) }

// Equal reports whether both sets have the same members.
func (s Set[C]) Equal(other Set[C]) bool {
	if len(s.m) != len(other.m) {
		return false
	}
	for c := range s.m {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexicographic order.
func (s Set[C]) Sorted() []C {
	out := make([]C, 0, len(s.m))
	for c := range s.m {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Capabilities groups the five capability categories an adapter declares.
// The zero value is valid and empty in every category.
type Capabilities struct {
	main       Set[Main]
	literals   Set[Literal]
	predicates Set[Predicate]
	scalars    Set[ScalarFunction]
	aggregates Set[AggregateFunction]
}

func (c Capabilities) Main() Set[Main]                            { return c.main }
func (c Capabilities) Literals() Set[Literal]                     { return c.literals }
func (c Capabilities) Predicates() Set[Predicate]                 { return c.predicates }
func (c Capabilities) ScalarFunctions() Set[ScalarFunction]       { return c.scalars }
func (c Capabilities) AggregateFunctions() Set[AggregateFunction] { return c.aggregates }

// IsEmpty reports whether no capability of any category is declared.
func (c Capabilities) IsEmpty() bool {
	return c.main.IsEmpty() && c.literals.IsEmpty() && c.predicates.IsEmpty() &&
		c.scalars.IsEmpty() && c.aggregates.IsEmpty()
}

// Equal reports whether both values declare the same tokens in every category.
func (c Capabilities) Equal(other Capabilities) bool {
	return c.main.Equal(other.main) && c.literals.Equal(other.literals) &&
		c.predicates.Equal(other.predicates) && c.scalars.Equal(other.scalars) &&
		c.aggregates.Equal(other.aggregates)
}

// Tokens returns every declared capability as a prefixed wire token.
// Categories come in a fixed order (main, literal, predicate, scalar,
// aggregate) and tokens are sorted within each, so output is reproducible.
func (c Capabilities) Tokens() []string {
	var out []string
	out = appendTokens(out, CategoryMain, c.main)
	out = appendTokens(out, CategoryLiteral, c.literals)
	out = appendTokens(out, CategoryPredicate, c.predicates)
	out = appendTokens(out, CategoryScalarFunction, c.scalars)
	out = appendTokens(out, CategoryAggregateFunction, c.aggregates)
	return out
}

func appendTokens[C ~string](out []string, cat Category, s Set[C]) []string {
	for _, t := range s.Sorted() {
		out = append(out, cat.Prefix()+string(t))
	}
	return out
}

// Builder accumulates capability tokens. Adding a token twice is a no-op.
type Builder struct {
	main       map[Main]struct{}
	literals   map[Literal]struct{}
	predicates map[Predicate]struct{}
	scalars    map[ScalarFunction]struct{}
	aggregates map[AggregateFunction]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		main:       map[Main]struct{}{},
		literals:   map[Literal]struct{}{},
		predicates: map[Predicate]struct{}{},
		scalars:    map[ScalarFunction]struct{}{},
		aggregates: map[AggregateFunction]struct{}{},
	}
}

func (b *Builder) AddMain(cs ...Main) *Builder {
	add(b.main, cs)
	return b
}

func (b *Builder) AddLiteral(cs ...Literal) *Builder {
	add(b.literals, cs)
	return b
}

func (b *Builder) AddPredicate(cs ...Predicate) *Builder {
	add(b.predicates, cs)
	return b
}

func (b *Builder) AddScalarFunction(cs ...ScalarFunction) *Builder {
	add(b.scalars, cs)
	return b
}

func (b *Builder) AddAggregateFunction(cs ...AggregateFunction) *Builder {
	add(b.aggregates, cs)
	return b
}

// Build returns an immutable snapshot of the accumulated tokens.
// The builder may keep being used; later additions do not affect the result.
func (b *Builder) Build() Capabilities {
	return Capabilities{
		main:       newSet(clone(b.main)),
		literals:   newSet(clone(b.literals)),
		predicates: newSet(clone(b.predicates)),
		scalars:    newSet(clone(b.scalars)),
		aggregates: newSet(clone(b.aggregates)),
	}
}

func add[C ~string](m map[C]struct{}, cs []C) {
	for _, c := range cs {
		m[c] = struct{}{}
	}
}

func clone[C ~string](m map[C]struct{}) map[C]struct{} {
	out := make(map[C]struct{}, len(m))
	for c := range m {
		out[c] = struct{}{}
	}
	return out
}
