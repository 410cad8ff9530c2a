package capability

// Main is a structural pushdown feature (projection, join kinds, limit, ...).
type Main string

const (
	SelectListProjection       Main = "SELECTLIST_PROJECTION"
	SelectListExpressions      Main = "SELECTLIST_EXPRESSIONS"
	FilterExpressions          Main = "FILTER_EXPRESSIONS"
	AggregateSingleGroup       Main = "AGGREGATE_SINGLE_GROUP"
	AggregateGroupByColumn     Main = "AGGREGATE_GROUP_BY_COLUMN"
	AggregateGroupByExpression Main = "AGGREGATE_GROUP_BY_EXPRESSION"
	AggregateGroupByTuple      Main = "AGGREGATE_GROUP_BY_TUPLE"
	AggregateHaving            Main = "AGGREGATE_HAVING"
	OrderByColumn              Main = "ORDER_BY_COLUMN"
	OrderByExpression          Main = "ORDER_BY_EXPRESSION"
	Limit                      Main = "LIMIT"
	LimitWithOffset            Main = "LIMIT_WITH_OFFSET"
	Join                       Main = "JOIN"
	JoinTypeInner              Main = "JOIN_TYPE_INNER"
	JoinTypeLeftOuter          Main = "JOIN_TYPE_LEFT_OUTER"
	JoinTypeRightOuter         Main = "JOIN_TYPE_RIGHT_OUTER"
	JoinTypeFullOuter          Main = "JOIN_TYPE_FULL_OUTER"
	JoinConditionEqui          Main = "JOIN_CONDITION_EQUI"
	JoinConditionAll           Main = "JOIN_CONDITION_ALL"
)

// Literal is a literal kind the adapter accepts in pushed-down SQL.
type Literal string

const (
	LiteralNull         Literal = "NULL"
	LiteralBool         Literal = "BOOL"
	LiteralDate         Literal = "DATE"
	LiteralTimestamp    Literal = "TIMESTAMP"
	LiteralTimestampUTC Literal = "TIMESTAMP_UTC"
	LiteralDouble       Literal = "DOUBLE"
	LiteralExactNumeric Literal = "EXACTNUMERIC"
	LiteralString       Literal = "STRING"
	LiteralInterval     Literal = "INTERVAL"
)

// Predicate is a predicate the adapter can evaluate.
type Predicate string

const (
	PredicateAnd         Predicate = "AND"
	PredicateOr          Predicate = "OR"
	PredicateNot         Predicate = "NOT"
	PredicateEqual       Predicate = "EQUAL"
	PredicateNotEqual    Predicate = "NOTEQUAL"
	PredicateLess        Predicate = "LESS"
	PredicateLessEqual   Predicate = "LESSEQUAL"
	PredicateLike        Predicate = "LIKE"
	PredicateLikeEscape  Predicate = "LIKE_ESCAPE"
	PredicateRegexpLike  Predicate = "REGEXP_LIKE"
	PredicateBetween     Predicate = "BETWEEN"
	PredicateInConstList Predicate = "IN_CONSTLIST"
	PredicateIsNull      Predicate = "IS_NULL"
	PredicateIsNotNull   Predicate = "IS_NOT_NULL"
)

// AggregateFunction is an aggregate function, or an aggregate variant such
// as COUNT_STAR or GROUP_CONCAT_ORDER_BY.
type AggregateFunction string

const (
	AggCount                    AggregateFunction = "COUNT"
	AggCountStar                AggregateFunction = "COUNT_STAR"
	AggCountDistinct            AggregateFunction = "COUNT_DISTINCT"
	AggCountTuple               AggregateFunction = "COUNT_TUPLE"
	AggSum                      AggregateFunction = "SUM"
	AggSumDistinct              AggregateFunction = "SUM_DISTINCT"
	AggMin                      AggregateFunction = "MIN"
	AggMax                      AggregateFunction = "MAX"
	AggAvg                      AggregateFunction = "AVG"
	AggAvgDistinct              AggregateFunction = "AVG_DISTINCT"
	AggMedian                   AggregateFunction = "MEDIAN"
	AggFirstValue               AggregateFunction = "FIRST_VALUE"
	AggLastValue                AggregateFunction = "LAST_VALUE"
	AggStddev                   AggregateFunction = "STDDEV"
	AggStddevDistinct           AggregateFunction = "STDDEV_DISTINCT"
	AggStddevPop                AggregateFunction = "STDDEV_POP"
	AggStddevPopDistinct        AggregateFunction = "STDDEV_POP_DISTINCT"
	AggStddevSamp               AggregateFunction = "STDDEV_SAMP"
	AggStddevSampDistinct       AggregateFunction = "STDDEV_SAMP_DISTINCT"
	AggVariance                 AggregateFunction = "VARIANCE"
	AggVarianceDistinct         AggregateFunction = "VARIANCE_DISTINCT"
	AggVarPop                   AggregateFunction = "VAR_POP"
	AggVarPopDistinct           AggregateFunction = "VAR_POP_DISTINCT"
	AggVarSamp                  AggregateFunction = "VAR_SAMP"
	AggVarSampDistinct          AggregateFunction = "VAR_SAMP_DISTINCT"
	AggGroupConcat              AggregateFunction = "GROUP_CONCAT"
	AggGroupConcatDistinct      AggregateFunction = "GROUP_CONCAT_DISTINCT"
	AggGroupConcatSeparator     AggregateFunction = "GROUP_CONCAT_SEPARATOR"
	AggGroupConcatOrderBy       AggregateFunction = "GROUP_CONCAT_ORDER_BY"
	AggGeoIntersectionAggregate AggregateFunction = "GEO_INTERSECTION_AGGREGATE"
	AggGeoUnionAggregate        AggregateFunction = "GEO_UNION_AGGREGATE"
	AggApproximateCountDistinct AggregateFunction = "APPROXIMATE_COUNT_DISTINCT"
	AggMul                      AggregateFunction = "MUL"
	AggMulDistinct              AggregateFunction = "MUL_DISTINCT"
	AggEvery                    AggregateFunction = "EVERY"
	AggSome                     AggregateFunction = "SOME"
)

// ScalarFunction is a scalar function name. The constants below are the
// ones referenced by code; scalarFunctionNames holds the full list.
type ScalarFunction string

const (
	FnAdd      ScalarFunction = "ADD"
	FnSub      ScalarFunction = "SUB"
	FnMult     ScalarFunction = "MULT"
	FnFloatDiv ScalarFunction = "FLOAT_DIV"
	FnNeg      ScalarFunction = "NEG"
	FnAbs      ScalarFunction = "ABS"
	FnConcat   ScalarFunction = "CONCAT"
	FnUpper    ScalarFunction = "UPPER"
	FnLower    ScalarFunction = "LOWER"
	FnExtract  ScalarFunction = "EXTRACT"
	FnCast     ScalarFunction = "CAST"
	FnCase     ScalarFunction = "CASE"
)

var scalarFunctionNames = []string{
	// numeric
	"ADD", "SUB", "MULT", "FLOAT_DIV", "NEG", "ABS", "ACOS", "ASIN", "ATAN", "ATAN2",
	"CEIL", "COS", "COSH", "COT", "DEGREES", "DIV", "EXP", "FLOOR", "GREATEST", "LEAST",
	"LN", "LOG", "MIN_SCALE", "MOD", "POWER", "RADIANS", "RAND", "ROUND", "SIGN", "SIN",
	"SINH", "SQRT", "TAN", "TANH", "TRUNC",
	// string
	"ASCII", "BIT_LENGTH", "CHR", "COLOGNE_PHONETIC", "CONCAT", "DUMP", "EDIT_DISTANCE",
	"INITCAP", "INSERT", "INSTR", "LENGTH", "LOCATE", "LOWER", "LPAD", "LTRIM",
	"OCTET_LENGTH", "REGEXP_INSTR", "REGEXP_REPLACE", "REGEXP_SUBSTR", "REPEAT", "REPLACE",
	"REVERSE", "RIGHT", "RPAD", "RTRIM", "SOUNDEX", "SPACE", "SUBSTR", "TRANSLATE", "TRIM",
	"UNICODE", "UNICODECHR", "UPPER",
	// date and time
	"ADD_DAYS", "ADD_HOURS", "ADD_MINUTES", "ADD_MONTHS", "ADD_SECONDS", "ADD_WEEKS",
	"ADD_YEARS", "CONVERT_TZ", "CURRENT_DATE", "CURRENT_TIMESTAMP", "DATE_TRUNC", "DAY",
	"DAYS_BETWEEN", "DBTIMEZONE", "EXTRACT", "HOURS_BETWEEN", "LOCALTIMESTAMP", "MINUTE",
	"MINUTES_BETWEEN", "MONTH", "MONTHS_BETWEEN", "NUMTODSINTERVAL", "NUMTOYMINTERVAL",
	"POSIX_TIME", "SECOND", "SECONDS_BETWEEN", "SESSIONTIMEZONE", "SYSDATE", "SYSTIMESTAMP",
	"WEEK", "YEAR", "YEARS_BETWEEN",
	// geospatial
	"ST_X", "ST_Y", "ST_ENDPOINT", "ST_ISCLOSED", "ST_ISRING", "ST_LENGTH", "ST_NUMPOINTS",
	"ST_POINTN", "ST_STARTPOINT", "ST_AREA", "ST_EXTERIORRING", "ST_INTERIORRINGN",
	"ST_NUMINTERIORRINGS", "ST_GEOMETRYN", "ST_NUMGEOMETRIES", "ST_BOUNDARY", "ST_BUFFER",
	"ST_CENTROID", "ST_CONTAINS", "ST_CONVEXHULL", "ST_CROSSES", "ST_DIFFERENCE",
	"ST_DIMENSION", "ST_DISJOINT", "ST_DISTANCE", "ST_ENVELOPE", "ST_EQUALS", "ST_FORCE2D",
	"ST_GEOMETRYTYPE", "ST_INTERSECTION", "ST_INTERSECTS", "ST_ISEMPTY", "ST_ISSIMPLE",
	"ST_OVERLAPS", "ST_SETSRID", "ST_SYMDIFFERENCE", "ST_TOUCHES", "ST_TRANSFORM",
	"ST_UNION", "ST_WITHIN",
	// conversion
	"CAST", "IS_NUMBER", "IS_BOOLEAN", "IS_DATE", "IS_DSINTERVAL", "IS_YMINTERVAL",
	"IS_TIMESTAMP", "TO_CHAR", "TO_DATE", "TO_DSINTERVAL", "TO_YMINTERVAL", "TO_NUMBER",
	"TO_TIMESTAMP",
	// bitwise
	"BIT_AND", "BIT_CHECK", "BIT_NOT", "BIT_OR", "BIT_SET", "BIT_TO_NUM", "BIT_XOR",
	// other
	"CASE", "CURRENT_SCHEMA", "CURRENT_SESSION", "CURRENT_STATEMENT", "CURRENT_USER",
	"HASH_MD5", "HASH_SHA", "HASH_SHA1", "HASH_TIGER", "NULLIFZERO", "SYS_GUID", "ZEROIFNULL",
}
