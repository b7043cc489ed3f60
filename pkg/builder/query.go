// Package builder generates parameterized PostgreSQL statements.
//
// Identifiers (tables, columns, sort directions) are written into the SQL text
// as given and must come from a whitelist owned by the caller. Values are
// always emitted as positional parameters ($1, $2, ...).
package builder

// Query represents a statement that can be rendered to SQL.
type Query interface {
	// ToSQL generates the SQL statement and its parameter values.
	ToSQL() (sql string, args []interface{}, err error)
}

// SelectQuery represents a SELECT statement.
type SelectQuery struct {
	table   string
	columns []string
	where   []Condition
	joins   []Join
	groupBy []string
	orderBy []OrderBy
	limit   *int
	offset  *int
}

// InsertQuery represents a single-row INSERT statement.
type InsertQuery struct {
	table     string
	columns   []string
	values    []interface{}
	returning []string
}

// UpdateQuery represents an UPDATE statement.
type UpdateQuery struct {
	table     string
	sets      []increment
	where     []Condition
	returning []string
}

// DeleteQuery represents a DELETE statement.
type DeleteQuery struct {
	table string
	where []Condition
}

// Condition represents a WHERE condition.
type Condition struct {
	Column   string
	Operator Operator
	Value    interface{}
	Logic    LogicOperator
	Group    []Condition // For grouped conditions
}

// Join represents a JOIN clause.
type Join struct {
	Type      JoinType
	Table     string
	Condition string
}

// OrderBy represents an ORDER BY term.
type OrderBy struct {
	Column    string
	Direction OrderDirection
}

// increment is one SET term of an UPDATE: column = column + $n.
type increment struct {
	column string
	value  interface{}
}

// Operator represents a comparison operator.
type Operator string

const (
	// OpEqual represents the = operator.
	OpEqual Operator = "="
	// OpILike represents the ILIKE operator (case-insensitive).
	OpILike Operator = "ILIKE"
)

// LogicOperator represents a logical operator (AND/OR).
type LogicOperator string

const (
	// LogicAnd represents the AND operator.
	LogicAnd LogicOperator = "AND"
	// LogicOr represents the OR operator.
	LogicOr LogicOperator = "OR"
)

// JoinType represents a type of JOIN.
type JoinType string

// LeftJoin represents a LEFT JOIN.
const LeftJoin JoinType = "LEFT JOIN"

// OrderDirection represents the sort direction.
type OrderDirection string

const (
	// Asc represents ascending order.
	Asc OrderDirection = "ASC"
	// Desc represents descending order.
	Desc OrderDirection = "DESC"
)
