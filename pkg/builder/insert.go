package builder

import (
	"fmt"
	"strings"
)

// Insert creates a new single-row INSERT query against table.
// Usage: builder.Insert("comments").Value("body", body).Returning("*")
func Insert(table string) *InsertQuery {
	return &InsertQuery{table: table}
}

// Value adds a column and its value to the row being inserted.
func (q *InsertQuery) Value(column string, value interface{}) *InsertQuery {
	q.columns = append(q.columns, column)
	q.values = append(q.values, value)
	return q
}

// Returning specifies columns to return after insert.
func (q *InsertQuery) Returning(columns ...string) *InsertQuery {
	q.returning = columns
	return q
}

// ToSQL generates the INSERT SQL and arguments.
func (q *InsertQuery) ToSQL() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("insert query has no table")
	}

	if len(q.columns) == 0 {
		return "", nil, fmt.Errorf("no values to insert")
	}

	var sql strings.Builder

	sql.WriteString("INSERT INTO ")
	sql.WriteString(q.table)
	sql.WriteString(" (")
	sql.WriteString(strings.Join(q.columns, ", "))
	sql.WriteString(") VALUES (")

	placeholders := make([]string, len(q.values))
	for i := range q.values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql.WriteString(strings.Join(placeholders, ", "))
	sql.WriteString(")")

	if len(q.returning) > 0 {
		sql.WriteString(" RETURNING ")
		sql.WriteString(strings.Join(q.returning, ", "))
	}

	args := make([]interface{}, len(q.values))
	copy(args, q.values)

	return sql.String(), args, nil
}
