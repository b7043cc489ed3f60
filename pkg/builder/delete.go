package builder

import (
	"fmt"
	"strings"
)

// Delete creates a new DELETE query against table.
// Usage: builder.Delete("comments").Where(builder.Eq("comment_id", id))
func Delete(table string) *DeleteQuery {
	return &DeleteQuery{table: table}
}

// Where adds a WHERE condition to the DELETE query.
func (q *DeleteQuery) Where(condition Condition) *DeleteQuery {
	q.where = append(q.where, condition)
	return q
}

// ToSQL generates the DELETE SQL and arguments.
// A DELETE without conditions is refused.
func (q *DeleteQuery) ToSQL() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("delete query has no table")
	}
	if len(q.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s requires a WHERE condition", q.table)
	}

	var sql strings.Builder

	sql.WriteString("DELETE FROM ")
	sql.WriteString(q.table)

	whereSql, args, err := NewWhereBuilder(q.where...).Build()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
	}
	sql.WriteString(" ")
	sql.WriteString(whereSql)

	return sql.String(), args, nil
}
