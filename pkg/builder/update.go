package builder

import (
	"fmt"
	"strings"
)

// Update creates a new UPDATE query against table.
// Usage: builder.Update("articles").Increment("votes", 1).Where(...).Returning("*")
func Update(table string) *UpdateQuery {
	return &UpdateQuery{table: table}
}

// Increment adds value to the column's current value: column = column + $n.
func (q *UpdateQuery) Increment(column string, value interface{}) *UpdateQuery {
	q.sets = append(q.sets, increment{column: column, value: value})
	return q
}

// Where adds a WHERE condition.
func (q *UpdateQuery) Where(condition Condition) *UpdateQuery {
	q.where = append(q.where, condition)
	return q
}

// Returning specifies columns to return after update.
func (q *UpdateQuery) Returning(columns ...string) *UpdateQuery {
	q.returning = columns
	return q
}

// ToSQL generates the UPDATE SQL and arguments.
func (q *UpdateQuery) ToSQL() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("update query has no table")
	}

	if len(q.sets) == 0 {
		return "", nil, fmt.Errorf("no columns to update")
	}

	var sql strings.Builder
	var args []interface{}
	paramNum := 1

	sql.WriteString("UPDATE ")
	sql.WriteString(q.table)
	sql.WriteString(" SET ")

	// SET clause, in call order
	setClauses := make([]string, 0, len(q.sets))
	for _, set := range q.sets {
		setClauses = append(setClauses, fmt.Sprintf("%s = %s + $%d", set.column, set.column, paramNum))
		args = append(args, set.value)
		paramNum++
	}
	sql.WriteString(strings.Join(setClauses, ", "))

	// WHERE clause continues the parameter numbering after SET
	if len(q.where) > 0 {
		whereSql, whereArgs, err := NewWhereBuilderWithStart(paramNum, q.where...).Build()
		if err != nil {
			return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
		}
		sql.WriteString(" ")
		sql.WriteString(whereSql)
		args = append(args, whereArgs...)
	}

	if len(q.returning) > 0 {
		sql.WriteString(" RETURNING ")
		sql.WriteString(strings.Join(q.returning, ", "))
	}

	return sql.String(), args, nil
}
