package builder

import (
	"fmt"
	"strings"
)

// Select creates a new SELECT query against table.
// Usage: builder.Select("articles").Where(...).OrderBy(...).ToSQL()
func Select(table string) *SelectQuery {
	return &SelectQuery{
		table:   table,
		columns: []string{"*"}, // Default to all columns
	}
}

// Columns specifies which columns to select.
func (q *SelectQuery) Columns(cols ...string) *SelectQuery {
	q.columns = cols
	return q
}

// Where adds a WHERE condition.
func (q *SelectQuery) Where(condition Condition) *SelectQuery {
	q.where = append(q.where, condition)
	return q
}

// And adds an AND condition (alias for Where).
func (q *SelectQuery) And(condition Condition) *SelectQuery {
	condition.Logic = LogicAnd
	return q.Where(condition)
}

// OrderBy adds an ORDER BY term.
func (q *SelectQuery) OrderBy(column string, direction OrderDirection) *SelectQuery {
	q.orderBy = append(q.orderBy, OrderBy{Column: column, Direction: direction})
	return q
}

// OrderByAsc adds an ascending ORDER BY term.
func (q *SelectQuery) OrderByAsc(column string) *SelectQuery {
	return q.OrderBy(column, Asc)
}

// OrderByDesc adds a descending ORDER BY term.
func (q *SelectQuery) OrderByDesc(column string) *SelectQuery {
	return q.OrderBy(column, Desc)
}

// Limit sets the LIMIT clause. The value is bound as a parameter.
func (q *SelectQuery) Limit(limit int) *SelectQuery {
	q.limit = &limit
	return q
}

// Offset sets the OFFSET clause. The value is bound as a parameter.
func (q *SelectQuery) Offset(offset int) *SelectQuery {
	q.offset = &offset
	return q
}

// GroupBy adds a GROUP BY clause.
func (q *SelectQuery) GroupBy(columns ...string) *SelectQuery {
	q.groupBy = append(q.groupBy, columns...)
	return q
}

// LeftJoin adds a LEFT JOIN.
func (q *SelectQuery) LeftJoin(table string, condition string) *SelectQuery {
	q.joins = append(q.joins, Join{Type: LeftJoin, Table: table, Condition: condition})
	return q
}

// whereSQL renders the WHERE clause shared by ToSQL and CountSQL.
func (q *SelectQuery) whereSQL() (string, []interface{}, error) {
	if len(q.where) == 0 {
		return "", nil, nil
	}
	sql, args, err := NewWhereBuilder(q.where...).Build()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
	}
	return sql, args, nil
}

// ToSQL generates the SQL query and arguments.
func (q *SelectQuery) ToSQL() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("select query has no table")
	}

	var sql strings.Builder

	sql.WriteString("SELECT ")
	if len(q.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(q.columns, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(q.table)

	for _, join := range q.joins {
		sql.WriteString(" ")
		sql.WriteString(string(join.Type))
		sql.WriteString(" ")
		sql.WriteString(join.Table)
		sql.WriteString(" ON ")
		sql.WriteString(join.Condition)
	}

	whereSQL, args, err := q.whereSQL()
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		sql.WriteString(" ")
		sql.WriteString(whereSQL)
	}

	if len(q.groupBy) > 0 {
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(q.groupBy, ", "))
	}

	if len(q.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		orderParts := make([]string, len(q.orderBy))
		for i, order := range q.orderBy {
			orderParts[i] = order.Column + " " + string(order.Direction)
		}
		sql.WriteString(strings.Join(orderParts, ", "))
	}

	if q.limit != nil {
		args = append(args, *q.limit)
		sql.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	if q.offset != nil {
		args = append(args, *q.offset)
		sql.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sql.String(), args, nil
}

// CountSQL generates a COUNT(*) over the query's table restricted by the same
// WHERE clause as ToSQL, with identical parameter numbering. Joins, grouping,
// ordering and the page window are ignored, so the count covers every row
// that matches the filter.
func (q *SelectQuery) CountSQL() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("select query has no table")
	}

	var sql strings.Builder
	sql.WriteString("SELECT COUNT(*) FROM ")
	sql.WriteString(q.table)

	whereSQL, args, err := q.whereSQL()
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		sql.WriteString(" ")
		sql.WriteString(whereSQL)
	}

	return sql.String(), args, nil
}
