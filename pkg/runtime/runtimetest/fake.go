// Package runtimetest provides an in-memory runtime.Querier for tests.
package runtimetest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/marshallshelly/pebble-news/pkg/runtime"
)

// Result is the scripted outcome of one statement.
type Result struct {
	Rows     [][]interface{}
	Affected int64
}

// Handler scripts the store: it receives every statement with its arguments.
type Handler func(sql string, args []interface{}) (Result, error)

// Call records one statement sent to the fake.
type Call struct {
	SQL  string
	Args []interface{}
}

// Querier is a runtime.Querier answering from a Handler.
type Querier struct {
	mu      sync.Mutex
	handler Handler
	calls   []Call
}

var _ runtime.Querier = (*Querier)(nil)

// New creates a fake store backed by handler.
func New(handler Handler) *Querier {
	return &Querier{handler: handler}
}

// Calls returns the statements received so far, in arrival order.
func (q *Querier) Calls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Call, len(q.calls))
	copy(out, q.calls)
	return out
}

func (q *Querier) run(ctx context.Context, sql string, args []interface{}) (Result, error) {
	q.mu.Lock()
	q.calls = append(q.calls, Call{SQL: sql, Args: args})
	q.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return q.handler(sql, args)
}

// Query implements runtime.Querier.
func (q *Querier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	res, err := q.run(ctx, sql, args)
	if err != nil {
		return nil, &runtime.QueryError{Query: sql, Err: err}
	}
	return &rows{data: res.Rows, pos: -1}, nil
}

// QueryRow implements runtime.Querier.
func (q *Querier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	res, err := q.run(ctx, sql, args)
	return &row{data: res.Rows, err: err, sql: sql}
}

// Exec implements runtime.Querier.
func (q *Querier) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	res, err := q.run(ctx, sql, args)
	if err != nil {
		return 0, &runtime.QueryError{Query: sql, Err: err}
	}
	return res.Affected, nil
}

type row struct {
	data [][]interface{}
	err  error
	sql  string
}

func (r *row) Scan(dest ...any) error {
	if r.err != nil {
		return &runtime.QueryError{Query: r.sql, Err: r.err}
	}
	if len(r.data) == 0 {
		return &runtime.QueryError{Query: r.sql, Err: pgx.ErrNoRows}
	}
	return scan(r.data[0], dest)
}

type rows struct {
	data [][]interface{}
	pos  int
	err  error
}

func (r *rows) Close()                                       {}
func (r *rows) Err() error                                   { return r.err }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

func (r *rows) Next() bool {
	if r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return fmt.Errorf("scan called without a current row")
	}
	if err := scan(r.data[r.pos], dest); err != nil {
		r.err = err
		return err
	}
	return nil
}

func (r *rows) Values() ([]any, error) {
	if r.pos < 0 || r.pos >= len(r.data) {
		return nil, fmt.Errorf("values called without a current row")
	}
	return r.data[r.pos], nil
}

// scan assigns src values to dest pointers, converting between numeric kinds
// and wrapping values for pointer destinations.
func scan(src []interface{}, dest []any) error {
	if len(src) != len(dest) {
		return fmt.Errorf("row has %d values, scan wants %d", len(src), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Ptr || target.IsNil() {
			return fmt.Errorf("scan destination %d is not a pointer", i)
		}
		if err := assign(target.Elem(), src[i]); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dst reflect.Value, v interface{}) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	val := reflect.ValueOf(v)
	switch {
	case val.Type().AssignableTo(dst.Type()):
		dst.Set(val)
	case dst.Kind() == reflect.Ptr:
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), v); err != nil {
			return err
		}
		dst.Set(p)
	case val.Type().ConvertibleTo(dst.Type()) && dst.Kind() != reflect.String:
		dst.Set(val.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot scan %T into %s", v, dst.Type())
	}
	return nil
}
