// Package apperr defines the closed set of failure kinds the news API reports
// and classifies store errors into them.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind identifies a class of failure. Unclassified is the zero value; the
// rest follow detection priority when one request could produce several.
type Kind int

const (
	// Unclassified is any failure not recognised below.
	Unclassified Kind = iota
	// MissingField means a required body field was absent or empty.
	MissingField
	// InvalidFormat means a value had the wrong type or shape.
	InvalidFormat
	// InvalidColumn means sort_by named a column outside the whitelist.
	InvalidColumn
	// InvalidOrder means order was neither asc nor desc.
	InvalidOrder
	// InvalidFilterValue means a filter named a value that does not exist.
	InvalidFilterValue
	// NotFound means the addressed resource or a referenced one is missing.
	NotFound
	// MalformedIdentifier means the store rejected an identifier's text form.
	MalformedIdentifier
	// Conflict means a unique key is already taken.
	Conflict
)

var kindNames = map[Kind]string{
	Unclassified:        "unclassified",
	MissingField:        "missing_field",
	InvalidFormat:       "invalid_format",
	InvalidColumn:       "invalid_column",
	InvalidOrder:        "invalid_order",
	InvalidFilterValue:  "invalid_filter_value",
	NotFound:            "not_found",
	MalformedIdentifier: "malformed_identifier",
	Conflict:            "conflict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Resource names the entity a NotFound or Conflict refers to.
type Resource string

const (
	Article Resource = "article"
	Comment Resource = "comment"
	User    Resource = "user"
	Topic   Resource = "topic"
)

// PostgreSQL SQLSTATE codes interpreted by Classify.
const (
	codeInvalidTextRepresentation = "22P02"
	codeNumericValueOutOfRange    = "22003"
	codeForeignKeyViolation       = "23503"
	codeUniqueViolation           = "23505"
)

// Error is a classified failure.
type Error struct {
	Kind     Kind
	Resource Resource
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Resource != "" {
		b.WriteString(" (")
		b.WriteString(string(e.Resource))
		b.WriteString(")")
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Missing reports a required field that was absent.
func Missing(field string) *Error {
	return &Error{Kind: MissingField, Field: field}
}

// Format reports a field holding a value of the wrong type.
func Format(field string, err error) *Error {
	return &Error{Kind: InvalidFormat, Field: field, Err: err}
}

// NotFoundErr reports a missing resource.
func NotFoundErr(resource Resource) *Error {
	return &Error{Kind: NotFound, Resource: resource}
}

// KindOf returns the kind of err, or Unclassified if err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unclassified
}

// Is reports whether err was classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Classify maps a store failure onto a Kind. Errors that are already
// classified are returned unchanged; unrecognised ones become Unclassified
// with the original error preserved.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return &Error{Kind: Unclassified, Err: err}
	}

	switch pgErr.Code {
	case codeInvalidTextRepresentation, codeNumericValueOutOfRange:
		return &Error{Kind: MalformedIdentifier, Err: err}

	case codeForeignKeyViolation:
		if resource, ok := resourceFromConstraint(pgErr.ConstraintName); ok {
			return &Error{Kind: NotFound, Resource: resource, Err: err}
		}

	case codeUniqueViolation:
		resource, ok := resourceFromConstraint(pgErr.ConstraintName)
		if !ok {
			resource, ok = resourceFromTable(pgErr.TableName)
		}
		if ok {
			return &Error{Kind: Conflict, Resource: resource, Err: err}
		}
	}

	return &Error{Kind: Unclassified, Err: err}
}

// resourceFromConstraint picks the referenced entity from a constraint name
// such as "comments_author_fkey" or "articles_topic_fkey".
func resourceFromConstraint(name string) (Resource, bool) {
	switch {
	case strings.Contains(name, "author"):
		return User, true
	case strings.Contains(name, "topic"):
		return Topic, true
	case strings.Contains(name, "article_id"):
		return Article, true
	case strings.Contains(name, "username"):
		return User, true
	case strings.Contains(name, "comment_id"):
		return Comment, true
	}
	return "", false
}

func resourceFromTable(table string) (Resource, bool) {
	switch table {
	case "topics":
		return Topic, true
	case "users":
		return User, true
	case "articles":
		return Article, true
	case "comments":
		return Comment, true
	}
	return "", false
}
