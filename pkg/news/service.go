// Package news implements the article, comment, topic and user operations of
// the news API on top of a PostgreSQL store.
package news

import (
	"context"
	"errors"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/builder"
	"github.com/marshallshelly/pebble-news/pkg/runtime"
)

// DefaultArticleImgURL is stored for articles created without an image.
const DefaultArticleImgURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// Service runs news operations against an injected store. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	db  runtime.Querier
	log logrus.FieldLogger
}

// NewService creates a Service. A nil logger discards output.
func NewService(db runtime.Querier, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{db: db, log: log}
}

// render builds q and logs the statement at debug level.
func (s *Service) render(op string, q builder.Query) (string, []interface{}, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return "", nil, &apperr.Error{Kind: apperr.Unclassified, Err: err}
	}
	s.log.WithFields(logrus.Fields{"op": op, "sql": sql, "args": args}).Debug("query")
	return sql, args, nil
}

// fail classifies err and logs it. Client errors log at debug, the rest at
// error level with the underlying cause.
func (s *Service) fail(op string, err error) error {
	err = apperr.Classify(err)
	entry := s.log.WithField("op", op).WithError(err)
	if apperr.KindOf(err) == apperr.Unclassified {
		entry.Error("store operation failed")
	} else {
		entry.Debug("request rejected")
	}
	return err
}

// notFound turns pgx.ErrNoRows into NotFound(resource).
func notFound(err error, resource apperr.Resource) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &apperr.Error{Kind: apperr.NotFound, Resource: resource, Err: err}
	}
	return err
}

// firstError picks the error to report from two concurrently run store calls,
// preferring the first. A cancellation that the second call's failure
// provoked in the first is not reported over the real cause.
func firstError(ctx context.Context, first, second error) error {
	if first != nil && !(errors.Is(first, context.Canceled) && ctx.Err() == nil && second != nil) {
		return first
	}
	return second
}

// exists runs q and reports NotFound(resource) when it returns no row.
func (s *Service) exists(ctx context.Context, op string, q *builder.SelectQuery, resource apperr.Resource) error {
	sql, args, err := s.render(op, q)
	if err != nil {
		return err
	}
	var key interface{}
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&key); err != nil {
		return notFound(err, resource)
	}
	return nil
}
