package news

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marshallshelly/pebble-news/pkg/builder"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

func scanTopic(row pgx.CollectableRow) (Topic, error) {
	var t Topic
	err := row.Scan(&t.Slug, &t.Description, &t.ImgURL)
	return t, err
}

// ListTopics returns every topic ordered by slug.
func (s *Service) ListTopics(ctx context.Context) (topics []Topic, err error) {
	const op = "list_topics"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Select("topics").Columns("slug", "description", "img_url").OrderByAsc("slug")
	sql, args, err := s.render(op, q)
	if err != nil {
		return nil, s.fail(op, err)
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	topics, err = pgx.CollectRows(rows, scanTopic)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return topics, nil
}

// AddTopic creates a topic. A slug already in use fails with Conflict(Topic).
func (s *Service) AddTopic(ctx context.Context, in validate.NewTopic) (topic Topic, err error) {
	const op = "add_topic"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Insert("topics").
		Value("slug", in.Slug).
		Value("description", in.Description).
		Value("img_url", in.ImgURL).
		Returning("slug", "description", "img_url")

	sql, args, err := s.render(op, q)
	if err != nil {
		return Topic{}, s.fail(op, err)
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return Topic{}, s.fail(op, err)
	}
	topic, err = pgx.CollectExactlyOneRow(rows, scanTopic)
	if err != nil {
		return Topic{}, s.fail(op, err)
	}
	return topic, nil
}
