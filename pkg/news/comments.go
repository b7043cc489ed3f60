package news

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/builder"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

var commentColumns = []string{"comment_id", "article_id", "body", "votes", "author", "created_at"}

func scanComment(row pgx.CollectableRow) (Comment, error) {
	var c Comment
	err := row.Scan(&c.CommentID, &c.ArticleID, &c.Body, &c.Votes, &c.Author, &c.CreatedAt)
	return c, err
}

// ListArticleComments returns a page of the article's comments, newest first.
// An existing article without comments yields an empty list.
func (s *Service) ListArticleComments(ctx context.Context, articleID int, p validate.Pagination) (comments []Comment, err error) {
	const op = "list_article_comments"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	lookup := builder.Select("articles").Columns("article_id").Where(builder.Eq("article_id", articleID))
	q := builder.Select("comments").
		Columns(commentColumns...).
		Where(builder.Eq("article_id", articleID)).
		OrderByDesc("created_at").
		OrderByDesc("comment_id").
		Limit(p.Limit).
		Offset(p.Offset())

	sql, args, err := s.render(op, q)
	if err != nil {
		return nil, s.fail(op, err)
	}

	var existsErr, listErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		existsErr = s.exists(gctx, op, lookup, apperr.Article)
		return existsErr
	})
	g.Go(func() error {
		rows, err := s.db.Query(gctx, sql, args...)
		if err != nil {
			listErr = err
			return err
		}
		comments, listErr = pgx.CollectRows(rows, scanComment)
		return listErr
	})
	_ = g.Wait()

	if err := firstError(ctx, existsErr, listErr); err != nil {
		return nil, s.fail(op, err)
	}
	return comments, nil
}

// AddComment posts a comment on an article. Unknown articles and authors
// fail with NotFound(Article) and NotFound(User).
func (s *Service) AddComment(ctx context.Context, articleID int, in validate.NewComment) (comment Comment, err error) {
	const op = "add_comment"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Insert("comments").
		Value("article_id", articleID).
		Value("author", in.Username).
		Value("body", in.Body).
		Returning(commentColumns...)

	sql, args, err := s.render(op, q)
	if err != nil {
		return Comment{}, s.fail(op, err)
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return Comment{}, s.fail(op, err)
	}
	comment, err = pgx.CollectExactlyOneRow(rows, scanComment)
	if err != nil {
		return Comment{}, s.fail(op, err)
	}
	return comment, nil
}

// IncrementCommentVotes adds inc to the comment's votes.
func (s *Service) IncrementCommentVotes(ctx context.Context, id int, inc validate.VoteIncrement) (comment Comment, err error) {
	const op = "increment_comment_votes"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Update("comments").
		Increment("votes", inc.Inc).
		Where(builder.Eq("comment_id", id)).
		Returning(commentColumns...)

	sql, args, err := s.render(op, q)
	if err != nil {
		return Comment{}, s.fail(op, err)
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return Comment{}, s.fail(op, err)
	}
	comment, err = pgx.CollectExactlyOneRow(rows, scanComment)
	if err != nil {
		return Comment{}, s.fail(op, notFound(err, apperr.Comment))
	}
	return comment, nil
}

// RemoveComment deletes a comment.
func (s *Service) RemoveComment(ctx context.Context, id int) (err error) {
	const op = "remove_comment"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	lookup := builder.Select("comments").Columns("comment_id").Where(builder.Eq("comment_id", id))
	if err := s.exists(ctx, op, lookup, apperr.Comment); err != nil {
		return s.fail(op, err)
	}
	return s.remove(ctx, op, builder.Delete("comments").Where(builder.Eq("comment_id", id)), apperr.Comment)
}
