package news

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/builder"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

// sortExpressions maps each sortable field to its SQL expression.
var sortExpressions = map[string]string{
	"article_id":      "articles.article_id",
	"title":           "articles.title",
	"topic":           "articles.topic",
	"author":          "articles.author",
	"created_at":      "articles.created_at",
	"votes":           "articles.votes",
	"article_img_url": "articles.article_img_url",
	"comment_count":   "comment_count",
}

// searchColumns are matched by a free-text search.
var searchColumns = []string{
	"articles.title",
	"articles.body",
	"articles.topic",
	"articles.author",
}

var articleListColumns = []string{
	"articles.article_id",
	"articles.title",
	"articles.topic",
	"articles.author",
	"articles.created_at",
	"articles.votes",
	"articles.article_img_url",
	"COUNT(comments.comment_id) AS comment_count",
}

var articleColumns = []string{
	"article_id",
	"title",
	"topic",
	"author",
	"body",
	"created_at",
	"votes",
	"article_img_url",
}

// articleListQuery builds the page query for p. Its CountSQL gives the size
// of the filtered collection.
func articleListQuery(p validate.ArticleListParams) (*builder.SelectQuery, error) {
	sortExpr, ok := sortExpressions[p.SortBy]
	if !ok {
		return nil, &apperr.Error{Kind: apperr.InvalidColumn, Field: "sort_by"}
	}
	var dir builder.OrderDirection
	switch p.Order {
	case "ASC":
		dir = builder.Asc
	case "DESC":
		dir = builder.Desc
	default:
		return nil, &apperr.Error{Kind: apperr.InvalidOrder, Field: "order"}
	}

	q := builder.Select("articles").
		Columns(articleListColumns...).
		LeftJoin("comments", "comments.article_id = articles.article_id")

	if p.Topic != "" {
		q.Where(builder.Eq("articles.topic", p.Topic))
	}
	if p.Search != "" {
		q.And(builder.AnyILike(builder.ContainsPattern(p.Search), searchColumns...))
	}

	q.GroupBy("articles.article_id").
		OrderBy(sortExpr, dir).
		OrderByAsc("articles.article_id").
		Limit(p.Limit).
		Offset(p.Offset())

	return q, nil
}

// ListArticles returns one page of articles matching p and the total number
// of matching articles. A topic filter naming an unknown topic is rejected
// with InvalidFilterValue.
func (s *Service) ListArticles(ctx context.Context, p validate.ArticleListParams) (page ArticlePage, err error) {
	const op = "list_articles"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if p.Topic != "" {
		if err := s.requireTopic(ctx, p.Topic); err != nil {
			return ArticlePage{}, s.fail(op, err)
		}
	}

	q, err := articleListQuery(p)
	if err != nil {
		return ArticlePage{}, s.fail(op, err)
	}
	pageSQL, pageArgs, err := s.render(op, q)
	if err != nil {
		return ArticlePage{}, s.fail(op, err)
	}
	countSQL, countArgs, err := q.CountSQL()
	if err != nil {
		return ArticlePage{}, s.fail(op, err)
	}

	var (
		articles        []Article
		total           int64
		pageErr, cntErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		articles, pageErr = s.queryArticles(gctx, pageSQL, pageArgs)
		return pageErr
	})
	g.Go(func() error {
		cntErr = s.db.QueryRow(gctx, countSQL, countArgs...).Scan(&total)
		return cntErr
	})
	_ = g.Wait()

	if err := firstError(ctx, pageErr, cntErr); err != nil {
		return ArticlePage{}, s.fail(op, err)
	}
	return ArticlePage{Articles: articles, TotalCount: total}, nil
}

// requireTopic fails with InvalidFilterValue when slug names no topic.
func (s *Service) requireTopic(ctx context.Context, slug string) error {
	q := builder.Select("topics").Columns("slug").Where(builder.Eq("slug", slug))
	err := s.exists(ctx, "topic_guard", q, apperr.Topic)
	if apperr.Is(err, apperr.NotFound) {
		return &apperr.Error{Kind: apperr.InvalidFilterValue, Field: "topic", Err: errors.Unwrap(err)}
	}
	return err
}

func (s *Service) queryArticles(ctx context.Context, sql string, args []interface{}) ([]Article, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Article, error) {
		var a Article
		err := row.Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt, &a.Votes, &a.ArticleImgURL, &a.CommentCount)
		return a, err
	})
}

func scanArticle(row pgx.Row, a *Article, withCount bool) error {
	dest := []any{&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt, &a.Votes, &a.ArticleImgURL}
	if withCount {
		dest = append(dest, &a.CommentCount)
	}
	return row.Scan(dest...)
}

// GetArticle returns the article with its body and comment count.
func (s *Service) GetArticle(ctx context.Context, id int) (article Article, err error) {
	const op = "get_article"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	cols := make([]string, 0, len(articleColumns)+1)
	for _, c := range articleColumns {
		cols = append(cols, "articles."+c)
	}
	cols = append(cols, "COUNT(comments.comment_id) AS comment_count")

	q := builder.Select("articles").
		Columns(cols...).
		LeftJoin("comments", "comments.article_id = articles.article_id").
		Where(builder.Eq("articles.article_id", id)).
		GroupBy("articles.article_id")

	sql, args, err := s.render(op, q)
	if err != nil {
		return Article{}, s.fail(op, err)
	}
	if err := scanArticle(s.db.QueryRow(ctx, sql, args...), &article, true); err != nil {
		return Article{}, s.fail(op, notFound(err, apperr.Article))
	}
	return article, nil
}

// commentCountColumn recomputes an article's comment count inside RETURNING.
const commentCountColumn = "(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.article_id) AS comment_count"

// IncrementArticleVotes adds inc to the article's votes and returns the
// updated article.
func (s *Service) IncrementArticleVotes(ctx context.Context, id int, inc validate.VoteIncrement) (article Article, err error) {
	const op = "increment_article_votes"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Update("articles").
		Increment("votes", inc.Inc).
		Where(builder.Eq("article_id", id)).
		Returning(append(articleColumns[:len(articleColumns):len(articleColumns)], commentCountColumn)...)

	sql, args, err := s.render(op, q)
	if err != nil {
		return Article{}, s.fail(op, err)
	}
	if err := scanArticle(s.db.QueryRow(ctx, sql, args...), &article, true); err != nil {
		return Article{}, s.fail(op, notFound(err, apperr.Article))
	}
	return article, nil
}

// AddArticle inserts a new article. Unknown author or topic fail with
// NotFound(User) or NotFound(Topic).
func (s *Service) AddArticle(ctx context.Context, in validate.NewArticle) (article Article, err error) {
	const op = "add_article"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	imgURL := DefaultArticleImgURL
	if in.ArticleImgURL != nil {
		imgURL = *in.ArticleImgURL
	}

	q := builder.Insert("articles").
		Value("author", in.Author).
		Value("title", in.Title).
		Value("body", in.Body).
		Value("topic", in.Topic).
		Value("article_img_url", imgURL).
		Returning(articleColumns...)

	sql, args, err := s.render(op, q)
	if err != nil {
		return Article{}, s.fail(op, err)
	}
	if err := scanArticle(s.db.QueryRow(ctx, sql, args...), &article, false); err != nil {
		return Article{}, s.fail(op, err)
	}
	return article, nil
}

// RemoveArticle deletes an article; its comments go with it.
func (s *Service) RemoveArticle(ctx context.Context, id int) (err error) {
	const op = "remove_article"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	lookup := builder.Select("articles").Columns("article_id").Where(builder.Eq("article_id", id))
	if err := s.exists(ctx, op, lookup, apperr.Article); err != nil {
		return s.fail(op, err)
	}
	return s.remove(ctx, op, builder.Delete("articles").Where(builder.Eq("article_id", id)), apperr.Article)
}

// remove runs a delete whose target was just looked up. Zero affected rows
// means a concurrent delete won and is reported as NotFound.
func (s *Service) remove(ctx context.Context, op string, q *builder.DeleteQuery, resource apperr.Resource) error {
	sql, args, err := s.render(op, q)
	if err != nil {
		return s.fail(op, err)
	}
	n, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return s.fail(op, err)
	}
	if n == 0 {
		return s.fail(op, apperr.NotFoundErr(resource))
	}
	return nil
}
