package news

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/runtime/runtimetest"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

func commentRow(id, articleID int, body string) []interface{} {
	return []interface{}{id, articleID, body, 0, "butter_bridge", created}
}

func TestListArticleComments(t *testing.T) {
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		switch {
		case strings.HasPrefix(sql, "SELECT article_id FROM articles"):
			if args[0] == 404 {
				return runtimetest.Result{}, nil
			}
			return runtimetest.Result{Rows: [][]interface{}{{args[0]}}}, nil
		case strings.HasPrefix(sql, "SELECT comment_id"):
			if args[0] == 1 {
				return runtimetest.Result{Rows: [][]interface{}{commentRow(5, 1, "b"), commentRow(2, 1, "a")}}, nil
			}
			return runtimetest.Result{}, nil
		}
		return runtimetest.Result{}, errors.New("unexpected statement")
	})
	svc := NewService(store, nil)
	ctx := context.Background()
	page := validate.Pagination{Limit: 10, Page: 1}

	comments, err := svc.ListArticleComments(ctx, 1, page)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 5, comments[0].CommentID)

	comments, err = svc.ListArticleComments(ctx, 2, page)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	_, err = svc.ListArticleComments(ctx, 404, page)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.NotFound, appErr.Kind)
	assert.Equal(t, apperr.Article, appErr.Resource)
}

func TestListArticleComments_SQL(t *testing.T) {
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		if strings.HasPrefix(sql, "SELECT article_id") {
			return runtimetest.Result{Rows: [][]interface{}{{1}}}, nil
		}
		return runtimetest.Result{}, nil
	})
	_, err := NewService(store, nil).ListArticleComments(context.Background(), 1, validate.Pagination{Limit: 5, Page: 3})
	require.NoError(t, err)

	var listCall runtimetest.Call
	for _, c := range store.Calls() {
		if strings.HasPrefix(c.SQL, "SELECT comment_id") {
			listCall = c
		}
	}
	assert.Equal(t, "SELECT comment_id, article_id, body, votes, author, created_at FROM comments "+
		"WHERE article_id = $1 ORDER BY created_at DESC, comment_id DESC LIMIT $2 OFFSET $3", listCall.SQL)
	assert.Equal(t, []interface{}{1, 5, 10}, listCall.Args)
}

func TestAddComment(t *testing.T) {
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		switch args[1] {
		case "nobody":
			return runtimetest.Result{}, &pgconn.PgError{Code: "23503", ConstraintName: "comments_author_fkey"}
		}
		if args[0] == 999 {
			return runtimetest.Result{}, &pgconn.PgError{Code: "23503", ConstraintName: "comments_article_id_fkey"}
		}
		return runtimetest.Result{Rows: [][]interface{}{{19, args[0], args[2], 0, args[1], created}}}, nil
	})
	svc := NewService(store, nil)
	ctx := context.Background()

	comment, err := svc.AddComment(ctx, 2, validate.NewComment{Username: "lurker", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, Comment{CommentID: 19, ArticleID: 2, Body: "b", Votes: 0, Author: "lurker", CreatedAt: created}, comment)
	assert.Equal(t, "INSERT INTO comments (article_id, author, body) VALUES ($1, $2, $3) "+
		"RETURNING comment_id, article_id, body, votes, author, created_at", store.Calls()[0].SQL)

	tests := []struct {
		name      string
		articleID int
		username  string
		resource  apperr.Resource
	}{
		{"unknown author", 2, "nobody", apperr.User},
		{"unknown article", 999, "lurker", apperr.Article},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddComment(ctx, tt.articleID, validate.NewComment{Username: tt.username, Body: "b"})
			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperr.NotFound, appErr.Kind)
			assert.Equal(t, tt.resource, appErr.Resource)
		})
	}
}

func TestIncrementCommentVotes(t *testing.T) {
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		if args[1] == 1 {
			return runtimetest.Result{Rows: [][]interface{}{{1, 9, "b", 16 + args[0].(int), "butter_bridge", created}}}, nil
		}
		return runtimetest.Result{}, nil
	})
	svc := NewService(store, nil)

	comment, err := svc.IncrementCommentVotes(context.Background(), 1, validate.VoteIncrement{Inc: 0})
	require.NoError(t, err)
	assert.Equal(t, 16, comment.Votes)
	assert.Equal(t, "UPDATE comments SET votes = votes + $1 WHERE comment_id = $2 "+
		"RETURNING comment_id, article_id, body, votes, author, created_at", store.Calls()[0].SQL)

	_, err = svc.IncrementCommentVotes(context.Background(), 2, validate.VoteIncrement{Inc: 1})
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.Comment, appErr.Resource)
}

func TestRemoveComment(t *testing.T) {
	deleted := map[int]bool{}
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		id := args[0].(int)
		exists := id <= 18 && !deleted[id]
		switch {
		case strings.HasPrefix(sql, "SELECT comment_id"):
			if !exists {
				return runtimetest.Result{}, nil
			}
			return runtimetest.Result{Rows: [][]interface{}{{id}}}, nil
		case strings.HasPrefix(sql, "DELETE FROM comments"):
			if !exists {
				return runtimetest.Result{}, nil
			}
			deleted[id] = true
			return runtimetest.Result{Affected: 1}, nil
		}
		return runtimetest.Result{}, errors.New("unexpected statement")
	})
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.RemoveComment(ctx, 1))

	err := svc.RemoveComment(ctx, 1)
	assert.True(t, apperr.Is(err, apperr.NotFound), "repeated delete reports NotFound")

	err = svc.RemoveComment(ctx, 1000)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.Comment, appErr.Resource)
}

func TestRemoveComment_LostRace(t *testing.T) {
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		if strings.HasPrefix(sql, "SELECT") {
			return runtimetest.Result{Rows: [][]interface{}{{args[0]}}}, nil
		}
		return runtimetest.Result{Affected: 0}, nil
	})
	err := NewService(store, nil).RemoveComment(context.Background(), 3)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
