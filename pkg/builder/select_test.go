package builder

import (
	"reflect"
	"testing"
)

func TestSelectQuery_ToSQL(t *testing.T) {
	tests := []struct {
		name       string
		setupQuery func() *SelectQuery
		wantSQL    string
		wantArgs   []interface{}
		wantErr    bool
	}{
		{
			name: "simple select all",
			setupQuery: func() *SelectQuery {
				return Select("topics")
			},
			wantSQL: "SELECT * FROM topics",
		},
		{
			name: "select specific columns",
			setupQuery: func() *SelectQuery {
				return Select("users").Columns("username", "name")
			},
			wantSQL: "SELECT username, name FROM users",
		},
		{
			name: "select with WHERE",
			setupQuery: func() *SelectQuery {
				return Select("topics").Where(Eq("slug", "cats"))
			},
			wantSQL:  "SELECT * FROM topics WHERE slug = $1",
			wantArgs: []interface{}{"cats"},
		},
		{
			name: "select with multiple WHERE",
			setupQuery: func() *SelectQuery {
				return Select("comments").
					Where(Eq("article_id", 1)).
					Where(Eq("author", "lurker"))
			},
			wantSQL:  "SELECT * FROM comments WHERE article_id = $1 AND author = $2",
			wantArgs: []interface{}{1, "lurker"},
		},
		{
			name: "select with ORDER BY",
			setupQuery: func() *SelectQuery {
				return Select("comments").OrderByDesc("created_at").OrderByAsc("comment_id")
			},
			wantSQL: "SELECT * FROM comments ORDER BY created_at DESC, comment_id ASC",
		},
		{
			name: "limit and offset are parameters after WHERE",
			setupQuery: func() *SelectQuery {
				return Select("comments").
					Where(Eq("article_id", 3)).
					OrderByDesc("created_at").
					Limit(10).
					Offset(20)
			},
			wantSQL:  "SELECT * FROM comments WHERE article_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			wantArgs: []interface{}{3, 10, 20},
		},
		{
			name: "join with group by",
			setupQuery: func() *SelectQuery {
				return Select("articles").
					Columns("articles.article_id", "COUNT(comments.comment_id) AS comment_count").
					LeftJoin("comments", "comments.article_id = articles.article_id").
					GroupBy("articles.article_id")
			},
			wantSQL: "SELECT articles.article_id, COUNT(comments.comment_id) AS comment_count FROM articles " +
				"LEFT JOIN comments ON comments.article_id = articles.article_id GROUP BY articles.article_id",
		},
		{
			name: "missing table",
			setupQuery: func() *SelectQuery {
				return Select("")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.setupQuery().ToSQL()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToSQL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if sql != tt.wantSQL {
				t.Errorf("ToSQL() sql = %v, want %v", sql, tt.wantSQL)
			}

			if len(args) != len(tt.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs)) {
				t.Errorf("ToSQL() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestSelectQuery_CountSQL(t *testing.T) {
	q := Select("articles").
		Columns("articles.article_id").
		LeftJoin("comments", "comments.article_id = articles.article_id").
		Where(Eq("articles.topic", "mitch")).
		And(AnyILike("%sun%", "articles.title", "articles.body")).
		GroupBy("articles.article_id").
		OrderByDesc("articles.created_at").
		Limit(5).
		Offset(5)

	pageSQL, pageArgs, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}
	countSQL, countArgs, err := q.CountSQL()
	if err != nil {
		t.Fatalf("CountSQL() error = %v", err)
	}

	wantCount := "SELECT COUNT(*) FROM articles WHERE articles.topic = $1 AND (articles.title ILIKE $2 OR articles.body ILIKE $3)"
	if countSQL != wantCount {
		t.Errorf("CountSQL() sql = %v, want %v", countSQL, wantCount)
	}

	// The count shares the page query's WHERE arguments, positions included.
	if !reflect.DeepEqual(countArgs, pageArgs[:len(countArgs)]) {
		t.Errorf("count args %v are not a prefix of page args %v", countArgs, pageArgs)
	}
	if len(pageArgs) != len(countArgs)+2 {
		t.Errorf("page args = %v, want WHERE args plus limit and offset", pageArgs)
	}
	if want := " LIMIT $4 OFFSET $5"; pageSQL[len(pageSQL)-len(want):] != want {
		t.Errorf("page SQL should end with %q, got %s", want, pageSQL)
	}
}
