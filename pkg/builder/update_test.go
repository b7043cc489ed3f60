package builder

import (
	"reflect"
	"testing"
)

func TestUpdateQuery_ToSQL(t *testing.T) {
	tests := []struct {
		name       string
		setupQuery func() *UpdateQuery
		wantSQL    string
		wantArgs   []interface{}
		wantErr    bool
	}{
		{
			name: "increment with RETURNING",
			setupQuery: func() *UpdateQuery {
				return Update("articles").
					Increment("votes", -3).
					Where(Eq("article_id", 1)).
					Returning("*")
			},
			wantSQL:  "UPDATE articles SET votes = votes + $1 WHERE article_id = $2 RETURNING *",
			wantArgs: []interface{}{-3, 1},
		},
		{
			name: "increments keep call order",
			setupQuery: func() *UpdateQuery {
				return Update("comments").
					Increment("votes", 2).
					Increment("comment_id", 0).
					Where(Eq("comment_id", 9))
			},
			wantSQL:  "UPDATE comments SET votes = votes + $1, comment_id = comment_id + $2 WHERE comment_id = $3",
			wantArgs: []interface{}{2, 0, 9},
		},
		{
			name: "no columns",
			setupQuery: func() *UpdateQuery {
				return Update("topics").Where(Eq("slug", "cats"))
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
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("ToSQL() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}
