package builder

import (
	"testing"
)

func TestDeleteQuery_ToSQL(t *testing.T) {
	tests := []struct {
		name       string
		setupQuery func() *DeleteQuery
		wantSQL    string
		wantArgLen int
		wantErr    bool
	}{
		{
			name: "delete with WHERE",
			setupQuery: func() *DeleteQuery {
				return Delete("comments").Where(Eq("comment_id", 1))
			},
			wantSQL:    "DELETE FROM comments WHERE comment_id = $1",
			wantArgLen: 1,
		},
		{
			name: "delete with multiple WHERE",
			setupQuery: func() *DeleteQuery {
				return Delete("comments").
					Where(Eq("article_id", 1)).
					Where(Eq("author", "lurker"))
			},
			wantSQL:    "DELETE FROM comments WHERE article_id = $1 AND author = $2",
			wantArgLen: 2,
		},
		{
			name: "delete without WHERE is refused",
			setupQuery: func() *DeleteQuery {
				return Delete("comments")
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
			if len(args) != tt.wantArgLen {
				t.Errorf("ToSQL() args length = %v, want %v", len(args), tt.wantArgLen)
			}
		})
	}
}
