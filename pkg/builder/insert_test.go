package builder

import (
	"reflect"
	"testing"
)

func TestInsertQuery_ToSQL(t *testing.T) {
	sql, args, err := Insert("comments").
		Value("article_id", 1).
		Value("author", "butter_bridge").
		Value("body", "first!").
		Returning("comment_id", "created_at").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	want := "INSERT INTO comments (article_id, author, body) VALUES ($1, $2, $3) RETURNING comment_id, created_at"
	if sql != want {
		t.Errorf("ToSQL() sql = %v, want %v", sql, want)
	}
	if !reflect.DeepEqual(args, []interface{}{1, "butter_bridge", "first!"}) {
		t.Errorf("ToSQL() args = %v", args)
	}
}

func TestInsertQuery_NoValues(t *testing.T) {
	if _, _, err := Insert("topics").ToSQL(); err == nil {
		t.Error("expected error for insert without values")
	}
}
