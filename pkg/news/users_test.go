package news

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/runtime/runtimetest"
)

func TestUsers(t *testing.T) {
	users := map[string][]interface{}{
		"butter_bridge": {"butter_bridge", "jonny", "https://avatar/1"},
		"lurker":        {"lurker", "do_nothing", "https://avatar/2"},
	}
	store := runtimetest.New(func(sql string, args []interface{}) (runtimetest.Result, error) {
		if len(args) == 0 {
			return runtimetest.Result{Rows: [][]interface{}{users["butter_bridge"], users["lurker"]}}, nil
		}
		if row, ok := users[args[0].(string)]; ok {
			return runtimetest.Result{Rows: [][]interface{}{row}}, nil
		}
		return runtimetest.Result{}, nil
	})
	svc := NewService(store, nil)
	ctx := context.Background()

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	user, err := svc.GetUser(ctx, "lurker")
	require.NoError(t, err)
	assert.Equal(t, User{Username: "lurker", Name: "do_nothing", AvatarURL: "https://avatar/2"}, user)

	_, err = svc.GetUser(ctx, "ghost")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
