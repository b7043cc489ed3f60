package news

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/builder"
)

var userColumns = []string{"username", "name", "avatar_url"}

func scanUser(row pgx.CollectableRow) (User, error) {
	var u User
	err := row.Scan(&u.Username, &u.Name, &u.AvatarURL)
	return u, err
}

// ListUsers returns every user ordered by username.
func (s *Service) ListUsers(ctx context.Context) (users []User, err error) {
	const op = "list_users"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Select("users").Columns(userColumns...).OrderByAsc("username")
	sql, args, err := s.render(op, q)
	if err != nil {
		return nil, s.fail(op, err)
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	users, err = pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return users, nil
}

// GetUser returns one user by username.
func (s *Service) GetUser(ctx context.Context, username string) (user User, err error) {
	const op = "get_user"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q := builder.Select("users").Columns(userColumns...).Where(builder.Eq("username", username))
	sql, args, err := s.render(op, q)
	if err != nil {
		return User{}, s.fail(op, err)
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return User{}, s.fail(op, err)
	}
	user, err = pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return User{}, s.fail(op, notFound(err, apperr.User))
	}
	return user, nil
}
