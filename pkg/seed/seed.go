// Package seed loads the bundled news datasets into an empty or existing
// database.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-news/pkg/runtime"
)

//go:embed data
var data embed.FS

// Topic is a topic row as stored in a dataset file.
type Topic struct {
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImgURL      *string `json:"img_url"`
}

// User is a user row as stored in a dataset file.
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Article is an article row as stored in a dataset file. CreatedAt is
// milliseconds since the Unix epoch.
type Article struct {
	Title         string `json:"title"`
	Topic         string `json:"topic"`
	Author        string `json:"author"`
	Body          string `json:"body"`
	CreatedAt     int64  `json:"created_at"`
	Votes         int    `json:"votes"`
	ArticleImgURL string `json:"article_img_url"`
}

// Comment is a comment row as stored in a dataset file. The parent article
// is referenced by title and resolved to an id while seeding.
type Comment struct {
	ArticleTitle string `json:"article_title"`
	Body         string `json:"body"`
	Votes        int    `json:"votes"`
	Author       string `json:"author"`
	CreatedAt    int64  `json:"created_at"`
}

// Dataset is a complete set of rows for the four news tables.
type Dataset struct {
	Name     string
	Topics   []Topic
	Users    []User
	Articles []Article
	Comments []Comment
}

// Summary reports how many rows each table received.
type Summary struct {
	Topics   int64
	Users    int64
	Articles int64
	Comments int64
}

// Names lists the bundled datasets.
func Names() []string {
	entries, err := fs.ReadDir(data, "data")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Load reads the named bundled dataset.
func Load(name string) (*Dataset, error) {
	dir := path.Join("data", name)
	if _, err := fs.Stat(data, dir); err != nil {
		return nil, fmt.Errorf("unknown dataset %q (available: %v)", name, Names())
	}

	ds := &Dataset{Name: name}
	files := []struct {
		file string
		dest interface{}
	}{
		{"topics.json", &ds.Topics},
		{"users.json", &ds.Users},
		{"articles.json", &ds.Articles},
		{"comments.json", &ds.Comments},
	}
	for _, f := range files {
		raw, err := fs.ReadFile(data, path.Join(dir, f.file))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s/%s: %w", name, f.file, err)
		}
		if err := json.Unmarshal(raw, f.dest); err != nil {
			return nil, fmt.Errorf("failed to parse %s/%s: %w", name, f.file, err)
		}
	}
	return ds, nil
}

// Run replaces the contents of the news tables with ds inside a single
// transaction. Serial ids restart at 1, so article ids follow the order of
// ds.Articles.
func Run(ctx context.Context, db runtime.Beginner, ds *Dataset, log logrus.FieldLogger) (Summary, error) {
	var summary Summary

	err := runtime.WithTx(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}

		var err error
		summary.Topics, err = tx.CopyFrom(ctx, pgx.Identifier{"topics"},
			[]string{"slug", "description", "img_url"}, pgx.CopyFromRows(topicRows(ds.Topics)))
		if err != nil {
			return fmt.Errorf("failed to copy topics: %w", err)
		}

		summary.Users, err = tx.CopyFrom(ctx, pgx.Identifier{"users"},
			[]string{"username", "name", "avatar_url"}, pgx.CopyFromRows(userRows(ds.Users)))
		if err != nil {
			return fmt.Errorf("failed to copy users: %w", err)
		}

		ids, err := insertArticles(ctx, tx, ds.Articles)
		if err != nil {
			return err
		}
		summary.Articles = int64(len(ds.Articles))

		rows, err := commentRows(ds.Comments, ids)
		if err != nil {
			return err
		}
		summary.Comments, err = tx.CopyFrom(ctx, pgx.Identifier{"comments"},
			[]string{"article_id", "body", "votes", "author", "created_at"}, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"dataset":  ds.Name,
			"topics":   summary.Topics,
			"users":    summary.Users,
			"articles": summary.Articles,
			"comments": summary.Comments,
		}).Info("seeded database")
	}
	return summary, nil
}

// insertArticles queues one INSERT ... RETURNING per article in a batch and
// maps each title to the id it was given.
func insertArticles(ctx context.Context, tx pgx.Tx, articles []Article) (map[string]int, error) {
	batch := &pgx.Batch{}
	for _, a := range articles {
		batch.Queue(
			`INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING article_id, title`,
			a.Title, a.Topic, a.Author, a.Body, timestamp(a.CreatedAt), a.Votes, a.ArticleImgURL,
		)
	}

	results := tx.SendBatch(ctx, batch)
	ids := make(map[string]int, len(articles))
	for range articles {
		var (
			id    int
			title string
		)
		if err := results.QueryRow().Scan(&id, &title); err != nil {
			_ = results.Close()
			return nil, fmt.Errorf("failed to insert article: %w", err)
		}
		if _, dup := ids[title]; !dup {
			ids[title] = id
		}
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to insert articles: %w", err)
	}
	return ids, nil
}

func topicRows(topics []Topic) [][]interface{} {
	rows := make([][]interface{}, len(topics))
	for i, t := range topics {
		rows[i] = []interface{}{t.Slug, t.Description, t.ImgURL}
	}
	return rows
}

func userRows(users []User) [][]interface{} {
	rows := make([][]interface{}, len(users))
	for i, u := range users {
		rows[i] = []interface{}{u.Username, u.Name, u.AvatarURL}
	}
	return rows
}

// commentRows resolves each comment's article title through ids.
func commentRows(comments []Comment, ids map[string]int) ([][]interface{}, error) {
	rows := make([][]interface{}, len(comments))
	for i, c := range comments {
		id, ok := ids[c.ArticleTitle]
		if !ok {
			return nil, fmt.Errorf("comment %d references unknown article %q", i, c.ArticleTitle)
		}
		rows[i] = []interface{}{id, c.Body, c.Votes, c.Author, timestamp(c.CreatedAt)}
	}
	return rows, nil
}

// timestamp converts epoch milliseconds to the UTC time stored in the
// TIMESTAMP columns.
func timestamp(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
