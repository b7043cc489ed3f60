package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-news/pkg/news"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

type fakeLister struct {
	total  int64
	topics []news.Topic
	err    error
	calls  []validate.ArticleListParams
}

func (f *fakeLister) ListArticles(_ context.Context, p validate.ArticleListParams) (news.ArticlePage, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return news.ArticlePage{}, f.err
	}
	return news.ArticlePage{
		Articles: []news.Article{{
			ArticleID: 1,
			Title:     "Living in the shadow of a great man",
			Topic:     "mitch",
			Author:    "butter_bridge",
			CreatedAt: time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC),
			Votes:     100,
		}},
		TotalCount: f.total,
	}, nil
}

func (f *fakeLister) ListTopics(context.Context) ([]news.Topic, error) {
	return f.topics, nil
}

func defaultParams() validate.ArticleListParams {
	return validate.ArticleListParams{
		Pagination: validate.Pagination{Limit: 10, Page: 1},
		SortBy:     validate.DefaultSortBy,
		Order:      validate.DefaultOrder,
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends a key, runs the resulting load and feeds its message back.
func press(t *testing.T, m BrowseModel, r rune) BrowseModel {
	t.Helper()
	updated, cmd := m.Update(key(r))
	m = updated.(BrowseModel)
	if cmd != nil {
		updated, _ = m.Update(cmd())
		m = updated.(BrowseModel)
	}
	return m
}

func loaded(t *testing.T, store *fakeLister) BrowseModel {
	t.Helper()
	m := NewBrowseModel(context.Background(), store, defaultParams())
	updated, _ := m.Update(m.loadTopics()())
	m = updated.(BrowseModel)
	updated, _ = m.Update(m.loadPage()())
	return updated.(BrowseModel)
}

func TestBrowseModel_FirstPage(t *testing.T) {
	store := &fakeLister{total: 13, topics: []news.Topic{{Slug: "mitch"}, {Slug: "cats"}}}
	m := loaded(t, store)

	assert.False(t, m.loading)
	assert.Equal(t, int64(13), m.total)
	assert.Equal(t, 2, m.pages())
	assert.Equal(t, []string{"", "mitch", "cats"}, m.topics)
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "#1 Living in the shadow of a great man", m.list.Items()[0].(ArticleItem).Title())
	assert.Contains(t, m.View(), "page 1/2")
}

func TestBrowseModel_Paging(t *testing.T) {
	store := &fakeLister{total: 13}
	m := loaded(t, store)

	m = press(t, m, 'n')
	assert.Equal(t, 2, m.params.Page)

	// Last page: n is a no-op.
	calls := len(store.calls)
	m = press(t, m, 'n')
	assert.Equal(t, 2, m.params.Page)
	assert.Len(t, store.calls, calls)

	m = press(t, m, 'p')
	assert.Equal(t, 1, m.params.Page)

	m = press(t, m, 'p')
	assert.Equal(t, 1, m.params.Page)
}

func TestBrowseModel_SortOrderTopic(t *testing.T) {
	store := &fakeLister{total: 30, topics: []news.Topic{{Slug: "mitch"}}}
	m := loaded(t, store)
	m = press(t, m, 'n')
	require.Equal(t, 2, m.params.Page)

	m = press(t, m, 's')
	assert.Equal(t, "votes", m.params.SortBy)
	assert.Equal(t, 1, m.params.Page, "changing the sort returns to the first page")

	m = press(t, m, 'o')
	assert.Equal(t, "ASC", m.params.Order)
	m = press(t, m, 'o')
	assert.Equal(t, "DESC", m.params.Order)

	m = press(t, m, 't')
	assert.Equal(t, "mitch", m.params.Topic)
	m = press(t, m, 't')
	assert.Equal(t, "", m.params.Topic)

	last := store.calls[len(store.calls)-1]
	assert.Equal(t, m.params, last)
}

func TestBrowseModel_IgnoresStalePage(t *testing.T) {
	store := &fakeLister{total: 13}
	m := loaded(t, store)

	stale := m.loadPage()
	updated, _ := m.Update(key('o'))
	m = updated.(BrowseModel)

	updated, _ = m.Update(stale())
	m = updated.(BrowseModel)
	assert.True(t, m.loading, "response for the previous order must not land")
}

func TestBrowseModel_Error(t *testing.T) {
	store := &fakeLister{err: errors.New("connection refused")}
	m := NewBrowseModel(context.Background(), store, defaultParams())

	updated, _ := m.Update(m.loadPage()())
	m = updated.(BrowseModel)

	assert.False(t, m.loading)
	assert.EqualError(t, m.err, "connection refused")
	assert.Contains(t, m.View(), "connection refused")
}

func TestNext(t *testing.T) {
	values := []string{"a", "b", "c"}
	assert.Equal(t, "b", next(values, "a"))
	assert.Equal(t, "a", next(values, "c"))
	assert.Equal(t, "a", next(values, "zzz"))
	assert.Equal(t, "x", next(nil, "x"))
}

func TestBrowseModel_Quit(t *testing.T) {
	m := NewBrowseModel(context.Background(), &fakeLister{}, defaultParams())
	_, cmd := m.Update(key('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
