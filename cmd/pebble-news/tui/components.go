package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marshallshelly/pebble-news/pkg/news"
)

// ArticleItem is an article row in the browse list.
type ArticleItem struct {
	Article news.Article
}

func (i ArticleItem) FilterValue() string { return i.Article.Title }

// Title renders the id and headline.
func (i ArticleItem) Title() string {
	return fmt.Sprintf("#%d %s", i.Article.ArticleID, i.Article.Title)
}

// Description renders the listing metadata.
func (i ArticleItem) Description() string {
	a := i.Article
	return fmt.Sprintf("%s • %s • %d votes • %d comments • %s",
		a.Topic, a.Author, a.Votes, a.CommentCount, a.CreatedAt.Format("2006-01-02 15:04"))
}

// ArticleItemDelegate renders ArticleItems on two lines.
type ArticleItemDelegate struct{}

func (d ArticleItemDelegate) Height() int                             { return 2 }
func (d ArticleItemDelegate) Spacing() int                            { return 1 }
func (d ArticleItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d ArticleItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ArticleItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + mutedStyle.Render(i.Description()))
	} else {
		s = unselectedItemStyle.Render(i.Title() + "\n" + mutedStyle.Render(i.Description()))
	}

	_, _ = fmt.Fprint(w, s)
}
