// Package tui holds the interactive terminal views of the pebble-news CLI.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marshallshelly/pebble-news/pkg/news"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

// Lister is the part of news.Service the browser reads from.
type Lister interface {
	ListArticles(ctx context.Context, p validate.ArticleListParams) (news.ArticlePage, error)
	ListTopics(ctx context.Context) ([]news.Topic, error)
}

// BrowseModel is the Bubbletea model paging through article listings.
type BrowseModel struct {
	ctx     context.Context
	store   Lister
	params  validate.ArticleListParams
	topics  []string // "" (all topics) first
	list    list.Model
	total   int64
	loading bool
	err     error
	width   int
	height  int
}

// Messages
type topicsLoadedMsg struct {
	topics []string
}

type pageLoadedMsg struct {
	params validate.ArticleListParams
	page   news.ArticlePage
}

type errorMsg struct {
	err error
}

// NewBrowseModel creates a browser whose first query uses params.
func NewBrowseModel(ctx context.Context, store Lister, params validate.ArticleListParams) BrowseModel {
	l := list.New(nil, ArticleItemDelegate{}, 0, 0)
	l.Title = "Articles"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	return BrowseModel{
		ctx:     ctx,
		store:   store,
		params:  params,
		topics:  []string{""},
		list:    l,
		loading: true,
	}
}

// Init loads the topic filter choices and the first page.
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.loadTopics(), m.loadPage())
}

func (m BrowseModel) loadTopics() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		topics, err := store.ListTopics(ctx)
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to load topics: %w", err)}
		}
		slugs := make([]string, 0, len(topics)+1)
		slugs = append(slugs, "")
		for _, t := range topics {
			slugs = append(slugs, t.Slug)
		}
		return topicsLoadedMsg{topics: slugs}
	}
}

func (m BrowseModel) loadPage() tea.Cmd {
	ctx, store, params := m.ctx, m.store, m.params
	return func() tea.Msg {
		page, err := store.ListArticles(ctx, params)
		if err != nil {
			return errorMsg{err: err}
		}
		return pageLoadedMsg{params: params, page: page}
	}
}

// pages is the number of pages the current filter spans, at least one.
func (m BrowseModel) pages() int {
	if m.params.Limit <= 0 || m.total == 0 {
		return 1
	}
	return int((m.total + int64(m.params.Limit) - 1) / int64(m.params.Limit))
}

// requery reloads from the first page after a sort or filter change.
func (m BrowseModel) requery() (BrowseModel, tea.Cmd) {
	m.params.Page = 1
	m.loading = true
	m.err = nil
	return m, m.loadPage()
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-2, msg.Height-6)
		return m, nil

	case topicsLoadedMsg:
		m.topics = msg.topics
		return m, nil

	case pageLoadedMsg:
		// A slow response for parameters the user has since moved away from.
		if msg.params != m.params {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.total = msg.page.TotalCount
		items := make([]list.Item, len(msg.page.Articles))
		for i, a := range msg.page.Articles {
			items[i] = ArticleItem{Article: a}
		}
		return m, m.list.SetItems(items)

	case errorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "n":
			if m.params.Page >= m.pages() {
				return m, nil
			}
			m.params.Page++
			m.loading = true
			return m, m.loadPage()

		case "p":
			if m.params.Page <= 1 {
				return m, nil
			}
			m.params.Page--
			m.loading = true
			return m, m.loadPage()

		case "s":
			m.params.SortBy = next(validate.SortColumns, m.params.SortBy)
			return m.requery()

		case "o":
			if m.params.Order == "ASC" {
				m.params.Order = "DESC"
			} else {
				m.params.Order = "ASC"
			}
			return m.requery()

		case "t":
			m.params.Topic = next(m.topics, m.params.Topic)
			return m.requery()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// next returns the value after current in values, wrapping around. A value
// not in the list moves to the first one.
func next(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func (m BrowseModel) statusLine() string {
	topic := m.params.Topic
	if topic == "" {
		topic = "all"
	}
	parts := []string{
		fmt.Sprintf("page %d/%d", m.params.Page, m.pages()),
		fmt.Sprintf("%d articles", m.total),
		"sort " + accentStyle.Render(m.params.SortBy+" "+m.params.Order),
		"topic " + accentStyle.Render(topic),
	}
	if m.params.Search != "" {
		parts = append(parts, "search "+accentStyle.Render(fmt.Sprintf("%q", m.params.Search)))
	}
	if m.loading {
		parts = append(parts, "loading…")
	}
	return strings.Join(parts, " • ")
}

// View renders the UI
func (m BrowseModel) View() string {
	sections := []string{m.list.View(), statusBarStyle.Render(m.statusLine())}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(m.err.Error()))
	}
	sections = append(sections, helpStyle.Render(
		FormatKey("↑/↓", "move")+" • "+
			FormatKey("n/p", "page")+" • "+
			FormatKey("s", "sort")+" • "+
			FormatKey("o", "order")+" • "+
			FormatKey("t", "topic")+" • "+
			FormatKey("q", "quit"),
	))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RunBrowseUI starts the interactive article browser.
func RunBrowseUI(ctx context.Context, store Lister, params validate.ArticleListParams) error {
	p := tea.NewProgram(NewBrowseModel(ctx, store, params), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
