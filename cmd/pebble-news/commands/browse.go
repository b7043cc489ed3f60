package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-news/cmd/pebble-news/tui"
	"github.com/marshallshelly/pebble-news/pkg/news"
	"github.com/marshallshelly/pebble-news/pkg/validate"
)

var (
	// Browse flags
	browseTopic  string
	browseSearch string
	browseSort   string
	browseOrder  string
	browseLimit  int
)

// browseCmd pages through articles in the terminal
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse articles interactively",
	Long: `Page through the article listing with the same filters and sorting as
GET /api/articles.

Keys: n/p next/previous page, s cycle sort column, o toggle order,
t cycle topic filter, q quit.

Examples:
  pebble-news browse
  pebble-news browse --topic cats --limit 5
  pebble-news browse --search mitch --sort votes --order asc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVar(&browseTopic, "topic", "", "Only show articles in this topic")
	browseCmd.Flags().StringVar(&browseSearch, "search", "", "Match title, body, topic or author")
	browseCmd.Flags().StringVar(&browseSort, "sort", validate.DefaultSortBy, "Sort column")
	browseCmd.Flags().StringVar(&browseOrder, "order", "desc", "Sort order (asc|desc)")
	browseCmd.Flags().IntVar(&browseLimit, "limit", validate.DefaultLimit, "Articles per page")
}

// browseParams validates the flags the same way the HTTP query string is.
func browseParams() (validate.ArticleListParams, error) {
	flags := map[string]string{
		"topic":   browseTopic,
		"search":  browseSearch,
		"sort_by": browseSort,
		"order":   browseOrder,
		"limit":   strconv.Itoa(browseLimit),
	}
	return validate.ParseArticleListQuery(func(key string) string { return flags[key] })
}

func runBrowse(ctx context.Context) error {
	params, err := browseParams()
	if err != nil {
		return err
	}

	_, _, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Query logging would draw over the alternate screen.
	return tui.RunBrowseUI(ctx, news.NewService(db, nil), params)
}
