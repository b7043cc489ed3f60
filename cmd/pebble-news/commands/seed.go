package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-news/cmd/pebble-news/output"
	"github.com/marshallshelly/pebble-news/pkg/seed"
)

var dataset string

// seedCmd reloads a bundled dataset
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with a bundled dataset",
	Long: `Truncate topics, users, articles and comments and load a bundled dataset
in a single transaction. Article ids restart at 1.

Examples:
  pebble-news seed                         # Load the development dataset
  pebble-news seed --dataset test          # Load the test dataset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&dataset, "dataset", "d", "development",
		"Dataset to load ("+strings.Join(seed.Names(), "|")+")")
}

func runSeed(ctx context.Context) error {
	ds, err := seed.Load(dataset)
	if err != nil {
		return err
	}

	_, log, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := seed.Run(ctx, db, ds, log)
	if err != nil {
		output.Error("Seeding failed: %v", err)
		return err
	}

	output.Section(fmt.Sprintf("Seeded %q", ds.Name))
	output.Success("%d topics", summary.Topics)
	output.Success("%d users", summary.Users)
	output.Success("%d articles", summary.Articles)
	output.Success("%d comments", summary.Comments)
	return nil
}
