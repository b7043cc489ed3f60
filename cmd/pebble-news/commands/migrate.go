package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-news/cmd/pebble-news/output"
	"github.com/marshallshelly/pebble-news/pkg/migration"
)

var dryRun bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply or roll back the schema migrations compiled into this binary.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back the latest applied migration
  status  - Show migration status`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply every pending migration in version order.

Examples:
  pebble-news migrate up               # Apply all pending migrations
  pebble-news migrate up --dry-run     # Preview migrations without applying`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateUp(cmd.Context())
	},
}

// migrateDownCmd rolls back the latest migration
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Long: `Roll back the most recently applied migration.

Examples:
  pebble-news migrate down             # Roll back one migration
  pebble-news migrate down --dry-run   # Preview rollback without executing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateDown(cmd.Context())
	},
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Show every embedded migration with its state (pending, applied, failed).

Examples:
  pebble-news migrate status           # Table output
  pebble-news migrate status --json    # Output in JSON format`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)

	migrateUpCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview migrations without applying")
	migrateDownCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview rollback without executing")
}

// migrator connects and returns an executor plus the embedded migrations.
func migrator(ctx context.Context) (*migration.Executor, []migration.Migration, func(), error) {
	_, log, db, err := setup(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	migrations, err := migration.Embedded()
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return migration.NewExecutor(db.Pool(), log), migrations, db.Close, nil
}

func runMigrateUp(ctx context.Context) error {
	executor, migrations, done, err := migrator(ctx)
	if err != nil {
		return err
	}
	defer done()

	applied, err := executor.Up(ctx, migrations, dryRun)
	if err != nil {
		output.Error("Migration failed: %v", err)
		return err
	}

	if len(applied) == 0 {
		output.Info("No pending migrations")
		return nil
	}

	icon := output.StatusIcon(string(migration.StatusApplied))
	if dryRun {
		icon = output.StatusIcon(string(migration.StatusPending))
		output.Section("DRY RUN - Preview")
		output.Info("The following migrations would be applied:")
	} else {
		output.Section("Applied Migrations")
	}
	for _, mig := range applied {
		fmt.Printf("  %s %s - %s\n", icon, mig.Version, mig.Name)
	}

	if !dryRun {
		fmt.Println()
		output.Success("Successfully applied %d migration(s)", len(applied))
	}
	return nil
}

func runMigrateDown(ctx context.Context) error {
	executor, migrations, done, err := migrator(ctx)
	if err != nil {
		return err
	}
	defer done()

	rolled, err := executor.Down(ctx, migrations, dryRun)
	if err != nil {
		output.Error("Rollback failed: %v", err)
		return err
	}

	if rolled == nil {
		output.Info("No migrations to roll back")
		return nil
	}

	if dryRun {
		output.Section("DRY RUN - Preview")
		output.Info("The following migration would be rolled back:")
		fmt.Printf("  %s %s - %s\n", output.StatusIcon(string(migration.StatusApplied)), rolled.Version, rolled.Name)
		return nil
	}

	output.Success("Rolled back %s - %s", rolled.Version, rolled.Name)
	return nil
}

func runMigrateStatus(ctx context.Context) error {
	executor, migrations, done, err := migrator(ctx)
	if err != nil {
		return err
	}
	defer done()

	status, err := executor.Status(ctx, migrations)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	writeStatusTable(os.Stdout, status)
	return nil
}

func writeStatusTable(out io.Writer, status []migration.MigrationRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	_, _ = fmt.Fprintln(w, "-------\t----\t------\t----------")

	var pending, applied, failed int
	for _, record := range status {
		appliedAt := "N/A"
		if record.AppliedAt != nil {
			appliedAt = record.AppliedAt.Format("2006-01-02 15:04:05")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
			record.Version,
			record.Name,
			output.StatusIcon(string(record.Status)),
			record.Status,
			appliedAt,
		)

		switch record.Status {
		case migration.StatusPending:
			pending++
		case migration.StatusApplied:
			applied++
		case migration.StatusFailed:
			failed++
		}
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nSummary: %d applied, %d pending", applied, pending)
	if failed > 0 {
		_, _ = fmt.Fprintf(out, ", %d failed", failed)
	}
	_, _ = fmt.Fprintln(out)
}
