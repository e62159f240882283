package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"querydesk.app/engine/core/config"
	"querydesk.app/engine/core/db"
	"querydesk.app/engine/internal/client"
	"querydesk.app/engine/internal/service"
	"querydesk.app/engine/internal/store"
)

func newReportCommand(cfg config.Config, newClient func() *client.Client) *cobra.Command {
	report := &cobra.Command{
		Use:   "report",
		Short: "Daily action report",
	}

	var from, to, team string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Print action counts per day and team",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := newClient().DailyReport(cmd.Context(), from, to, team)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DAY\tTEAM\tACTION\tCOUNT")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Day, r.Team, r.Action, r.Count)
			}
			return tw.Flush()
		},
	}
	daily.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	daily.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	daily.Flags().StringVar(&team, "team", "", "sales or credit")

	rebuild := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute the report from the thread ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := db.New(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer database.Close()

			stores := store.NewStores(database.Queries())
			reports := service.NewReportService(stores.Threads(), stores.Reports(), service.NewRetryingTxRunner(database))
			n, err := reports.Rebuild(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report rebuilt from %d action entries\n", n)
			return nil
		},
	}

	report.AddCommand(daily, rebuild)
	return report
}
