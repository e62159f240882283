package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"querydesk.app/engine/core/config"
	"querydesk.app/engine/internal/client"
	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/poll"
)

func newWatchCommand(cfg config.Config, newClient func() *client.Client) *cobra.Command {
	var (
		params   client.ListParams
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the query list and print it on every refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			out := cmd.OutOrStdout()
			fetch := func(ctx context.Context) ([]dto.QueryGroupResponse, error) {
				return c.ListGroups(ctx, params)
			}

			if once {
				groups, err := fetch(cmd.Context())
				if err != nil {
					return err
				}
				printGroups(out, groups, params)
				return nil
			}

			p := poll.New(interval, fetch, func(groups []dto.QueryGroupResponse) {
				fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
				printGroups(out, groups, params)
			}, poll.WithName[[]dto.QueryGroupResponse]("watch"),
				poll.WithErrorHandler[[]dto.QueryGroupResponse](func(err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
				}))
			return runPoller(cmd.Context(), p)
		},
	}

	cmd.Flags().StringVar(&params.Status, "status", "pending", "pending, resolved or all")
	cmd.Flags().StringVar(&params.Team, "team", "", "sales, credit or operations")
	cmd.Flags().StringVar(&params.AppNo, "app", "", "only this application number")
	cmd.Flags().IntVar(&params.Limit, "limit", defaultPageSize, "groups per page")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "skip this many groups")
	cmd.Flags().DurationVar(&interval, "interval", cfg.Sync.ListInterval, "refresh interval")
	cmd.Flags().BoolVar(&once, "once", false, "print once and exit")
	return cmd
}

// defaultPageSize matches the server's default list limit.
const defaultPageSize = 50

func printGroups(w io.Writer, groups []dto.QueryGroupResponse, page client.ListParams) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tAPP\tCUSTOMER\tSEND TO\tPENDING\tQUERIES")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			g.ID, g.AppNo, g.CustomerName, strings.Join(g.SendTo, ","), g.PendingCount, len(g.Queries))
	}
	_ = tw.Flush()

	// A full page means the server may hold older groups past it.
	if page.Limit > 0 && len(groups) >= page.Limit {
		fmt.Fprintf(w, "more groups may follow: rerun with --offset %d\n", page.Offset+len(groups))
	}
}
