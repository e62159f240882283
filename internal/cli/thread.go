package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"querydesk.app/engine/core/config"
	"querydesk.app/engine/internal/client"
	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/poll"
)

func newThreadCommand(cfg config.Config, newClient func() *client.Client) *cobra.Command {
	var (
		team     string
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "thread <queryId>",
		Short: "Follow the thread of one query item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			out := cmd.OutOrStdout()

			var cursor atomic.Int64
			fetch := func(ctx context.Context) ([]dto.ThreadEntryResponse, error) {
				return c.History(ctx, client.HistoryParams{QueryID: args[0], Team: team, AfterSeq: cursor.Load()})
			}
			// Overlapping fetches can return the same entries; the cursor filters repeats.
			deliver := func(entries []dto.ThreadEntryResponse) {
				for _, e := range entries {
					if e.Seq <= cursor.Load() {
						continue
					}
					printEntry(out, e)
					cursor.Store(e.Seq)
				}
			}

			if once {
				entries, err := fetch(cmd.Context())
				if err != nil {
					return err
				}
				deliver(entries)
				return nil
			}

			p := poll.New(interval, fetch, deliver,
				poll.WithName[[]dto.ThreadEntryResponse]("thread"),
				poll.WithErrorHandler[[]dto.ThreadEntryResponse](func(err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
				}))
			return runPoller(cmd.Context(), p)
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "read as this team")
	cmd.Flags().DurationVar(&interval, "interval", cfg.Sync.ThreadInterval, "refresh interval")
	cmd.Flags().BoolVar(&once, "once", false, "print the thread once and exit")
	return cmd
}

func printEntry(w io.Writer, e dto.ThreadEntryResponse) {
	ts := e.Timestamp.Local().Format(time.DateTime)
	switch e.Type {
	case "action":
		line := fmt.Sprintf("%s  %s (%s) %s", ts, e.AddedBy, e.Team, e.Action)
		if e.AssignedTo != "" {
			line += " -> " + e.AssignedTo
		}
		if e.Message != "" {
			line += ": " + e.Message
		}
		fmt.Fprintln(w, line)
	default:
		fmt.Fprintf(w, "%s  %s (%s): %s\n", ts, e.AddedBy, e.Team, e.Message)
	}
}

type poller interface {
	Start(ctx context.Context) error
	Stop()
}

// runPoller runs p until ctx is cancelled.
func runPoller(ctx context.Context, p poller) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	p.Stop()
	return nil
}
