package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"querydesk.app/engine/internal/client"
	"querydesk.app/engine/internal/http/dto"
)

func newActCommand(newClient func() *client.Client) *cobra.Command {
	var req dto.QueryActionRequest

	cmd := &cobra.Command{
		Use:   "act <queryId>",
		Short: "Submit an action or a message on a query item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.QueryID = args[0]
			req.Type = dto.SubmissionTypeAction
			if req.Action == "" {
				req.Type = dto.SubmissionTypeMessage
			}

			resp, requestID, err := newClient().SubmitAction(cmd.Context(), req)
			if errors.Is(err, client.ErrOutcomeUnknown) {
				return fmt.Errorf("%w\ncheck the thread, then resubmit with --request-id %s if nothing was recorded", err, requestID)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Replayed {
				fmt.Fprintln(out, "already recorded, nothing applied")
			}
			fmt.Fprintf(out, "query %s is %s", resp.Query.ID, resp.Query.Status)
			if resp.Query.AssignedTo != "" {
				fmt.Fprintf(out, " (assigned to %s)", resp.Query.AssignedTo)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Action, "action", "", "approve, deferral, otc or revert; omit to post a message")
	cmd.Flags().StringVar(&req.Remarks, "remarks", "", "remarks stored with the action")
	cmd.Flags().StringVar(&req.AssignedTo, "assigned-to", "", "assignee for deferral and otc")
	cmd.Flags().StringVar(&req.Message, "message", "", "message body")
	cmd.Flags().StringVar(&req.AddedBy, "by", "", "person submitting")
	cmd.Flags().StringVar(&req.Team, "team", "", "submitting team")
	cmd.Flags().StringVar(&req.RequestID, "request-id", "", "idempotency key (generated when empty)")
	_ = cmd.MarkFlagRequired("by")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
