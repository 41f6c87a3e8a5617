package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newEventCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage case timeline events",
	}
	cmd.AddCommand(newEventAddCmd(a), newEventListCmd(a), newEventDeleteCmd(a))
	return cmd
}

func newEventAddCmd(a *app) *cobra.Command {
	var at, title, description string
	cmd := &cobra.Command{
		Use:   "add <case-id>",
		Short: "Add a timeline event to a case",
		Long: `Add a dated event to a case timeline.

Example:
  casefile event add 12 --at "2023-04-01 22:15" --title "Last seen leaving the pub"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseID, err := parseID("case-id", args[0])
			if err != nil {
				return err
			}
			ts, err := types.ParseTimestamp(at)
			if err != nil {
				return err
			}
			in := types.NewEvent{
				CaseID:         caseID,
				EventTimestamp: ts,
				Title:          title,
				Description:    optionalString(cmd.Flags(), "description", description),
			}
			if err := in.Validate(); err != nil {
				return err
			}
			var eventID int64
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				eventID, err = store.Timeline().Add(ctx, in)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": eventID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added event %d to case %d\n", eventID, caseID)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "event time (YYYY-MM-DD HH:MM[:SS]) (required)")
	cmd.Flags().StringVar(&title, "title", "", "event title (required)")
	cmd.Flags().StringVar(&description, "description", "", "event description")
	requireFlags(cmd, "at", "title")
	return cmd
}

func newEventListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [case-id]",
		Short: "List timeline events, most recent first",
		Long: `With a case id, list that case's timeline. Without one, list events
across all cases, limited by --project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var caseID int64
			if len(args) == 1 {
				var err error
				if caseID, err = parseID("case-id", args[0]); err != nil {
					return err
				}
			}
			var events []types.TimelineEvent
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				if caseID != 0 {
					events, err = store.Timeline().List(ctx, caseID)
				} else {
					events, err = store.Timeline().ListAll(ctx, a.projectScope())
				}
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, nonNil(events))
			}
			if len(events) == 0 {
				fmt.Fprintln(w, "No events found.")
				return nil
			}
			printEvents(w, events, caseID == 0)
			return nil
		},
	}
}

func printEvents(w io.Writer, events []types.TimelineEvent, withCase bool) {
	headers := []string{"ID", "WHEN", "TITLE"}
	if withCase {
		headers = append(headers, "CASE")
	}
	t := newTable(headers...)
	for _, e := range events {
		cells := []string{itoa(e.ID), e.EventTimestamp.String(), truncate(e.Title, 50)}
		if withCase {
			cells = append(cells, itoa(e.CaseID)+" "+truncate(e.CaseTitle, 30))
		}
		t.row(cells...)
	}
	t.print(w)
}

func newEventDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete a timeline event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				return store.Timeline().Delete(ctx, eventID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %d\n", eventID)
			return nil
		},
	}
}
