package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newSuspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suspect",
		Short: "Manage suspects",
	}
	cmd.AddCommand(
		newSuspectAddCmd(a),
		newSuspectGetCmd(a),
		newSuspectListCmd(a),
		newSuspectUpdateCmd(a),
		newSuspectDeleteCmd(a),
	)
	return cmd
}

func newSuspectAddCmd(a *app) *cobra.Command {
	var name, description, aliases string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a suspect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			in := types.NewSuspect{
				Name:         name,
				Description:  optionalString(fs, "description", description),
				KnownAliases: optionalString(fs, "aliases", aliases),
			}
			if err := in.Validate(); err != nil {
				return err
			}
			var suspectID int64
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				suspectID, err = store.Suspects().Add(ctx, in)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": suspectID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created suspect %d\n", suspectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "suspect name (required)")
	cmd.Flags().StringVar(&description, "description", "", "physical or background description")
	cmd.Flags().StringVar(&aliases, "aliases", "", "known aliases")
	requireFlags(cmd, "name")
	return cmd
}

// suspectDetail is the suspect view printed by "suspect get".
type suspectDetail struct {
	*types.Suspect
	History []types.HistoryEntry `json:"history"`
	Cases   []types.SuspectLink  `json:"cases"`
}

func newSuspectGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <suspect-id>",
		Short: "Show a suspect with history and linked cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suspectID, err := parseID("suspect-id", args[0])
			if err != nil {
				return err
			}
			var d suspectDetail
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				if d.Suspect, err = store.Suspects().Get(ctx, suspectID); err != nil {
					return err
				}
				if d.Suspect == nil {
					return fmt.Errorf("suspect %d: %w", suspectID, errNotFound)
				}
				if d.History, err = store.Suspects().History(ctx, suspectID); err != nil {
					return err
				}
				d.Cases, err = store.SuspectLinks().ForSuspect(ctx, suspectID)
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, d)
			}
			printFields(w,
				"Suspect", itoa(d.ID),
				"Name", d.Name,
				"Description", str(d.Description),
				"Aliases", str(d.KnownAliases),
				"Created", d.CreatedAt.String(),
			)
			if len(d.History) > 0 {
				fmt.Fprintln(w, "\nCriminal history:")
				printHistory(w, d.History)
			}
			if len(d.Cases) > 0 {
				fmt.Fprintln(w, "\nLinked cases:")
				t := newTable("LINK", "CASE", "DATE", "STATUS", "CONNECTION", "TITLE")
				for _, l := range d.Cases {
					date := ""
					if l.CaseDateOccurred != nil {
						date = l.CaseDateOccurred.String()
					}
					t.row(itoa(l.ID), itoa(l.CaseID), date, l.CaseStatus, l.ConnectionType, truncate(l.CaseTitle, 40))
				}
				t.print(w)
			}
			return nil
		},
	}
}

func newSuspectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List suspects by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var suspects []types.Suspect
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				suspects, err = store.Suspects().List(ctx)
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, suspects)
			}
			if len(suspects) == 0 {
				fmt.Fprintln(w, "No suspects found.")
				return nil
			}
			t := newTable("ID", "NAME", "ALIASES")
			for _, s := range suspects {
				t.row(itoa(s.ID), s.Name, truncate(str(s.KnownAliases), 40))
			}
			t.print(w)
			fmt.Fprintf(w, "Total: %d suspect(s)\n", len(suspects))
			return nil
		},
	}
}

func newSuspectUpdateCmd(a *app) *cobra.Command {
	var name, description, aliases string
	cmd := &cobra.Command{
		Use:   "update <suspect-id>",
		Short: "Change suspect fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suspectID, err := parseID("suspect-id", args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			patch := types.SuspectPatch{
				Name:         changedString(fs, "name", name),
				Description:  nullString(fs, "description", description),
				KnownAliases: nullString(fs, "aliases", aliases),
			}
			if err := patch.Validate(); err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if err := requireSuspect(ctx, store, suspectID); err != nil {
					return err
				}
				return store.Suspects().Update(ctx, suspectID, patch)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated suspect %d\n", suspectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "suspect name")
	cmd.Flags().StringVar(&description, "description", "", "description (empty clears)")
	cmd.Flags().StringVar(&aliases, "aliases", "", "known aliases (empty clears)")
	return cmd
}

func newSuspectDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <suspect-id>",
		Short: "Delete a suspect with their history and case links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suspectID, err := parseID("suspect-id", args[0])
			if err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if err := requireSuspect(ctx, store, suspectID); err != nil {
					return err
				}
				return store.Suspects().Delete(ctx, suspectID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted suspect %d\n", suspectID)
			return nil
		},
	}
}

func requireSuspect(ctx context.Context, store types.Store, suspectID int64) error {
	s, err := store.Suspects().Get(ctx, suspectID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("suspect %d: %w", suspectID, errNotFound)
	}
	return nil
}

// History commands.

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage suspect criminal history",
	}
	cmd.AddCommand(newHistoryAddCmd(a), newHistoryListCmd(a), newHistoryDeleteCmd(a))
	return cmd
}

func newHistoryAddCmd(a *app) *cobra.Command {
	var crimeType, date, conviction, notes string
	cmd := &cobra.Command{
		Use:   "add <suspect-id>",
		Short: "Record a criminal history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suspectID, err := parseID("suspect-id", args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			in := types.NewHistoryEntry{
				SuspectID:        suspectID,
				CrimeType:        crimeType,
				ConvictionStatus: conviction,
				Notes:            optionalString(fs, "notes", notes),
			}
			if in.DateOfCrime, err = optionalDate(fs, "date", date); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			var entryID int64
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				entryID, err = store.Suspects().AddHistory(ctx, in)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": entryID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded history entry %d\n", entryID)
			return nil
		},
	}
	cmd.Flags().StringVar(&crimeType, "crime-type", "", "crime type (required)")
	cmd.Flags().StringVar(&date, "date", "", "date of crime (YYYY-MM-DD)")
	cmd.Flags().StringVar(&conviction, "conviction", types.ConvictionSuspected, "conviction status (Convicted, Arrested, Suspected)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	requireFlags(cmd, "crime-type")
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <suspect-id>",
		Short: "List a suspect's history, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suspectID, err := parseID("suspect-id", args[0])
			if err != nil {
				return err
			}
			var entries []types.HistoryEntry
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				if err := requireSuspect(ctx, store, suspectID); err != nil {
					return err
				}
				entries, err = store.Suspects().History(ctx, suspectID)
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, "No history recorded.")
				return nil
			}
			printHistory(w, entries)
			return nil
		},
	}
}

func printHistory(w io.Writer, entries []types.HistoryEntry) {
	t := newTable("ID", "DATE", "CRIME", "STATUS", "NOTES")
	for _, e := range entries {
		date := "unknown"
		if e.DateOfCrime != nil {
			date = e.DateOfCrime.String()
		}
		t.row(itoa(e.ID), date, e.CrimeType, e.ConvictionStatus, truncate(str(e.Notes), 40))
	}
	t.print(w)
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID("entry-id", args[0])
			if err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				return store.Suspects().DeleteHistory(ctx, entryID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted history entry %d\n", entryID)
			return nil
		},
	}
}
