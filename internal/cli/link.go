package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link suspects to cases and cases to each other",
	}
	cmd.AddCommand(
		newLinkSuspectCmd(a),
		newLinkCasesCmd(a),
		newLinkListCmd(a),
		newLinkDeleteCmd(a),
	)
	return cmd
}

func newLinkSuspectCmd(a *app) *cobra.Command {
	var connection, notes string
	cmd := &cobra.Command{
		Use:   "suspect <suspect-id> <case-id>",
		Short: "Link a suspect to a case through one kind of evidence",
		Long: `Link a suspect to a case. The same suspect and case may be linked
more than once, but only once per connection type.

Connection types:
  ` + strings.Join(types.ConnectionTypes, "\n  "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("id", args)
			if err != nil {
				return err
			}
			in := types.NewSuspectLink{
				SuspectID:      ids[0],
				CaseID:         ids[1],
				ConnectionType: connection,
				Notes:          optionalString(cmd.Flags(), "notes", notes),
			}
			if err := in.Validate(); err != nil {
				return err
			}
			var linkID int64
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				linkID, err = store.SuspectLinks().Link(ctx, in)
				if errors.Is(err, types.ErrAlreadyLinked) {
					return fmt.Errorf("suspect %d is already linked to case %d by %s: %w", in.SuspectID, in.CaseID, in.ConnectionType, err)
				}
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": linkID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked suspect %d to case %d (link %d)\n", in.SuspectID, in.CaseID, linkID)
			return nil
		},
	}
	cmd.Flags().StringVar(&connection, "connection", "", "connection type (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	requireFlags(cmd, "connection")
	return cmd
}

func newLinkCasesCmd(a *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "cases <case-id> <case-id>",
		Short: "Link two similar cases",
		Long: `Link two cases with a note describing the similarity. Links are
undirected: linking 7 to 3 is the same link as 3 to 7.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("case-id", args)
			if err != nil {
				return err
			}
			in := types.NewCaseLink{CaseA: ids[0], CaseB: ids[1], SimilarityNote: note}
			if err := in.Validate(); err != nil {
				return err
			}
			var linkID int64
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				linkID, err = store.CaseLinks().Link(ctx, in.CaseA, in.CaseB, in.SimilarityNote)
				if errors.Is(err, types.ErrAlreadyLinked) {
					lo, hi := in.Canonical()
					return fmt.Errorf("cases %d and %d are already linked: %w", lo, hi, err)
				}
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": linkID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked cases %d and %d (link %d)\n", in.CaseA, in.CaseB, linkID)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "similarity note (required)")
	requireFlags(cmd, "note")
	return cmd
}

func newLinkListCmd(a *app) *cobra.Command {
	var caseID, suspectID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List links",
		Long: `With --case, list the suspects and cases linked to one case. With
--suspect, list the cases linked to one suspect. With neither, list every
case-to-case link, limited by --project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if caseID != 0 && suspectID != 0 {
				return usageError(errors.New("--case and --suspect are mutually exclusive"))
			}
			var (
				suspectLinks []types.SuspectLink
				caseLinks    []types.CaseLink
			)
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				switch {
				case suspectID != 0:
					suspectLinks, err = store.SuspectLinks().ForSuspect(ctx, suspectID)
				case caseID != 0:
					if suspectLinks, err = store.SuspectLinks().ForCase(ctx, caseID); err != nil {
						return err
					}
					caseLinks, err = store.CaseLinks().ForCase(ctx, caseID)
				default:
					caseLinks, err = store.CaseLinks().All(ctx, a.projectScope())
				}
				return err
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				out := map[string]any{}
				if suspectID != 0 || caseID != 0 {
					out["suspect_links"] = nonNil(suspectLinks)
				}
				if suspectID == 0 {
					out["case_links"] = nonNil(caseLinks)
				}
				return printJSON(w, out)
			}
			if len(suspectLinks) == 0 && len(caseLinks) == 0 {
				fmt.Fprintln(w, "No links found.")
				return nil
			}
			if len(suspectLinks) > 0 {
				t := newTable("LINK", "SUSPECT", "CASE", "CONNECTION", "DETAIL")
				for _, l := range suspectLinks {
					detail := l.SuspectName
					if suspectID != 0 {
						detail = l.CaseTitle
						if l.CrimeTypes != "" {
							detail += " (" + l.CrimeTypes + ")"
						}
					}
					t.row(itoa(l.ID), itoa(l.SuspectID), itoa(l.CaseID), l.ConnectionType, truncate(detail, 50))
				}
				t.print(w)
			}
			if len(caseLinks) > 0 {
				if len(suspectLinks) > 0 {
					fmt.Fprintln(w)
				}
				t := newTable("LINK", "CASE 1", "CASE 2", "NOTE")
				for _, l := range caseLinks {
					t.row(itoa(l.ID), itoa(l.CaseID1)+" "+truncate(l.Case1Title, 30), itoa(l.CaseID2)+" "+truncate(l.Case2Title, 30), truncate(l.SimilarityNote, 40))
				}
				t.print(w)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&caseID, "case", 0, "list links of one case")
	cmd.Flags().Int64Var(&suspectID, "suspect", 0, "list cases linked to one suspect")
	return cmd
}

// Link kinds accepted by "link delete".
const (
	linkKindSuspect = "suspect"
	linkKindCase    = "case"
)

func newLinkDeleteCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "delete <link-id>",
		Short: "Delete a suspect link or a case link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			linkID, err := parseID("link-id", args[0])
			if err != nil {
				return err
			}
			if kind != linkKindSuspect && kind != linkKindCase {
				return &types.ValidationError{Field: "kind", Message: fmt.Sprintf("%q is not %s or %s", kind, linkKindSuspect, linkKindCase)}
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if kind == linkKindSuspect {
					return store.SuspectLinks().Delete(ctx, linkID)
				}
				return store.CaseLinks().Delete(ctx, linkID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s link %d\n", kind, linkID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", linkKindCase, "link kind (suspect or case)")
	return cmd
}

// nonNil returns s, or an empty slice in place of nil, so JSON output
// prints [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
