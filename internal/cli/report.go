package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the rows a case map is drawn from",
	}
	cmd.AddCommand(newMapCasesCmd(a), newMapLinksCmd(a))
	return cmd
}

func newMapCasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "List cases with crime-scene coordinates and their marker styling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cases []types.MapCase
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				cases, err = store.Reports().CasesWithCoordinates(ctx, a.projectScope())
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, nonNil(cases))
			}
			if len(cases) == 0 {
				fmt.Fprintf(w, "No mapped cases. Map center %.1f, %.1f\n", types.DefaultCenterLat, types.DefaultCenterLon)
				return nil
			}
			t := newTable("ID", "LOCATION", "PRIMARY", "MARKER", "STATUS", "TITLE")
			for _, c := range cases {
				marker := c.MarkerColor + " " + types.MarkerHex(c.MarkerColor)
				t.row(itoa(c.ID), coords(c.CrimeSceneLat, c.CrimeSceneLon), c.PrimaryType, marker, c.StatusIcon+" "+c.Status, truncate(c.Title, 40))
			}
			t.print(w)
			return nil
		},
	}
}

func newMapLinksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List case links whose two cases both have coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var links []types.MapLink
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				links, err = store.Reports().LinkedPairsWithCoordinates(ctx, a.projectScope())
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, nonNil(links))
			}
			if len(links) == 0 {
				fmt.Fprintln(w, "No mapped links.")
				return nil
			}
			t := newTable("FROM", "FROM LOCATION", "TO", "TO LOCATION", "NOTE")
			for _, l := range links {
				t.row(
					itoa(l.Case1ID), coords(&l.Case1Lat, &l.Case1Lon),
					itoa(l.Case2ID), coords(&l.Case2Lat, &l.Case2Lon),
					truncate(l.SimilarityNote, 40),
				)
			}
			t.print(w)
			return nil
		},
	}
}

func newNetworkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Print the case-link graph as nodes and edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var n types.Network
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				n, err = store.Reports().Network(ctx, a.projectScope())
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				n.Nodes, n.Edges = nonNil(n.Nodes), nonNil(n.Edges)
				return printJSON(w, n)
			}
			if len(n.Edges) == 0 {
				fmt.Fprintln(w, "No linked cases.")
				return nil
			}
			fmt.Fprintln(w, "Nodes:")
			t := newTable("CASE", "STATUS", "CRIME TYPES", "LABEL")
			for _, node := range n.Nodes {
				t.row(itoa(node.CaseID), node.Status, strings.Join(node.CrimeTypes, ", "), strings.ReplaceAll(node.Label, "\n", " "))
			}
			t.print(w)
			fmt.Fprintln(w, "\nEdges:")
			t = newTable("LINK", "FROM", "TO", "NOTE")
			for _, e := range n.Edges {
				t.row(itoa(e.LinkID), itoa(e.From), itoa(e.To), truncate(e.Label, 50))
			}
			t.print(w)
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print case counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var s types.Summary
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				s, err = store.Reports().Summary(ctx, a.projectScope())
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, s)
			}
			t := newTable("STATUS", "CASES")
			for _, status := range types.CaseStatuses {
				t.row(types.StatusIcon(status)+" "+status, fmt.Sprint(s.ByStatus[status]))
			}
			t.row("Total", fmt.Sprint(s.Total))
			t.print(w)
			fmt.Fprintf(w, "Murder cases: %d (%d victims)\n", s.MurderCases, s.Victims)
			return nil
		},
	}
}

// exportDirName is the default export directory inside the data directory.
const exportDirName = "export"

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write every table as JSON Lines with a manifest",
		Long: `Export writes one <table>.jsonl file per table and a manifest.json to
dir (default: <data-dir>/export). Files are replaced atomically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			} else {
				dataDir, err := a.dataDirPath()
				if err != nil {
					return systemError(fmt.Errorf("resolve data dir: %w", err))
				}
				dir = filepath.Join(dataDir, exportDirName)
			}
			var m types.ExportManifest
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				m, err = store.Export(ctx, dir)
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, m)
			}
			total := 0
			for _, n := range m.Tables {
				total += n
			}
			fmt.Fprintf(w, "Exported %d row(s) from %d table(s) to %s (export %s)\n", total, len(m.Tables), dir, m.ExportID)
			return nil
		},
	}
}
