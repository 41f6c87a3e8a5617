package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newCaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage cases",
	}
	cmd.AddCommand(
		newCaseAddCmd(a),
		newCaseGetCmd(a),
		newCaseListCmd(a),
		newCaseUpdateCmd(a),
		newCaseDeleteCmd(a),
		newCaseCrimeTypesCmd(a),
		newCaseTagsCmd(a),
	)
	return cmd
}

// caseFlags are the case fields settable from the command line.
type caseFlags struct {
	title         string
	date          string
	status        string
	murder        bool
	victims       int64
	mo            string
	victimProfile string
	sceneAddress  string
	sceneLat      float64
	sceneLon      float64
	bodyAddress   string
	bodyLat       float64
	bodyLon       float64
}

func (f *caseFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "case title")
	fs.StringVar(&f.date, "date", "", "date occurred (YYYY-MM-DD)")
	fs.StringVar(&f.status, "status", types.StatusActive, "status ("+strings.Join(types.CaseStatuses, ", ")+")")
	fs.BoolVar(&f.murder, "murder", false, "the case is a murder")
	fs.Int64Var(&f.victims, "victims", 0, "victim count (murder cases only)")
	fs.StringVar(&f.mo, "mo", "", "modus operandi description")
	fs.StringVar(&f.victimProfile, "victim-profile", "", "victim profile")
	fs.StringVar(&f.sceneAddress, "scene-address", "", "crime scene address")
	fs.Float64Var(&f.sceneLat, "scene-lat", 0, "crime scene latitude")
	fs.Float64Var(&f.sceneLon, "scene-lon", 0, "crime scene longitude")
	fs.StringVar(&f.bodyAddress, "body-address", "", "body found address")
	fs.Float64Var(&f.bodyLat, "body-lat", 0, "body found latitude")
	fs.Float64Var(&f.bodyLon, "body-lon", 0, "body found longitude")
}

func newCaseAddCmd(a *app) *cobra.Command {
	var (
		f          caseFlags
		crimeTypes []string
		tags       []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a case",
		Long: `Add creates a case. At least one crime type is required; the first
one given is the primary crime type.

Example:
  casefile case add --title "Harbour Road stabbing" --date 2023-04-01 \
    --crime-type Homicide --crime-type Assault --murder --victims 1 \
    --scene-lat 51.5072 --scene-lon -0.1276`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			date, err := types.ParseDate(f.date)
			if err != nil {
				return err
			}
			in := types.NewCase{
				Title:             f.title,
				DateOccurred:      date,
				Status:            f.status,
				IsMurder:          f.murder,
				VictimCount:       optionalInt(fs, "victims", f.victims),
				MODescription:     optionalString(fs, "mo", f.mo),
				VictimProfile:     optionalString(fs, "victim-profile", f.victimProfile),
				CrimeSceneAddress: optionalString(fs, "scene-address", f.sceneAddress),
				CrimeSceneLat:     optionalFloat(fs, "scene-lat", f.sceneLat),
				CrimeSceneLon:     optionalFloat(fs, "scene-lon", f.sceneLon),
				BodyFoundAddress:  optionalString(fs, "body-address", f.bodyAddress),
				BodyFoundLat:      optionalFloat(fs, "body-lat", f.bodyLat),
				BodyFoundLon:      optionalFloat(fs, "body-lon", f.bodyLon),
				CrimeTypes:        crimeTypes,
				Tags:              tags,
			}
			if err := in.Validate(); err != nil {
				return err
			}

			var c *types.Case
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				p := a.projectScope()
				if p != nil {
					if _, err := requireProject(ctx, store, *p); err != nil {
						return err
					}
				}
				caseID, err := store.Cases().Add(ctx, in)
				if err != nil {
					return fmt.Errorf("add case: %w", err)
				}
				if p != nil {
					if err := store.Projects().Assign(ctx, *p, caseID); err != nil {
						return fmt.Errorf("assign case %d to project %d: %w", caseID, *p, err)
					}
				}
				c, err = store.Cases().Get(ctx, caseID)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created case %d\n", c.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&crimeTypes, "crime-type", nil, "crime type, primary first (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "case tag (repeatable)")
	requireFlags(cmd, "title", "date", "crime-type")
	return cmd
}

// caseDetail is the case view printed by "case get".
type caseDetail struct {
	*types.Case
	Projects []int64               `json:"projects"`
	Suspects []types.SuspectLink   `json:"suspects"`
	Links    []types.CaseLink      `json:"linked_cases"`
	Timeline []types.TimelineEvent `json:"timeline"`
}

func newCaseGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <case-id>",
		Short: "Show a case with its suspects, links, and timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseID, err := parseID("case-id", args[0])
			if err != nil {
				return err
			}
			var d caseDetail
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if d.Case, err = store.Cases().Get(ctx, caseID); err != nil {
					return err
				}
				if d.Case == nil {
					return fmt.Errorf("case %d: %w", caseID, errNotFound)
				}
				if d.Projects, err = store.Projects().ProjectIDs(ctx, caseID); err != nil {
					return err
				}
				if d.Suspects, err = store.SuspectLinks().ForCase(ctx, caseID); err != nil {
					return err
				}
				if d.Links, err = store.CaseLinks().ForCase(ctx, caseID); err != nil {
					return err
				}
				d.Timeline, err = store.Timeline().List(ctx, caseID)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), d)
			}
			printCaseDetail(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func printCaseDetail(w io.Writer, d caseDetail) {
	c := d.Case
	victims := ""
	if c.IsMurder {
		victims = num(c.VictimCount)
	}
	projects := make([]string, len(d.Projects))
	for i, p := range d.Projects {
		projects[i] = itoa(p)
	}
	printFields(w,
		"Case", itoa(c.ID),
		"Title", c.Title,
		"Date", c.DateOccurred.String(),
		"Status", types.StatusIcon(c.Status)+" "+c.Status,
		"Crime types", strings.Join(c.CrimeTypes, ", "),
		"Tags", strings.Join(c.Tags, ", "),
		"Murder", yesNo(c.IsMurder),
		"Victims", victims,
		"MO", str(c.MODescription),
		"Victim", str(c.VictimProfile),
		"Crime scene", strings.TrimSpace(str(c.CrimeSceneAddress)+" "+coords(c.CrimeSceneLat, c.CrimeSceneLon)),
		"Body found", strings.TrimSpace(str(c.BodyFoundAddress)+" "+coords(c.BodyFoundLat, c.BodyFoundLon)),
		"Projects", strings.Join(projects, ", "),
		"Created", c.CreatedAt.String(),
	)
	if len(d.Suspects) > 0 {
		fmt.Fprintln(w, "\nSuspects:")
		t := newTable("LINK", "SUSPECT", "NAME", "CONNECTION")
		for _, l := range d.Suspects {
			t.row(itoa(l.ID), itoa(l.SuspectID), l.SuspectName, l.ConnectionType)
		}
		t.print(w)
	}
	if len(d.Links) > 0 {
		fmt.Fprintln(w, "\nLinked cases:")
		t := newTable("LINK", "CASE", "TITLE", "NOTE")
		for _, l := range d.Links {
			other, title := l.CaseID2, l.Case2Title
			if other == c.ID {
				other, title = l.CaseID1, l.Case1Title
			}
			t.row(itoa(l.ID), itoa(other), truncate(title, 40), truncate(l.SimilarityNote, 50))
		}
		t.print(w)
	}
	if len(d.Timeline) > 0 {
		fmt.Fprintln(w, "\nTimeline:")
		printEvents(w, d.Timeline, false)
	}
}

func newCaseListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cases []types.Case
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				cases, err = store.Cases().List(ctx, a.projectScope())
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, cases)
			}
			printCaseTable(w, cases)
			return nil
		},
	}
}

func printCaseTable(w io.Writer, cases []types.Case) {
	if len(cases) == 0 {
		fmt.Fprintln(w, "No cases found.")
		return
	}
	t := newTable("ID", "DATE", "STATUS", "PRIMARY", "TITLE")
	for _, c := range cases {
		t.row(itoa(c.ID), c.DateOccurred.String(), c.Status, c.PrimaryCrimeType(), truncate(c.Title, 50))
	}
	t.print(w)
	fmt.Fprintf(w, "Total: %d case(s)\n", len(cases))
}

func newCaseUpdateCmd(a *app) *cobra.Command {
	var (
		f            caseFlags
		clearScene   bool
		clearBody    bool
		clearVictims bool
	)
	cmd := &cobra.Command{
		Use:   "update <case-id>",
		Short: "Change case fields",
		Long: `Update writes only the fields given. Pass an empty string to clear a
text field, or --clear-scene, --clear-body, or --clear-victims to remove
a location or the victim count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseID, err := parseID("case-id", args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			patch := types.CasePatch{
				Title:             changedString(fs, "title", f.title),
				Status:            changedString(fs, "status", f.status),
				MODescription:     nullString(fs, "mo", f.mo),
				VictimProfile:     nullString(fs, "victim-profile", f.victimProfile),
				CrimeSceneAddress: nullString(fs, "scene-address", f.sceneAddress),
				CrimeSceneLat:     nullFloat(fs, "scene-lat", f.sceneLat),
				CrimeSceneLon:     nullFloat(fs, "scene-lon", f.sceneLon),
				BodyFoundAddress:  nullString(fs, "body-address", f.bodyAddress),
				BodyFoundLat:      nullFloat(fs, "body-lat", f.bodyLat),
				BodyFoundLon:      nullFloat(fs, "body-lon", f.bodyLon),
			}
			if patch.DateOccurred, err = optionalDate(fs, "date", f.date); err != nil {
				return err
			}
			if fs.Changed("murder") {
				patch.IsMurder = &f.murder
				if !f.murder {
					patch.VictimCount = types.Clear[int64]()
				}
			}
			if fs.Changed("victims") {
				patch.VictimCount = types.Set(f.victims)
			}
			if clearVictims {
				patch.VictimCount = types.Clear[int64]()
			}
			if clearScene {
				patch.CrimeSceneAddress = types.Clear[string]()
				patch.CrimeSceneLat = types.Clear[float64]()
				patch.CrimeSceneLon = types.Clear[float64]()
			}
			if clearBody {
				patch.BodyFoundAddress = types.Clear[string]()
				patch.BodyFoundLat = types.Clear[float64]()
				patch.BodyFoundLon = types.Clear[float64]()
			}
			if err := patch.Validate(); err != nil {
				return err
			}

			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if err := requireCase(ctx, store, caseID); err != nil {
					return err
				}
				return store.Cases().Update(ctx, caseID, patch)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated case %d\n", caseID)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&clearScene, "clear-scene", false, "remove the crime scene location")
	cmd.Flags().BoolVar(&clearBody, "clear-body", false, "remove the body found location")
	cmd.Flags().BoolVar(&clearVictims, "clear-victims", false, "remove the victim count")
	return cmd
}

func newCaseDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <case-id>",
		Short: "Delete a case and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseID, err := parseID("case-id", args[0])
			if err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if err := requireCase(ctx, store, caseID); err != nil {
					return err
				}
				return store.Cases().Delete(ctx, caseID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted case %d\n", caseID)
			return nil
		},
	}
}

func newCaseCrimeTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "crime-types <case-id> [crime-type...]",
		Short: "Show or replace a case's crime types",
		Long: `With only a case id, crime-types prints the case's crime types, primary
first. With crime types given, it replaces them; the first becomes the
primary crime type.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseID, err := parseID("case-id", args[0])
			if err != nil {
				return err
			}
			replace := args[1:]
			if len(replace) > 0 {
				if err := types.ValidateCrimeTypes(replace); err != nil {
					return err
				}
			}
			var current []string
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if err := requireCase(ctx, store, caseID); err != nil {
					return err
				}
				if len(replace) > 0 {
					if err := store.Cases().SetCrimeTypes(ctx, caseID, replace); err != nil {
						return err
					}
				}
				current, err = store.Cases().CrimeTypes(ctx, caseID)
				return err
			})
			if err != nil {
				return err
			}
			return printLabels(cmd.OutOrStdout(), a.flags.jsonMode, current)
		},
	}
}

func newCaseTagsCmd(a *app) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "tags <case-id> [tag...]",
		Short: "Show or replace a case's tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseID, err := parseID("case-id", args[0])
			if err != nil {
				return err
			}
			replace := args[1:]
			if err := types.ValidateTags(replace); err != nil {
				return err
			}
			var current []string
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if err := requireCase(ctx, store, caseID); err != nil {
					return err
				}
				if len(replace) > 0 || clearAll {
					if err := store.Cases().SetTags(ctx, caseID, replace); err != nil {
						return err
					}
				}
				current, err = store.Cases().Tags(ctx, caseID)
				return err
			})
			if err != nil {
				return err
			}
			return printLabels(cmd.OutOrStdout(), a.flags.jsonMode, current)
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every tag")
	return cmd
}

func printLabels(w io.Writer, jsonMode bool, labels []string) error {
	if jsonMode {
		if labels == nil {
			labels = []string{}
		}
		return printJSON(w, labels)
	}
	for _, l := range labels {
		fmt.Fprintln(w, l)
	}
	return nil
}

// requireCase returns errNotFound when no case has caseID.
func requireCase(ctx context.Context, store types.Store, caseID int64) error {
	c, err := store.Cases().Get(ctx, caseID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("case %d: %w", caseID, errNotFound)
	}
	return nil
}
