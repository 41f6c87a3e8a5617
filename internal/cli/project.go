package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Group cases into projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(a),
		newProjectGetCmd(a),
		newProjectListCmd(a),
		newProjectUpdateCmd(a),
		newProjectDeleteCmd(a),
		newProjectMembershipCmd(a, "assign"),
		newProjectMembershipCmd(a, "unassign"),
		newProjectCasesCmd(a),
	)
	return cmd
}

func newProjectAddCmd(a *app) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := types.NewProject{Name: name, Description: optionalString(cmd.Flags(), "description", description)}
			if err := in.Validate(); err != nil {
				return err
			}
			var projectID int64
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				projectID, err = store.Projects().Add(ctx, in)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": projectID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %d\n", projectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (required, unique)")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	requireFlags(cmd, "name")
	return cmd
}

func newProjectGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			var (
				p     *types.Project
				count int
			)
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				if p, err = requireProject(ctx, store, projectID); err != nil {
					return err
				}
				counts, err := store.Projects().CaseCounts(ctx)
				count = counts[projectID]
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, struct {
					*types.Project
					CaseCount int `json:"case_count"`
				}{p, count})
			}
			printFields(w,
				"Project", itoa(p.ID),
				"Name", p.Name,
				"Description", str(p.Description),
				"Cases", fmt.Sprint(count),
				"Created", p.CreatedAt.String(),
			)
			return nil
		},
	}
}

func newProjectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with their case counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				projects []types.Project
				counts   map[int64]int
			)
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				if projects, err = store.Projects().List(ctx); err != nil {
					return err
				}
				counts, err = store.Projects().CaseCounts(ctx)
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				type row struct {
					types.Project
					CaseCount int `json:"case_count"`
				}
				rows := make([]row, len(projects))
				for i, p := range projects {
					rows[i] = row{p, counts[p.ID]}
				}
				return printJSON(w, rows)
			}
			if len(projects) == 0 {
				fmt.Fprintln(w, "No projects found.")
				return nil
			}
			t := newTable("ID", "NAME", "CASES", "DESCRIPTION")
			for _, p := range projects {
				t.row(itoa(p.ID), p.Name, fmt.Sprint(counts[p.ID]), truncate(str(p.Description), 40))
			}
			t.print(w)
			return nil
		},
	}
}

func newProjectUpdateCmd(a *app) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			patch := types.ProjectPatch{
				Name:        changedString(fs, "name", name),
				Description: nullString(fs, "description", description),
			}
			if err := patch.Validate(); err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if _, err := requireProject(ctx, store, projectID); err != nil {
					return err
				}
				return store.Projects().Update(ctx, projectID, patch)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %d\n", projectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "description (empty clears)")
	return cmd
}

func newProjectDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project; its cases are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if _, err := requireProject(ctx, store, projectID); err != nil {
					return err
				}
				return store.Projects().Delete(ctx, projectID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d\n", projectID)
			return nil
		},
	}
}

// newProjectMembershipCmd builds "assign" or "unassign", which add or remove
// cases from a project.
func newProjectMembershipCmd(a *app, verb string) *cobra.Command {
	short := "Add cases to a project"
	if verb == "unassign" {
		short = "Remove cases from a project"
	}
	return &cobra.Command{
		Use:   verb + " <project-id> <case-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			caseIDs, err := parseIDs("case-id", args[1:])
			if err != nil {
				return err
			}
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				if _, err := requireProject(ctx, store, projectID); err != nil {
					return err
				}
				for _, caseID := range caseIDs {
					if verb == "assign" {
						err = store.Projects().Assign(ctx, projectID, caseID)
					} else {
						err = store.Projects().Unassign(ctx, projectID, caseID)
					}
					if err != nil {
						return fmt.Errorf("%s case %d: %w", verb, caseID, err)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			pastTense := map[string]string{"assign": "Assigned", "unassign": "Unassigned"}[verb]
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d case(s) for project %d\n", pastTense, len(caseIDs), projectID)
			return nil
		},
	}
}

func newProjectCasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cases <project-id>",
		Short: "List a project's cases, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			var cases []types.Case
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				if _, err = requireProject(ctx, store, projectID); err != nil {
					return err
				}
				cases, err = store.Projects().Cases(ctx, projectID)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), nonNil(cases))
			}
			printCaseTable(cmd.OutOrStdout(), cases)
			return nil
		},
	}
}

func requireProject(ctx context.Context, store types.Store, projectID int64) (*types.Project, error) {
	p, err := store.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("project %d: %w", projectID, errNotFound)
	}
	return p, nil
}
