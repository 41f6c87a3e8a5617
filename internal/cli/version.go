package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the casefile release version.
const Version = "0.3.0"

const modulePath = "github.com/mesh-intelligence/casefile"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the casefile version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "casefile v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
