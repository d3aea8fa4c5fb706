package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/pom"
)

func newPOMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pom PATH",
		Short: "Print the nearest pom.xml for a file",
		Long: `Print the pom.xml in PATH's directory or the closest ancestor directory.
This is the check that decides whether the menus are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found := pom.Walker{}.FindNearestPOM(args[0])
			if found == "" {
				return menuerrors.New(menuerrors.ErrCodeFileNotFound, "no pom.xml found for "+args[0], nil)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), found)
			return err
		},
	}
}
