package cmd

import (
	"github.com/spf13/cobra"

	"github.com/docshell/docshell/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docshell configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure docshell and generates a .docshell.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
