package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// Step functions are variables so tests can observe mode selection
// without hitting the network or spawning a server.
var (
	syncStep  = runSync
	serveStep = runServe
)

var rootCmd = &cobra.Command{
	Use:   "docshell",
	Short: "Sync and serve a manifest-driven static site",
	Long: `docshell keeps a local mirror of a remote page manifest and serves it
as a static site. The default run syncs the manifest and every page it
lists, then starts a static server over the result. Use --sync or
--serve to run just one of the two steps.`,
	// Extra positional arguments and unknown flags are ignored, so stale
	// invocations keep working across versions.
	Args: cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{
		UnknownFlags: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docshell.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().Bool("sync", false, "sync the manifest and pages, then exit")
	rootCmd.Flags().Bool("serve", false, "skip the sync and serve the existing mirror")
	rootCmd.MarkFlagsMutuallyExclusive("sync", "serve")

	rootCmd.Flags().Bool("builtin", false, "serve with the built-in server instead of server.command")
	rootCmd.Flags().Int("port", 8080, "port for the built-in server")
	rootCmd.Flags().Bool("open", false, "open the browser once the built-in server is up")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if builtin, _ := cmd.Flags().GetBool("builtin"); builtin {
		cfg.Server.Builtin = true
	}
	if open, _ := cmd.Flags().GetBool("open"); open {
		cfg.Server.Open = true
	}

	syncOnly, _ := cmd.Flags().GetBool("sync")
	serveOnly, _ := cmd.Flags().GetBool("serve")

	if !serveOnly {
		if err := syncStep(cfg); err != nil {
			return err
		}
	}
	if syncOnly {
		return nil
	}
	return serveStep(cfg)
}
