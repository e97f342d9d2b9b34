package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/toyz/wsgen/internal/cli"
	"github.com/toyz/wsgen/internal/utils"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wsgen",
		Short: "WebSocket dispatcher generator",
		Long: `wsgen scans Go packages for //wsgen:: markers and generates one message
dispatcher per controller plus a registry that binds every dispatcher to its
endpoint path.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Directory patterns and wsgen.yaml are resolved from")
	flags.String("module", "", "Custom module path for imports (defaults to go.mod module)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.BoolP("quiet", "q", false, "Only show errors and final results")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadConfig layers flags over WSGEN_ environment variables, wsgen.yaml and defaults
func loadConfig(cmd *cobra.Command, patterns []string) (cli.Config, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return cli.Config{}, err
	}

	v := cli.NewViper(dir)
	if err := bindFlags(v, cmd); err != nil {
		return cli.Config{}, err
	}
	if len(patterns) > 0 {
		v.Set("patterns", patterns)
	}
	return cli.LoadConfig(v)
}

// configKeyAnnotation names the config key of a flag whose name does not map to it
const configKeyAnnotation = "wsgen_config_key"

// bindFlags binds every flag of cmd to its config key. The key is the flag
// name with dashes as underscores unless the flag is annotated with one.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "help" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if keys := f.Annotations[configKeyAnnotation]; len(keys) == 1 {
			key = keys[0]
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

func newDiagnostics(cmd *cobra.Command, cfg cli.Config) *utils.DiagnosticSystem {
	var diag *utils.DiagnosticSystem
	switch {
	case cfg.Quiet:
		diag = utils.NewQuietDiagnostics()
	case cfg.Verbose:
		diag = utils.NewVerboseDiagnostics()
	default:
		diag = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diag.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return diag
}
