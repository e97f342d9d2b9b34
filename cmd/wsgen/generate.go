package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/wsgen/internal/cli"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Generate dispatchers and the registry",
		Long: `Generate scans the packages matched by the given patterns (default ./...)
and writes a <controller>_dispatcher_gen.go file next to every controller plus
the dispatcher registry.`,
		Example: `  wsgen generate
  wsgen generate ./internal/...
  wsgen generate --unmatched error --registry-dir ./cmd/server
  wsgen generate --dry-run -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			_, err = cli.NewGenerator(cfg, newDiagnostics(cmd, cfg)).Run(cmd.Context())
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("runtime-package", "", "Import path of the wsgen runtime used by generated code")
	flags.String("unmatched", "", "Default policy for unknown discriminator values: ignore or error")
	flags.Bool("dry-run", false, "Render everything without writing files")

	// nested keys have no flag name of their own
	flags.String("registry-dir", "", "Directory of the package that receives the registry")
	flags.String("registry-type", "", "Registry type name")
	flags.String("session-package", "", "Import path of a session type alias")
	flags.String("session-type", "", "Session type name")
	for flag, key := range map[string]string{
		"registry-dir":    "registry.dir",
		"registry-type":   "registry.type",
		"session-package": "session.package",
		"session-type":    "session.type",
	} {
		_ = flags.SetAnnotation(flag, configKeyAnnotation, []string{key})
	}

	return cmd
}
