package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/wsgen/internal/cli"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dirs...]",
		Short: "Delete generated dispatcher and registry files",
		Long: `Clean removes every Go file that starts with the wsgen generated-code header.
A directory ending in /... is cleaned recursively. Defaults to ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			diag := newDiagnostics(cmd, cfg)

			if len(args) == 0 {
				args = []string{"./..."}
			}
			removed, err := cli.NewCleaner().Clean(args)
			for _, path := range removed {
				diag.List("removed %s", path)
			}
			if err != nil {
				diag.Error("clean failed: %v", err)
				return err
			}
			diag.Success("removed %d generated file(s)", len(removed))
			return nil
		},
	}
}
