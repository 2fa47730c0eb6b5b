/*
Package commands implements the CLI command structure for promptpack.
The root command packs a directory; the version subcommand prints build
information.
*/
package commands

import (
	"fmt"

	"github.com/sonemaro/promptpack/cmd/promptpack/app"
	"github.com/sonemaro/promptpack/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	return newRootCommand(app.Env{Signals: true})
}

func newRootCommand(env app.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptpack [flags] [directory]",
		Short: "Pack a project folder into a single prompt document",
		Long: `promptpack converts a local project folder into a single formatted text
document for LLM prompts: a directory tree followed by the content of every
text file.

Files are filtered by built-in ignore patterns, the project's .gitignore and
any --exclude patterns, in that order; later patterns override earlier ones
and "!" re-includes. Binary files and files larger than --max-size are skipped.

Every flag can also be set through a PROMPTPACK_<FLAG> environment variable,
for example PROMPTPACK_MAX_SIZE or PROMPTPACK_EXCLUDE="*.log,tmp/".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return run(cmd, dir, env)
		},
	}

	config.RegisterFlags(rootCmd.Flags())

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func run(cmd *cobra.Command, dir string, env app.Env) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if env.Stderr == nil {
		env.Stderr = cmd.ErrOrStderr()
	}

	application := app.New(cfg, env)
	defer application.Shutdown()

	return application.Run(dir)
}
