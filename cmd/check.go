package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lstt/internal/domain"
	m "lstt/internal/model"
)

var checkScriptFlag string

const checkLongDescription = `Run the maintenance tasks for the legacy Python import script: format it
with ` + domain.FormatterTool + ` (line length 79, target version py38) and type-check it with
` + domain.TypeCheckerTool + `. Without a subcommand both tasks run in that order and the first
failure stops the run; the type checker always sees the formatted file.

Each tool's own diagnostics pass through on its original streams.`

// checkCmd represents the check command group. Bare "lstt check" runs the
// aggregate task, same as "lstt check all".
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Format and type-check the legacy import script",
		Long:  checkLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			return checker.All(context.Background(), checkTarget())
		},
	}

	cmd.PersistentFlags().StringVarP(&checkScriptFlag, scriptFlagName, "s", viper.GetString(checkScriptKey), "path of the script to format and type-check")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(scriptFlagName), checkScriptKey)

	cmd.AddCommand(newCheckAllCmd(), newCheckFormatCmd(), newCheckTypecheckCmd())

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func newCheckAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the format task, then the typecheck task",
		Long: `Run the format task and then the typecheck task against the configured
script, stopping at the first failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			return checker.All(context.Background(), checkTarget())
		},
	}
}

func newCheckFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Rewrite the script in place with " + domain.FormatterTool,
		Long: `Rewrite the configured script in place with ` + domain.FormatterTool + ` at line length 79 and
target version py38. Those settings are fixed; the script's style is frozen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			return checker.Format(context.Background(), checkTarget())
		},
	}
}

func newCheckTypecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck",
		Short: "Report type inconsistencies found by " + domain.TypeCheckerTool,
		Long: `Run ` + domain.TypeCheckerTool + ` with its default options against the configured script and
report any type inconsistency it finds on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			return checker.TypeCheck(context.Background(), checkTarget())
		},
	}
}

// checkTarget is the script path the check tasks operate on.
func checkTarget() m.Path {
	return m.Path(viper.GetString(checkScriptKey))
}
