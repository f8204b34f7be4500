package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "lstt/internal/model"
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the report saved by the last import",
		Long:  "Show the per-sticker outcome report the last import saved into the download directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			return importer.Report(context.Background(), m.Path(viper.GetString(downloadDirConfigKey)))
		},
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
