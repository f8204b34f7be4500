package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build this tool.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("lstt version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)

			// Module builds carry the vcs state when available.
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					cmd.Println("vcs revision\t", setting.Value)
				case "vcs.time":
					cmd.Println("vcs time\t", setting.Value)
				}
			}
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
