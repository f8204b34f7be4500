// Package cmd provides the root command and CLI setup for lstt.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lstt/internal/adapter"
	"lstt/internal/controller"
	"lstt/internal/domain"
)

var toolRunner adapter.ToolRunner
var reportStore adapter.ReportStore
var scraper adapter.ShopScraper
var downloader adapter.Downloader
var resizer adapter.Resizer
var ui controller.UI
var checker domain.Checker
var importer domain.Importer

// downloadDirFlag is a root-level flag shared by the commands that write and
// read the download directory.
var downloadDirFlag string

// plainFlag forces line-by-line output instead of the progress display.
var plainFlag bool

// verboseFlag switches the log file to debug level.
var verboseFlag bool

const rootLongDescription = `lstt copies a sticker set from the LINE sticker shop into a new Telegram
sticker set: it scrapes the shop page, downloads every sticker image,
rescales each one to the 512px Telegram sticker geometry and uploads the
results through the Bot API.

The bot token and user id come from flags, lstt.yaml, LSTT_* environment
variables or a .env file in the working directory.

It also carries the maintenance tasks for the legacy Python import script
(see "lstt check").`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lstt",
		Short: "LINE sticker set importer for Telegram",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	toolRunner = adapter.NewExecToolRunner()
	reportStore = adapter.NewYAMLReportStore()
	scraper = adapter.NewLineShop(nil)
	downloader = adapter.NewHTTPDownloader(nil)
	resizer = adapter.NewPNGResizer()
	checker = domain.NewChecker(toolRunner, os.Stdout, os.Stderr)
	assembleImporter()

	// Flags are only parsed once a command runs, so the log level and the
	// UI flavor are settled here rather than at package load.
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		configureLogger("", viper.GetBool(logVerboseKey))

		ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout) && !viper.GetBool(plainFlagName))
		assembleImporter()

		return nil
	}
}

// assembleImporter rebuilds the import pipeline over the current UI.
func assembleImporter() {
	importer = domain.NewImporter(scraper, downloader, resizer, telegramPublisher, reportStore, ui)
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&downloadDirFlag, downloadDirFlagName, "d",
			viper.GetString(downloadDirConfigKey),
			"directory the sticker images and the run report land in",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(downloadDirFlagName), downloadDirConfigKey)

	cmd.PersistentFlags().BoolVar(&plainFlag, plainFlagName, viper.GetBool(plainFlagName), "plain line output instead of the progress display")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(plainFlagName), plainFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log debug details to the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
