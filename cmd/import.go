package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lstt/internal/adapter"
	"lstt/internal/domain"
	m "lstt/internal/model"
)

var importParallelFlag int
var importLimitFlag int
var importTokenFlag string
var importUserIDFlag int64

const importLongDescription = `Copy the sticker set on a LINE shop page into a new Telegram sticker set.

PAGE_URL is the address of the LINE sticker shop product page.
SET_NAME identifies the new Telegram set: it must begin with a letter, may
contain only letters, digits and underscores, must not contain consecutive
underscores and must end in "_by_<bot username>". 1-64 characters.
SET_TITLE is the human-readable set title, 1-64 characters.`

// importCmd represents the import command.
var importCmd = newImportCmd()

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import PAGE_URL SET_NAME SET_TITLE",
		Short: "Copy a LINE sticker set into a new Telegram sticker set",
		Long:  importLongDescription,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return importer.Import(context.Background(), domain.ImportArgs{
				PageURL:     args[0],
				SetName:     args[1],
				SetTitle:    args[2],
				DownloadDir: m.Path(viper.GetString(downloadDirConfigKey)),
				Parallel:    viper.GetInt(importParallelConfigKey),
				Limit:       viper.GetInt(importLimitConfigKey),
			})
		},
	}

	configureImportFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func configureImportFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&importParallelFlag, parallelFlagName, "p", viper.GetInt(importParallelConfigKey), "number of parallel downloads and resizes")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), importParallelConfigKey)

	cmd.Flags().IntVarP(&importLimitFlag, limitFlagName, "l", viper.GetInt(importLimitConfigKey), "import only the first N stickers found (0 imports all)")
	bindFlagToConfig(cmd.Flags().Lookup(limitFlagName), importLimitConfigKey)

	cmd.Flags().StringVar(&importTokenFlag, tokenFlagName, viper.GetString(telegramTokenKey), "telegram bot token")
	bindFlagToConfig(cmd.Flags().Lookup(tokenFlagName), telegramTokenKey)

	cmd.Flags().Int64Var(&importUserIDFlag, userIDFlagName, viper.GetInt64(telegramUserIDKey), "telegram user id owning the new set")
	bindFlagToConfig(cmd.Flags().Lookup(userIDFlagName), telegramUserIDKey)
}

// telegramPublisher builds the Bot API client for one import run. Missing
// credentials surface here, before any page is scraped.
func telegramPublisher() (adapter.StickerPublisher, error) {
	token := strings.TrimSpace(viper.GetString(telegramTokenKey))
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured (--token, %s in %s or %s_TELEGRAM_TOKEN)", telegramTokenKey, configFileName, envPrefix)
	}

	userID := viper.GetInt64(telegramUserIDKey)
	if userID == 0 {
		return nil, fmt.Errorf("telegram user id is not configured (--user-id or %s in %s)", telegramUserIDKey, configFileName)
	}

	return adapter.NewBotAPI(viper.GetString(telegramAPIBaseKey), token, userID, nil), nil
}
