package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lstt/internal/adapter"
	m "lstt/internal/model"
)

func newImportTestCmd() *cobra.Command {
	cmd := newRootCmd()
	cmd.AddCommand(newImportCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd
}

func TestNewImportCmd(t *testing.T) {
	cmd := newImportCmd()

	assert.Equal(t, "import PAGE_URL SET_NAME SET_TITLE", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, importLongDescription, cmd.Long)

	assert.NotNil(t, cmd.Flags().Lookup(parallelFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(limitFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(tokenFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(userIDFlagName))
}

func TestImportCmd_PassesArguments(t *testing.T) {
	fake := &fakeImporter{}
	swapImporter(t, fake)

	cmd := newImportTestCmd()
	cmd.SetArgs([]string{
		"import",
		"https://store.line.me/stickershop/product/1/en",
		"pack_by_bot",
		"My Pack",
		"--download-dir", "/tmp/stickers",
		"--parallel", "4",
		"--limit", "7",
	})

	require.NoError(t, cmd.Execute())

	require.NotNil(t, fake.importArgs)
	assert.Equal(t, "https://store.line.me/stickershop/product/1/en", fake.importArgs.PageURL)
	assert.Equal(t, "pack_by_bot", fake.importArgs.SetName)
	assert.Equal(t, "My Pack", fake.importArgs.SetTitle)
	assert.Equal(t, m.Path("/tmp/stickers"), fake.importArgs.DownloadDir)
	assert.Equal(t, 4, fake.importArgs.Parallel)
	assert.Equal(t, 7, fake.importArgs.Limit)
}

func TestImportCmd_UsesConfiguredDefaults(t *testing.T) {
	fake := &fakeImporter{}
	swapImporter(t, fake)

	cmd := newImportTestCmd()
	cmd.SetArgs([]string{"import", "https://store.line.me/stickershop/product/1/en", "pack_by_bot", "My Pack"})

	require.NoError(t, cmd.Execute())

	require.NotNil(t, fake.importArgs)
	assert.Equal(t, m.Path(defaultDownloadDir()), fake.importArgs.DownloadDir)
	assert.Equal(t, defaultParallel, fake.importArgs.Parallel)
	assert.Equal(t, defaultLimit, fake.importArgs.Limit)
}

func TestImportCmd_RequiresThreeArgs(t *testing.T) {
	fake := &fakeImporter{}
	swapImporter(t, fake)

	cmd := newImportTestCmd()
	cmd.SetArgs([]string{"import", "https://store.line.me/stickershop/product/1/en"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Nil(t, fake.importArgs)
}

func TestImportCmd_PropagatesError(t *testing.T) {
	fake := &fakeImporter{importErr: errors.New("no stickers were uploaded to pack_by_bot")}
	swapImporter(t, fake)

	cmd := newImportTestCmd()
	cmd.SetArgs([]string{"import", "https://store.line.me/stickershop/product/1/en", "pack_by_bot", "My Pack"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stickers were uploaded")
}

func TestImportCmd_TokenFlagFeedsConfig(t *testing.T) {
	fake := &fakeImporter{}
	swapImporter(t, fake)

	cmd := newImportTestCmd()
	cmd.SetArgs([]string{
		"import", "https://store.line.me/stickershop/product/1/en", "pack_by_bot", "My Pack",
		"--token", "12345:token-from-flag",
		"--user-id", "777",
	})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "12345:token-from-flag", viper.GetString(telegramTokenKey))
	assert.Equal(t, int64(777), viper.GetInt64(telegramUserIDKey))
}

func TestTelegramPublisher_MissingToken(t *testing.T) {
	// A fresh command rebinds the config keys to unset flags so the
	// environment decides.
	newImportCmd()
	t.Setenv("LSTT_TELEGRAM_TOKEN", "")
	t.Setenv("LSTT_TELEGRAM_USER_ID", "42")

	publisher, err := telegramPublisher()
	require.Error(t, err)
	assert.Nil(t, publisher)
	assert.Contains(t, err.Error(), "token is not configured")
}

func TestTelegramPublisher_MissingUserID(t *testing.T) {
	newImportCmd()
	t.Setenv("LSTT_TELEGRAM_TOKEN", "12345:abcdef")
	t.Setenv("LSTT_TELEGRAM_USER_ID", "")

	publisher, err := telegramPublisher()
	require.Error(t, err)
	assert.Nil(t, publisher)
	assert.Contains(t, err.Error(), "user id is not configured")
}

func TestTelegramPublisher_FromEnvironment(t *testing.T) {
	newImportCmd()
	t.Setenv("LSTT_TELEGRAM_TOKEN", "12345:abcdef")
	t.Setenv("LSTT_TELEGRAM_USER_ID", "42")

	publisher, err := telegramPublisher()
	require.NoError(t, err)
	require.NotNil(t, publisher)
	assert.IsType(t, &adapter.BotAPI{}, publisher)
}
