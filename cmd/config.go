package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"lstt/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "lstt"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	downloadDirFlagName = "download-dir"
	plainFlagName       = "plain"
	verboseFlagName     = "verbose"
	parallelFlagName    = "parallel"
	limitFlagName       = "limit"
	tokenFlagName       = "token"
	userIDFlagName      = "user-id"
	scriptFlagName      = "script"

	downloadDirConfigKey    = "download_dir"
	importParallelConfigKey = "import.parallel"
	importLimitConfigKey    = "import.limit"
	telegramTokenKey        = "telegram.token"
	telegramUserIDKey       = "telegram.user_id"
	telegramAPIBaseKey      = "telegram.api_base"
	checkScriptKey          = "check.script"

	defaultParallel   = 1
	defaultLimit      = 0
	defaultScriptPath = "./lstt.py"

	envPrefix = "LSTT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".lstt.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// Secrets such as the bot token may live in a .env file in the working
	// directory; load it before viper starts reading the environment.
	_ = godotenv.Load()

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(downloadDirConfigKey, defaultDownloadDir())
	viper.SetDefault(plainFlagName, false)
	viper.SetDefault(importParallelConfigKey, defaultParallel)
	viper.SetDefault(importLimitConfigKey, defaultLimit)
	viper.SetDefault(telegramTokenKey, "")
	viper.SetDefault(telegramUserIDKey, 0)
	viper.SetDefault(telegramAPIBaseKey, adapter.DefaultAPIBase)
	viper.SetDefault(checkScriptKey, defaultScriptPath)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// A malformed config file never blocks the CLI; the defaults
			// apply and the problem is reported.
			slog.Warn("ignoring unreadable config file", "file", configFileName, "error", err)
		}
	}
}

// defaultDownloadDir is the classic sticker drop location under the user's
// home, falling back to a relative directory when home cannot be resolved.
func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Downloads", "lstt")
	}

	return filepath.Join(home, "Downloads", "lstt")
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	// The log file rotates so long sessions cannot grow it unbounded.
	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
