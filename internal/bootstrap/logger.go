package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/logger"
)

// SetupLogger installs the process logger writing to stdout and a rotating file in
// cfg.LogDir. The returned closer flushes the file and must be closed on exit.
func SetupLogger(cfg *config.Config) (io.Closer, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, LogFileName),
		MaxSize:    LogFileMaxSizeMB,
		MaxBackups: LogFileRetentionCount,
		MaxAge:     LogFileMaxAgeDays,
	}

	logCfg := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, cfg.IsDevelopment())
	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(os.Stdout, file))

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "file", file.Filename)
	slog.Info(LogMsgStartingMonsters,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"store_driver", cfg.StoreDriver,
		"db_host", cfg.DBHost,
		"db_name", cfg.DBName,
		"sqlite_path", cfg.SQLitePath,
		"loot_backend", cfg.LootBackend,
		"port", cfg.Port)

	return file, nil
}
