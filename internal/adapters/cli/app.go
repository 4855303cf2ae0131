package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/devbush/vid2audio/internal/adapters/ffmpeg"
	"github.com/devbush/vid2audio/internal/config"
	"github.com/devbush/vid2audio/internal/logging"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	ConfigPath string
	Fs         afero.Fs
	Logger     *slog.Logger
	Transcoder *ffmpeg.Transcoder

	closeLog func() error
}

// NewApp loads configuration and wires up all dependencies
func NewApp(configPath, ffmpegPath string) (*App, error) {
	if configPath == "" {
		configPath = config.ConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	switch {
	case verboseFlag || cfg.Defaults.Verbose:
		level = "debug"
	case quietFlag || cfg.Defaults.Quiet:
		level = "error"
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:    level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	if ffmpegPath == "" {
		ffmpegPath = cfg.Paths.FFmpeg
	}

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Fs:         afero.NewOsFs(),
		Logger:     logger,
		Transcoder: ffmpeg.NewTranscoder(ffmpegPath),
		closeLog:   closeLog,
	}, nil
}

// Close releases resources held by the app
func (a *App) Close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

// SaveConfig writes the current configuration back to its file
func (a *App) SaveConfig() error {
	return a.Config.Save(a.ConfigPath)
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed
func GetApp() (*App, error) {
	if globalApp == nil {
		app, err := NewApp(configFlag, ffmpegFlag)
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	return globalApp, nil
}

func closeApp() {
	if globalApp != nil {
		_ = globalApp.Close()
		globalApp = nil
	}
}
