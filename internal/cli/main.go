package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/op5no29/subtitle-generator/internal/config"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "subgen",
		Short:         "Generate translated subtitles for local video and audio files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().String("config", "", "Path to TOML config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	root.PersistentFlags().Bool("quiet", false, "Errors only")
	root.PersistentFlags().String("log-file", "", "Also write logs to this file (rotated)")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newTranscribeCmd())
	root.AddCommand(newUsersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logFile, _ := cmd.Flags().GetString("log-file")

	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func loadApp(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
