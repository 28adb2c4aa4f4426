package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/op5no29/subtitle-generator/internal/config"
	"github.com/op5no29/subtitle-generator/internal/pipeline"
)

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Transcribe a video, translate the speech, and write an SRT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0])
		},
	}

	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().String("source", "auto", "Source language (auto, ja, en, zh, ko)")
	cmd.Flags().String("target", "en", "Target subtitle language")
	cmd.Flags().Bool("no-translate", false, "Keep subtitles in the recognized language")
	cmd.Flags().Bool("burn", false, "Also render a video with the subtitles burned in")
	cmd.Flags().Int("font-size", 0, "Burn-in font size (overrides config)")
	cmd.Flags().String("position", "", "Burn-in position: bottom, center, top (overrides config)")
	cmd.Flags().String("color", "", "Burn-in color: white, yellow, blue, green (overrides config)")
	cmd.Flags().String("user", "", "Account email for usage accounting")

	cmd.Flags().String("ffmpeg", "ffmpeg", "ffmpeg binary path")
	cmd.Flags().String("ffprobe", "ffprobe", "ffprobe binary path")
	_ = cmd.Flags().MarkHidden("ffmpeg")
	_ = cmd.Flags().MarkHidden("ffprobe")

	return cmd
}

func runProcess(cmd *cobra.Command, input string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	applyStyleOverrides(cmd, app)

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	noTranslate, _ := cmd.Flags().GetBool("no-translate")
	burn, _ := cmd.Flags().GetBool("burn")
	userEmail, _ := cmd.Flags().GetString("user")
	ffmpegPath, _ := cmd.Flags().GetString("ffmpeg")
	ffprobePath, _ := cmd.Flags().GetString("ffprobe")

	cfg := pipeline.Config{
		App:    app,
		Input:  absIn,
		OutDir: outDir,

		SourceLang:      source,
		TargetLang:      target,
		SkipTranslation: noTranslate,
		BurnIn:          burn,

		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,

		STTAPIKey:        os.Getenv("OPENAI_API_KEY"),
		TranslatorAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		UserEmail: userEmail,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	res, err := pipeline.RunSubtitles(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "subtitles: %s (%d cues, language %s",
		res.SRTPath, len(res.Cues), res.Detected.Name())
	if res.Translated {
		fmt.Fprint(cmd.OutOrStdout(), ", translated")
	}
	fmt.Fprintln(cmd.OutOrStdout(), ")")
	if res.VideoPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "video: %s\n", res.VideoPath)
	}
	return nil
}

func applyStyleOverrides(cmd *cobra.Command, app *config.Config) {
	if v, _ := cmd.Flags().GetInt("font-size"); v > 0 {
		app.Style.FontSize = v
	}
	if v, _ := cmd.Flags().GetString("position"); v != "" {
		app.Style.Position = v
	}
	if v, _ := cmd.Flags().GetString("color"); v != "" {
		app.Style.Color = v
	}
}
