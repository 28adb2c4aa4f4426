package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/op5no29/subtitle-generator/internal/pipeline"
)

func newTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe an audio file to text or SRT without translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, args[0])
		},
	}

	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().String("language", "auto", "Spoken language hint (auto, ja, en, zh, ko)")
	cmd.Flags().Bool("srt", false, "Write timed SRT cues instead of plain text")
	cmd.Flags().String("user", "", "Account email for usage accounting")

	cmd.Flags().String("ffmpeg", "ffmpeg", "ffmpeg binary path")
	cmd.Flags().String("ffprobe", "ffprobe", "ffprobe binary path")
	_ = cmd.Flags().MarkHidden("ffmpeg")
	_ = cmd.Flags().MarkHidden("ffprobe")

	return cmd
}

func runTranscribe(cmd *cobra.Command, input string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	lang, _ := cmd.Flags().GetString("language")
	asSRT, _ := cmd.Flags().GetBool("srt")
	userEmail, _ := cmd.Flags().GetString("user")
	ffmpegPath, _ := cmd.Flags().GetString("ffmpeg")
	ffprobePath, _ := cmd.Flags().GetString("ffprobe")

	cfg := pipeline.Config{
		App:    app,
		Input:  absIn,
		OutDir: outDir,

		SourceLang:      lang,
		SkipTranslation: true,
		SRTOutput:       asSRT,

		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,

		STTAPIKey: os.Getenv("OPENAI_API_KEY"),

		UserEmail: userEmail,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	res, err := pipeline.RunTranscribe(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "transcript: %s (language %s)\n", res.OutPath, res.Detected.Name())
	return nil
}
