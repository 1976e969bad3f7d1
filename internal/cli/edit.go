package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/editor"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/mgpai22/cuetap/internal/mpv"
	"github.com/mgpai22/cuetap/internal/playback"
	"github.com/mgpai22/cuetap/internal/subtitle"
	"github.com/mgpai22/cuetap/internal/tui"
	"github.com/mgpai22/cuetap/internal/video"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [video_file]",
	Short: "Time subtitles in the terminal",
	Long: `Open the terminal editor. With a video file, the video plays in mpv and
Enter stamps the current line with mpv's playback position. Without one,
a stopwatch started with Ctrl+P stands in for the player.

While paused: Enter inserts a row, Up/Down move, Alt+Backspace clears the
row's time and Alt+Delete removes the row.
While playing: Enter stamps the row and moves to the next one.
Ctrl+S exports, Ctrl+C quits.

Examples:
  cuetap edit talk.mp4 --lines script.txt
  cuetap edit talk.mp4 --resume talk.srt -o talk.srt
  cuetap edit --lines script.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().
		String("lines", "", "Text file with one subtitle line per row")
	editCmd.Flags().
		String("resume", "", "SRT file to continue from (texts and start times)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	linesPath, _ := cmd.Flags().GetString("lines")
	resumePath, _ := cmd.Flags().GetString("resume")
	outputDir, filename := outputTarget(cmd)

	// the terminal belongs to the UI from here on
	fileLogger := logging.NewFileLogger(logging.FileOptions{
		Path:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}, verbose)
	defer func() { _ = fileLogger.Sync() }()

	table := cue.NewTable()
	if resumePath != "" {
		n, err := loadSRT(table, resumePath)
		if err != nil {
			return err
		}
		fileLogger.Infow("Resumed subtitles", "file", resumePath, "cues", n)
	}
	if linesPath != "" {
		n, err := loadLines(table, linesPath)
		if err != nil {
			return err
		}
		fileLogger.Infow("Loaded script", "file", linesPath, "lines", n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := tui.Options{
		OutputDir: outputDir,
		Filename:  filename,
		Logger:    fileLogger,
	}

	if len(args) == 1 {
		videoPath := args[0]
		if !video.IsMediaFile(videoPath) {
			return fmt.Errorf("unsupported media file: %s", videoPath)
		}

		info, err := video.GetInfo(ctx, videoPath)
		if err != nil {
			// mpv can often play what ffprobe cannot read
			fileLogger.Warnw("Could not probe video", "video", videoPath, "error", err)
		} else {
			opts.Duration = info.Duration
		}

		player := mpv.NewPlayer(mpv.PlayerOptions{
			BinaryPath:  cfg.Player.MPVPath,
			SocketDir:   cfg.Player.SocketDir,
			StartPaused: cfg.Player.StartPaused,
		}, fileLogger)
		defer player.Close()

		client, err := player.Load(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("failed to start player: %w", err)
		}
		gate := playback.NewMPV(client, fileLogger)
		opts.Gate = gate
		opts.Transport = gate
		opts.VideoPath = player.Video()
	} else {
		clock := playback.NewClock()
		opts.Gate = clock
		opts.Transport = clock
	}

	writer := subtitle.NewSRTWriter()
	writer.FinalCueDuration = cfg.Subtitle.FinalCueDuration
	opts.Writer = writer
	opts.Controller = editor.New(table, opts.Gate, fileLogger)

	final, err := tui.Run(opts)
	if err != nil {
		return err
	}

	if path := final.LastExport(); path != "" {
		fmt.Printf("Subtitles saved: %s\n", path)
		fmt.Printf("  Cues: %d\n", table.Len())
	}
	return nil
}
