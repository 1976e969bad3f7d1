package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mgpai22/cuetap/internal/video"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe [video_file]",
	Short: "Show duration and stream details of a video",
	Long: `Print what ffprobe reports about a video file: duration, size, frame
rate, codec and whether it has an audio track.

Examples:
  cuetap probe talk.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	if !video.IsMediaFile(videoPath) {
		return fmt.Errorf("unsupported media file: %s", videoPath)
	}

	logger.Debugw("Probing video", "video", videoPath)

	info, err := video.GetInfo(context.Background(), videoPath)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	absPath, _ := filepath.Abs(videoPath)
	fmt.Printf("%s\n", absPath)
	fmt.Printf("  Duration: %s\n", info.Duration.Round(time.Millisecond))
	if info.Width > 0 {
		fmt.Printf("  Size: %dx%d\n", info.Width, info.Height)
		fmt.Printf("  Frame rate: %.3f\n", info.FrameRate)
		fmt.Printf("  Codec: %s\n", info.Codec)
	}
	fmt.Printf("  Audio: %v\n", info.HasAudio)

	return nil
}
