package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgpai22/cuetap/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Time subtitles in the browser",
	Long: `Serve the browser editor. Open the printed address, pick a video file,
paste the script into the table and tap Enter while the video plays.
Export downloads the SRT file from the page.

Examples:
  cuetap serve
  cuetap serve --addr 127.0.0.1:9000 -o talk.srt`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		String("addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}
	_, filename := outputTarget(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(web.ServerOptions{
		Addr:             addr,
		FinalCueDuration: cfg.Subtitle.FinalCueDuration,
		DefaultFilename:  filename,
		Logger:           logger,
	})

	fmt.Printf("Editor running at http://%s (Ctrl+C to stop)\n", addr)
	if err := server.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Infow("Server stopped")
	return nil
}
