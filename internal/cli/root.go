package cli

import (
	"path/filepath"

	"github.com/mgpai22/cuetap/internal/config"
	"github.com/mgpai22/cuetap/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cuetap",
	Short: "Time subtitles by tapping along with a video",
	Long: `Cuetap is a subtitle timing editor. Paste or load a script, play the
video, and press Enter as each line is spoken. The result is written
as an SRT file.

Run "cuetap edit" for the terminal editor or "cuetap serve" for the
browser editor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.NewLogger(verbose)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default ./cuetap.yaml or ~/.cuetap/cuetap.yaml)")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Output subtitle file (default from config, a.srt)")
}

// outputTarget splits the --output flag into a directory and a file name,
// falling back to the configured ones.
func outputTarget(cmd *cobra.Command) (dir, filename string) {
	dir, filename = cfg.Output.Directory, cfg.Output.Filename

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		return dir, filename
	}
	if d := filepath.Dir(outputPath); d != "." {
		dir = d
	}
	return dir, filepath.Base(outputPath)
}
