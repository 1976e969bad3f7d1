package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/export"
	"github.com/mgpai22/cuetap/internal/subtitle"
	"github.com/mgpai22/cuetap/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate the text of a timed SRT file using AI",
	Long: `Translate the cue texts of an SRT file and keep every start time, so a
script timed once can be reused for another language.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

API keys are read from GEMINI_API_KEY, OPENAI_API_KEY or
ANTHROPIC_API_KEY unless --api-key is given.

Examples:
  cuetap translate talk.srt --to japanese
  cuetap translate talk.srt --to es --overlay --provider openai
  cuetap translate talk.srt --from english --to german -o talk.de.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("to", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		String("from", "", "Language of the subtitle file (optional)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set the provider's *_API_KEY env var)")
	translateCmd.Flags().
		String("provider", "", "Translation provider: gemini, openai, anthropic (default from config)")
	translateCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("prompt", "", "Extra instructions for the translator")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation requests (default from config)")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of cues per API request (default from config)")

	_ = translateCmd.MarkFlagRequired("to")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]

	targetLang, _ := cmd.Flags().GetString("to")
	inputLang, _ := cmd.Flags().GetString("from")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")

	srtExt := subtitle.GetExtensionForFormat(subtitle.FormatSRT)
	if !strings.EqualFold(filepath.Ext(subtitlePath), srtExt) {
		return fmt.Errorf("unsupported subtitle format %q: use %s", filepath.Ext(subtitlePath), srtExt)
	}
	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" && strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if providerStr == "" {
		providerStr = cfg.Translate.Provider
	}
	if model == "" {
		model = cfg.Translate.Model
	}
	if concurrency == 0 {
		concurrency = cfg.Translate.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.Translate.BatchSize
	}
	if concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize < 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	provider := translate.Provider(providerStr)
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.APIKeyEnv(),
		)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		lang := strings.ToLower(strings.TrimSpace(targetLang))
		if overlay {
			outputPath = fmt.Sprintf("%s.%s.overlay%s", base, lang, srtExt)
		} else {
			outputPath = fmt.Sprintf("%s.%s%s", base, lang, srtExt)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	table := cue.NewTable()
	n, err := loadSRT(table, subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("subtitle file contains no cues")
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"cues", n,
		"provider", provider,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", overlay,
	)

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
		Concurrency:    concurrency,
		Overlay:        overlay,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	translated, err := translate.TranslateTable(ctx, translator, table)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	logger.Infow("Translation complete", "cues", translated)

	writer := subtitle.NewSRTWriter()
	writer.FinalCueDuration = cfg.Subtitle.FinalCueDuration
	artifact := export.Build(writer, table, filepath.Base(outputPath))
	path, err := export.Save(filepath.Dir(outputPath), artifact)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(path)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Cues: %d (%d translated)\n", artifact.Cues, translated)
	fmt.Printf("  Target language: %s\n", targetLang)
	if overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}

	return nil
}
