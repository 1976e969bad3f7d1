package translate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mgpai22/cuetap/internal/cue"
	"github.com/mgpai22/cuetap/internal/logging"
)

// DefaultBatchSize is the number of cues sent per request.
const DefaultBatchSize = 50

// Item is one cue text, keyed by its row index in the table.
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Completer sends one prompt to a language model and returns the text of
// its answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// APIKeyEnv names the environment variable holding the provider's key.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	}
	return "API_KEY"
}

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
	Concurrency    int // parallel requests (default 3)
	// keep the original under the translation in each cue
	Overlay bool
}

// Translator translates cue texts in batches through a Completer.
type Translator struct {
	completer Completer
	opts      Options
	logger    *logging.Logger
}

func New(completer Completer, opts Options, logger *logging.Logger) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Translator{completer: completer, opts: opts, logger: logger}, nil
}

// Factory builds a Translator backed by the given provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
	logger *logging.Logger,
) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	var completer Completer
	var err error
	switch provider {
	case ProviderGemini:
		completer, err = NewGeminiCompleter(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		completer, err = NewOpenAICompleter(apiKey, opts.Model)
	case ProviderAnthropic:
		completer, err = NewAnthropicCompleter(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return New(completer, opts, logger)
}

func (t *Translator) batchSize() int {
	if t.opts.BatchSize > 0 {
		return t.opts.BatchSize
	}
	return DefaultBatchSize
}

func (t *Translator) concurrency() int {
	if t.opts.Concurrency > 0 {
		return t.opts.Concurrency
	}
	return 3
}

// Translate returns one translated item per input item, sorted by index.
// Batches run on up to Concurrency workers; the first failing batch
// cancels the rest.
func (t *Translator) Translate(ctx context.Context, items []Item) ([]Item, error) {
	if len(items) == 0 {
		return []Item{}, nil
	}

	batchSize := t.batchSize()
	var batches [][]Item
	for i := 0; i < len(items); i += batchSize {
		batches = append(batches, items[i:min(i+batchSize, len(items))])
	}

	if len(batches) == 1 {
		return t.translateBatch(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []Item
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < t.concurrency() && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batchIdx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := t.translateBatch(ctx, batches[batchIdx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						Index:   batchIdx,
						Results: results,
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var allResults []Item
	var firstErr error
	done := 0
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", result.Index, result.Error)
				cancel()
			}
			continue
		}
		done++
		allResults = append(allResults, result.Results...)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if done != len(batches) {
		// workers stopped early because ctx ended
		return nil, fmt.Errorf("translation interrupted: %w", context.Cause(ctx))
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})
	return allResults, nil
}

func (t *Translator) translateBatch(ctx context.Context, items []Item) ([]Item, error) {
	prompt := BuildPrompt(t.opts, items)

	text, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	text = cleanJSONResponse(text)
	results, err := extractResults(text)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(text, 200),
		)
	}

	if len(results) != len(items) {
		return nil, fmt.Errorf("expected %d results, got %d", len(items), len(results))
	}

	want := make(map[int]bool, len(items))
	for _, item := range items {
		want[item.Index] = true
	}
	for _, r := range results {
		if !want[r.Index] {
			return nil, fmt.Errorf("response has unexpected index %d", r.Index)
		}
		delete(want, r.Index)
	}

	t.logger.Debugw("Translated batch", "items", len(items), "first", items[0].Index)
	return results, nil
}

// TranslateTable translates every non-blank cue of table in place. Start
// times are never touched. The table is only written once every batch has
// succeeded.
func TranslateTable(ctx context.Context, t *Translator, table *cue.Table) (int, error) {
	rows := table.Snapshot()

	var items []Item
	for i, row := range rows {
		if strings.TrimSpace(row.Text) == "" {
			continue
		}
		items = append(items, Item{Index: i, Text: row.Text})
	}

	results, err := t.Translate(ctx, items)
	if err != nil {
		return 0, err
	}

	for _, r := range results {
		text := r.Text
		if t.opts.Overlay {
			text = r.Text + "\n" + rows[r.Index].Text
		}
		table.SetTextAt(r.Index, text)
	}
	return len(results), nil
}
