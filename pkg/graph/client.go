package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sigco3111/relationship-visualizer/internal/util"
	"github.com/sigco3111/relationship-visualizer/pkg/ai"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
)

// Mode selects how the analysis input is interpreted.
type Mode string

const (
	// ModeTitle treats the input as the title of a known work.
	ModeTitle Mode = "title"
	// ModeContent treats the input as a synopsis or excerpt.
	ModeContent Mode = "content"
	// ModeURL fetches the readable text of a page and analyzes it as content.
	ModeURL Mode = "url"
)

var (
	ErrEmptyInput     = errors.New("analysis input is empty")
	ErrUnknownMode    = errors.New("unknown analysis mode")
	ErrURLModeOff     = errors.New("url analysis is not configured")
	ErrNoInferenceAPI = errors.New("analyzer requires an inference client")
)

// TextFetcher returns the readable text behind a URL.
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// Request is one analysis job.
type Request struct {
	Mode  Mode
	Input string
}

// Analyzer turns a title, a synopsis or a page into a character graph by
// asking the inference collaborator and normalizing whatever comes back.
//
// An Analyzer should be created using NewAnalyzer. It holds no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	client         ai.GraphAIClient
	fetcher        TextFetcher
	maxRetries     int
	maxInputTokens int
	structured     bool
	retryDelay     time.Duration
	timeout        time.Duration
}

// NewAnalyzerParams defines the configuration for creating an Analyzer.
//
// Fetcher may be nil, which disables ModeURL. MaxInputTokens <= 0 disables
// truncation of content input. Timeout bounds a single analysis; zero means
// no limit beyond the caller's context.
type NewAnalyzerParams struct {
	Client         ai.GraphAIClient
	Fetcher        TextFetcher
	MaxRetries     int
	MaxInputTokens int
	Structured     bool
	RetryDelay     time.Duration
	Timeout        time.Duration
}

// NewAnalyzer creates an Analyzer configured with the provided parameters.
//
// Example:
//
//	analyzer, err := graph.NewAnalyzer(graph.NewAnalyzerParams{
//		Client:         aiClient,
//		MaxRetries:     3,
//		MaxInputTokens: 8000,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewAnalyzer(params NewAnalyzerParams) (*Analyzer, error) {
	if params.Client == nil {
		return nil, ErrNoInferenceAPI
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Analyzer{
		client:         params.Client,
		fetcher:        params.Fetcher,
		maxRetries:     maxRetries,
		maxInputTokens: params.MaxInputTokens,
		structured:     params.Structured,
		retryDelay:     params.RetryDelay,
		timeout:        params.Timeout,
	}, nil
}

// Validate reports whether req can be analyzed by a.
func (a *Analyzer) Validate(req Request) error {
	if req.Input == "" {
		return ErrEmptyInput
	}
	switch req.Mode {
	case ModeTitle, ModeContent:
		return nil
	case ModeURL:
		if a.fetcher == nil {
			return ErrURLModeOff
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
}

// Analyze runs one analysis. Inference and fetch failures never surface as
// errors: they are folded into a fallback Result carrying a warning. The
// returned error is either a validation error from Validate or the context's
// error when ctx was cancelled before the answer was applied.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (Result, error) {
	if err := a.Validate(req); err != nil {
		return Result{}, err
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger.Info("[Analyzer] Starting analysis", "mode", req.Mode)
	start := time.Now()

	prompt, err := a.buildPrompt(callCtx, req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return NormalizeResponse(nil, fmt.Errorf("failed to load input: %w", err)), nil
	}

	var result Result
	if a.structured {
		result = a.analyzeStructured(callCtx, prompt)
	} else {
		result = a.analyzeText(callCtx, prompt)
	}
	if ctx.Err() != nil {
		logger.Debug("[Analyzer] Analysis cancelled", "mode", req.Mode)
		return Result{}, ctx.Err()
	}

	logger.Info("[Analyzer] Analysis finished",
		"mode", req.Mode,
		"fallback", result.Fallback,
		"characters", len(result.Graph.Characters),
		"duration", time.Since(start),
	)
	return result, nil
}

func (a *Analyzer) analyzeText(ctx context.Context, prompt string) Result {
	answer, err := util.RetryWithBackoff(ctx, a.maxRetries, a.retryDelay,
		func(ctx context.Context) (string, error) {
			return a.client.GenerateCompletion(ctx, prompt, ai.WithSystemPrompts(ai.GraphFormatInstructions))
		},
	)
	return NormalizeResponse(answer, err)
}

func (a *Analyzer) analyzeStructured(ctx context.Context, prompt string) Result {
	answer, err := util.RetryWithBackoff(ctx, a.maxRetries, a.retryDelay,
		func(ctx context.Context) (*analysisResponse, error) {
			out := new(analysisResponse)
			err := a.client.GenerateCompletionWithFormat(
				ctx,
				"character_relationships",
				"Characters of a work and the relationships between them",
				prompt,
				out,
				ai.WithSystemPrompts(ai.GraphFormatInstructions),
			)
			return out, err
		},
	)
	if errors.Is(err, ai.ErrMalformedOutput) {
		return parseFailure(err.Error())
	}
	return NormalizeResponse(answer, err)
}
