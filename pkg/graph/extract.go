package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sigco3111/relationship-visualizer/pkg/ai"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
)

const tokenEncoding = "o200k_base"

type analysisCharacter struct {
	Name        string `json:"name" jsonschema_description:"Name of the character, unique within the answer"`
	Role        string `json:"role" jsonschema:"enum=main,enum=support,enum=villain,enum=minor" jsonschema_description:"Narrative role of the character"`
	Description string `json:"description" jsonschema_description:"Short description of who the character is"`
}

type analysisRelationship struct {
	From        string `json:"from" jsonschema_description:"Name of the first character, exactly as listed in characters"`
	To          string `json:"to" jsonschema_description:"Name of the second character, exactly as listed in characters"`
	Type        string `json:"type" jsonschema:"enum=family,enum=lover,enum=friend,enum=enemy,enum=colleague,enum=mentor" jsonschema_description:"Kind of relationship"`
	Description string `json:"description" jsonschema_description:"How the two characters are related"`
}

type analysisResponse struct {
	Characters    []analysisCharacter    `json:"characters" jsonschema_description:"Main characters of the work"`
	Relationships []analysisRelationship `json:"relationships" jsonschema_description:"Relationships between the listed characters"`
}

func (a *Analyzer) buildPrompt(ctx context.Context, req Request) (string, error) {
	switch req.Mode {
	case ModeTitle:
		return fmt.Sprintf(ai.AnalyzeTitlePrompt, strings.TrimSpace(req.Input)), nil
	case ModeURL:
		text, err := a.fetcher.FetchText(ctx, req.Input)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("no readable text at %s", req.Input)
		}
		return fmt.Sprintf(ai.AnalyzeContentPrompt, a.truncate(text)), nil
	default:
		return fmt.Sprintf(ai.AnalyzeContentPrompt, a.truncate(req.Input)), nil
	}
}

// truncate cuts text to maxInputTokens tokens. Every token covers at least
// one byte, so text no longer than the limit in bytes is returned untouched
// without loading the encoder.
func (a *Analyzer) truncate(text string) string {
	text = strings.TrimSpace(text)
	if a.maxInputTokens <= 0 || len(text) <= a.maxInputTokens {
		return text
	}

	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		logger.Warn("[Analyzer] Token encoder unavailable, sending full input", "err", err)
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= a.maxInputTokens {
		return text
	}

	logger.Debug("[Analyzer] Truncating input", "tokens", len(tokens), "limit", a.maxInputTokens)
	return enc.Decode(tokens[:a.maxInputTokens])
}
