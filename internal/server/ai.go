package server

import (
	"github.com/sigco3111/relationship-visualizer/internal/util"
	"github.com/sigco3111/relationship-visualizer/pkg/ai"
	oai "github.com/sigco3111/relationship-visualizer/pkg/ai/ollama"
	gai "github.com/sigco3111/relationship-visualizer/pkg/ai/openai"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
)

// newAIClient picks the inference backend from AI_ADAPTER. Anything other
// than "ollama" uses the OpenAI compatible client.
func newAIClient() (ai.GraphAIClient, error) {
	adapter := util.GetEnvString("AI_ADAPTER", "openai")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ChatModel: util.GetEnv("AI_CHAT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using Ollama inference backend", "model", util.GetEnv("AI_CHAT_MODEL"))
		return client, nil
	default:
		key := util.GetEnv("AI_CHAT_KEY")
		if key == "" {
			logger.Warn("AI_CHAT_KEY is not set, every analysis will use the default example graph")
		}
		logger.Info("Using OpenAI compatible inference backend", "model", util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"))
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ChatModel: util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),
			ChatURL:   util.GetEnv("AI_CHAT_URL"),
			ChatKey:   key,
		}), nil
	}
}
