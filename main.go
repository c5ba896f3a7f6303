package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/genai"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/embed"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/geo"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/repo"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/search"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/service"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
	pkgredis "github.com/DarkCodePE/agent-auto-nort/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Extraction   model.ExtractionModelConfig
	Response     model.ResponseModelConfig
	Router       model.RouterConfig
	Search       model.SearchConfig
	Geo          model.GeoConfig
	Conversation model.ConversationConfig
}

func main() {
	fmt.Println("Asistente de Revisiones Técnicas del Perú")
	ctx := context.Background()
	logx.Init()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	// ====================================================
	// Shared Gemini client for embeddings; chat models build their own.
	clientCfg := &genai.ClientConfig{APIKey: envCfg.APIKey, Backend: genai.BackendGeminiAPI}
	if envCfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = envCfg.BaseURL
	}
	genaiClient, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	embedder, err := embed.NewGeminiEmbedder(genaiClient, envCfg.Router)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	searcher, err := search.NewQdrantSearcher(envCfg.Search, embedder)
	if err != nil {
		log.Fatalf("Failed to create document searcher: %v", err)
	}

	graphs, err := graph.BuildChatGraphs(ctx, graph.Config{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		ExtractionModel: envCfg.Extraction,
		ResponseModel:   envCfg.Response,
		Conversation:    envCfg.Conversation,
		Search:          envCfg.Search,
		Searcher:        searcher,
		Locations:       geo.NewMapboxClient(envCfg.Geo),
		Router:          router.New(ctx, embedder),
	})
	if err != nil {
		log.Fatalf("Failed to build graphs: %v", err)
	}

	chat := service.NewChatService(graphs, repo.NewRedisThreadRepository(rdb, ttl))

	testMessages := []struct {
		description string
		message     string
	}{
		{
			description: "Greeting",
			message:     "Hola, buenos días",
		},
		{
			description: "Requirements question without vehicle type",
			message:     "¿Qué requisitos necesito para la revisión técnica?",
		},
		{
			description: "Clarification reply with vehicle type",
			message:     "Es un taxi, un Kia Cerato del 2018",
		},
		{
			description: "Feedback on the full answer",
			message:     "¿Y cuánto me costaría?",
		},
		{
			description: "Nearest plant from a district",
			message:     "Estoy en San Juan de Lurigancho, ¿dónde queda la planta más cercana?",
		},
		{
			description: "Close the conversation",
			message:     "gracias",
		},
	}

	threadID := uuid.NewString()
	fmt.Printf("Thread: %s\n", threadID)

	for i, test := range testMessages {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("User: %q\n", test.message)

		result := chat.ProcessMessage(ctx, test.message, threadID, false, false)
		if result.Status == service.StatusError {
			log.Fatalf("Failed to process message %d: %s", i+1, result.Error)
		}

		fmt.Printf("Assistant [%s]: %s\n", result.Status, result.Answer)
		if result.InterruptMessage != "" {
			fmt.Printf("(%s)\n", result.InterruptMessage)
		}
		fmt.Println("────────────────────────────────────────────────")

		time.Sleep(500 * time.Millisecond)
	}

	history, err := chat.GetHistory(ctx, threadID)
	if err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}
	fmt.Printf("\nHistory (%d messages):\n", len(history))
	for _, entry := range history {
		fmt.Printf("%-5s: %s\n", entry.Role, entry.Content)
	}

	fmt.Println("\nAll conversation tests completed successfully!")
}
