package model

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"24h"`
	// SummarizeAfter is the message count above which older messages are
	// folded into the rolling summary.
	SummarizeAfter int `envconfig:"CONVERSATION_SUMMARIZE_AFTER" default:"6"`
	// KeepLastMessages is how many recent messages survive a compaction.
	KeepLastMessages int `envconfig:"CONVERSATION_KEEP_LAST_MESSAGES" default:"2"`
	// ExtractionWindow bounds the messages fed to the fact extractor.
	ExtractionWindow int `envconfig:"CONVERSATION_EXTRACTION_WINDOW" default:"5"`
	// ResponseWindow bounds the recent messages rendered into the response prompt.
	ResponseWindow int `envconfig:"CONVERSATION_RESPONSE_WINDOW" default:"7"`
}

type ExtractionModelConfig struct {
	Model       string  `envconfig:"EXTRACTION_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"EXTRACTION_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"EXTRACTION_TEMPERATURE" default:"0.0"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type RouterConfig struct {
	EmbeddingModel string `envconfig:"ROUTER_EMBEDDING_MODEL" default:"gemini-embedding-001"`
	Dimensions     int    `envconfig:"ROUTER_EMBEDDING_DIMENSIONS" default:"768"`
}

type SearchConfig struct {
	URL        string `envconfig:"QDRANT_URL" required:"true"`
	APIKey     string `envconfig:"QDRANT_API_KEY"`
	Collection string `envconfig:"QDRANT_COLLECTION" default:"revisiones_tecnicas"`
	Limit      int    `envconfig:"QDRANT_SEARCH_LIMIT" default:"5"`
}

type GeoConfig struct {
	AccessToken string `envconfig:"MAPBOX_ACCESS_TOKEN" required:"true"`
	BaseURL     string `envconfig:"MAPBOX_BASE_URL" default:"https://api.mapbox.com"`
	// TimeoutSeconds applies to each geocoding/directions request.
	TimeoutSeconds int `envconfig:"MAPBOX_TIMEOUT_SECONDS" default:"10"`
}
