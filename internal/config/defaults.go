package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DocumentsPath == "" {
		cfg.Storage.DocumentsPath = "/usr/local/var/mundap/data/documents"
	}
	if cfg.Storage.ChunkCachePath == "" {
		cfg.Storage.ChunkCachePath = "/usr/local/var/mundap/data/db/chunks.db"
	}
	if cfg.Provider.Embedding.BaseURL == "" {
		cfg.Provider.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Provider.Embedding.APIKeyEnv == "" {
		cfg.Provider.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Provider.Embedding.Model == "" {
		cfg.Provider.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Provider.Embedding.Dimensions == 0 {
		cfg.Provider.Embedding.Dimensions = 1536
	}
	if cfg.Provider.Embedding.TimeoutSeconds == 0 {
		cfg.Provider.Embedding.TimeoutSeconds = 30
	}
	if cfg.Provider.Embedding.CacheSize == 0 {
		cfg.Provider.Embedding.CacheSize = 10000
	}
	if cfg.Provider.LLM.BaseURL == "" {
		cfg.Provider.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Provider.LLM.APIKeyEnv == "" {
		cfg.Provider.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Provider.LLM.Model == "" {
		cfg.Provider.LLM.Model = "gpt-4o-mini"
	}
	if cfg.Provider.LLM.MaxTokens == 0 {
		cfg.Provider.LLM.MaxTokens = 1024
	}
	if cfg.Provider.LLM.TimeoutSeconds == 0 {
		cfg.Provider.LLM.TimeoutSeconds = 120
	}
	if cfg.Chat.ChunkSize == 0 {
		cfg.Chat.ChunkSize = 2000
	}
	if cfg.Chat.ChunkOverlap == 0 {
		cfg.Chat.ChunkOverlap = 400
	}
	if cfg.Chat.VectorTopK == 0 {
		cfg.Chat.VectorTopK = 10
	}
	if cfg.Chat.KeywordTopK == 0 {
		cfg.Chat.KeywordTopK = 5
	}
	if cfg.Chat.MaxResults == 0 {
		cfg.Chat.MaxResults = 10
	}
	if cfg.Chat.MaxSourceChars == 0 {
		cfg.Chat.MaxSourceChars = 250
	}
	if cfg.Chat.DefaultTemperature == 0 {
		cfg.Chat.DefaultTemperature = 0.7
	}
	if cfg.Chat.DefaultStyle == "" {
		cfg.Chat.DefaultStyle = "professional"
	}
	if cfg.Chat.EmphasisTerms == nil {
		// Longest terms first so compound terms are bolded whole.
		cfg.Chat.EmphasisTerms = []string{
			"IT감사계획", "감사계획", "내부통제", "리스크",
			"감사", "계획", "통제", "위험",
		}
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".doc", ".docx", ".pdf", ".xlsx"}
	}
}
