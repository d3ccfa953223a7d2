package config

// Config is the top-level ragserver configuration, corresponding to .ragserver.yml.
type Config struct {
	AppName    string `yaml:"app_name" koanf:"app_name"`
	AppVersion string `yaml:"app_version" koanf:"app_version"`
	Port       int    `yaml:"port" koanf:"port"`

	// LLM provider settings. BaseURL allows any OpenAI-compatible endpoint
	// (Mistral, Ollama, OpenRouter, ...); empty means api.openai.com.
	APIKey         string `yaml:"api_key" koanf:"api_key"`
	BaseURL        string `yaml:"base_url" koanf:"base_url"`
	Model          string `yaml:"model" koanf:"model"`
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`

	// Vector store settings.
	PersistDir     string `yaml:"persist_dir" koanf:"persist_dir"`
	CollectionName string `yaml:"collection_name" koanf:"collection_name"`

	// Upload settings.
	UploadDir     string `yaml:"upload_dir" koanf:"upload_dir"`
	MaxUploadSize int64  `yaml:"max_upload_size" koanf:"max_upload_size"`

	// RAG settings.
	RetrievalTopK  int `yaml:"retrieval_top_k" koanf:"retrieval_top_k"`
	MaxConcurrency int `yaml:"max_concurrency" koanf:"max_concurrency"`

	// AllowAllOrigins relaxes CORS for local development.
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
