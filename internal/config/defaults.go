package config

// DefaultConfig returns a Config with sensible defaults. Values are
// overridden by the YAML config file and RAGSERVER_* environment variables.
func DefaultConfig() *Config {
	return &Config{
		AppName:        "ragserver",
		AppVersion:     "0.1.0",
		Port:           8000,
		Model:          "mistral-small-latest",
		EmbeddingModel: "text-embedding-3-small",
		PersistDir:     "./chroma_db",
		CollectionName: "pdf_documents",
		UploadDir:      "./uploads",
		MaxUploadSize:  10 * 1024 * 1024, // 10 MB
		RetrievalTopK:  5,
		MaxConcurrency: 10,
	}
}
